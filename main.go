package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"kursai/config"
	"kursai/database"
	"kursai/notifications"
	"kursai/repository"
	"kursai/server"
	"kursai/services"
	"kursai/token"
	"kursai/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadConfig()

	logger := newLogger(cfg)
	log.Logger = logger

	db, err := database.ConnectDb(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	store := repository.NewGormStore(db)

	tokens := token.NewManager(cfg.JWTKey, cfg.JWTExpiration)

	var sinks []notifications.Sink
	if cfg.SendGridAPIKey != "" {
		sinks = append(sinks, notifications.NewEmailSink(cfg.SendGridAPIKey, cfg.EmailSender, cfg.EmailSenderName))
	} else {
		sinks = append(sinks, notifications.LogSink{Log: logger})
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notifications.NewWebhookSink(cfg.WebhookURL, cfg.NotifyTimeout))
	}
	var kafkaSink *notifications.KafkaSink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink = notifications.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, kafkaSink)
	}
	dispatcher := notifications.NewDispatcher(logger, cfg.NotifyTimeout, store, sinks...)

	app := server.New(server.Services{
		Auth:      services.NewAuthService(store, tokens, cfg.SaltRound, logger),
		Courses:   services.NewCourseService(store, dispatcher, logger),
		Favorites: services.NewFavoriteService(store, logger),
		Purchases: services.NewPurchaseService(store, dispatcher, logger),
		Ratings:   services.NewRatingService(store, dispatcher, logger),
	}, store, server.Options{
		MaxAttachmentBytes: int64(cfg.MaxAttachmentBytes),
		AuthRateLimit:      cfg.AuthRateLimit,
		AccessLog:          true,
	})

	retention, err := utils.InitializeRetentionScheduler(store, cfg.NotificationPurgeSchedule, cfg.NotificationRetention, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start retention scheduler")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logger.Info().Msg("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.Port).Msg("Server is running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error().Err(err).Msg("Server stopped")
	}

	<-retention.Stop().Done()
	dispatcher.Wait()
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close kafka writer")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
