package database

import (
	"errors"
	"fmt"
	"time"

	"kursai/config"
	"kursai/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector builds the gorm dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// ConnectDb opens the database, configures pooling and runs migrations
func ConnectDb(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := Open(dialector, logger.Warn)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(0)

	log.Info().Str("driver", cfg.DBDriver).Msg("Running Migrations...")
	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	log.Info().Msg("Migrations completed successfully.")

	if cfg.SeedDemoUser {
		if err := SeedDemoUser(db, cfg.SaltRound); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Open wraps gorm.Open with the settings every store relies on. TranslateError
// turns unique index violations into gorm.ErrDuplicatedKey on all three drivers.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Favorite{},
		&models.Purchase{},
		&models.Rating{},
		&models.NotificationLog{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// SeedDemoUser creates the demo/demo123 account if it does not exist yet
func SeedDemoUser(db *gorm.DB, cost int) error {
	var existing models.User
	err := db.Where("username = ?", "demo").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), cost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	demo := models.User{
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.Create(&demo).Error; err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	return nil
}

// OpenInMemory returns a migrated, private SQLite database. Every connection to
// ":memory:" is a separate database, so the pool is pinned to one connection.
func OpenInMemory() (*gorm.DB, error) {
	db, err := Open(sqlite.Open("file::memory:"), logger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}
