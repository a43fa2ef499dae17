package utils

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// NotificationLogPurger deletes notification log rows older than a cutoff.
type NotificationLogPurger interface {
	PurgeNotificationLogs(ctx context.Context, before time.Time) (int64, error)
}

// InitializeRetentionScheduler starts a cron job that purges notification log
// rows older than retention. The caller stops the returned cron on shutdown.
func InitializeRetentionScheduler(store NotificationLogPurger, schedule string, retention time.Duration, log zerolog.Logger) (*cron.Cron, error) {
	log = log.With().Str("component", "retention-scheduler").Logger()
	log.Info().Str("schedule", schedule).Dur("retention", retention).Msg("Initializing retention scheduler...")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		PurgeNotificationLogs(context.Background(), store, retention, time.Now().UTC(), log)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

// PurgeNotificationLogs runs one retention pass relative to now.
func PurgeNotificationLogs(ctx context.Context, store NotificationLogPurger, retention time.Duration, now time.Time, log zerolog.Logger) int64 {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	purged, err := store.PurgeNotificationLogs(ctx, now.Add(-retention))
	if err != nil {
		log.Error().Err(err).Msg("Error purging notification logs")
		return 0
	}
	log.Info().Int64("purged", purged).Msg("Notification log retention pass finished")
	return purged
}
