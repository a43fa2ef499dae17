package repository

import (
	"context"
	"time"

	"kursai/models"
)

func (s *GormStore) CreateNotificationLog(ctx context.Context, entry *models.NotificationLog) error {
	return translate("create notification log", s.conn(ctx).Create(entry).Error)
}

// PurgeNotificationLogs deletes log rows created before the cutoff.
func (s *GormStore) PurgeNotificationLogs(ctx context.Context, before time.Time) (int64, error) {
	res := s.conn(ctx).Where("created_at < ?", before).Delete(&models.NotificationLog{})
	if res.Error != nil {
		return 0, translate("purge notification logs", res.Error)
	}
	return res.RowsAffected, nil
}
