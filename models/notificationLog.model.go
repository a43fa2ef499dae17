package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// NotificationLog keeps one row per delivery attempt of a best-effort notification.
type NotificationLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Kind      string         `gorm:"size:50;not null;index" json:"kind"`
	Recipient string         `gorm:"size:100" json:"recipient"`
	Sink      string         `gorm:"size:30;not null" json:"sink"`
	Status    string         `gorm:"size:10;not null" json:"status"`
	Error     string         `gorm:"size:1000" json:"error,omitempty"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"not null;index" json:"createdAt"`
}
