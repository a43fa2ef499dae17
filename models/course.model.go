package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is a listing owned by its seller. Favorites, purchases and ratings
// hang off it and are removed together with it.
type Course struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:200;not null;index" json:"title"`
	Description string          `gorm:"not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	SellerID    uint            `gorm:"not null;index" json:"sellerId"`
	Category    string          `gorm:"size:100;not null;index" json:"category"`

	// Attachment metadata, the file itself is an opaque URL or data URL
	AttachmentFileName string `gorm:"size:255" json:"attachmentFileName"`
	AttachmentFileType string `gorm:"size:100" json:"attachmentFileType"`
	AttachmentFileURL  string `json:"attachmentFileUrl"`
	AttachmentFileSize int64  `gorm:"default:0" json:"attachmentFileSize"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`

	Seller User `gorm:"foreignKey:SellerID;constraint:OnDelete:RESTRICT" json:"-"`
}
