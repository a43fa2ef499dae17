package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records that a user bought a course. Price is a snapshot taken at
// purchase time and does not follow later edits of the course.
type Purchase struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;uniqueIndex:idx_purchases_user_course,priority:1" json:"userId"`
	CourseID     uint            `gorm:"not null;uniqueIndex:idx_purchases_user_course,priority:2;index" json:"courseId"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	PurchaseDate time.Time       `gorm:"not null" json:"purchaseDate"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
