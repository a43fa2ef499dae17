package models

import "time"

// User is an account that can buy, sell, favorite and rate courses.
// Seller is a per-course role, there is no global role column.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string    `gorm:"size:100;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}
