package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_course,priority:1" json:"userId"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_favorites_user_course,priority:2;index" json:"courseId"`
	AddedDate time.Time `gorm:"not null" json:"addedDate"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
