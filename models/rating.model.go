package models

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

type Rating struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CourseID  uint       `gorm:"not null;uniqueIndex:idx_ratings_user_course,priority:2;index" json:"courseId"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_ratings_user_course,priority:1" json:"userId"`
	Score     int        `gorm:"not null;check:chk_ratings_score,score >= 1 AND score <= 5" json:"score"`
	Review    *string    `gorm:"size:1000" json:"review"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"` // nil until the first edit

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// RatingSummary is the derived aggregate of a course's ratings.
type RatingSummary struct {
	Average float64
	Total   int
}
