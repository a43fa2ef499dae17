// Package services holds the marketplace rules: identity, catalog, favorites,
// purchases and ratings. Every service works against repository.Store and
// reports failures as *Error.
package services

import (
	"time"

	"kursai/models"
	"kursai/notifications"
	"kursai/repository"
)

// Principal is the authenticated caller, resolved from the store on every
// request. Token claims are never used in its place.
type Principal struct {
	UserID   uint
	Username string
	Email    string
}

// Notifier receives best-effort events after a successful write.
type Notifier interface {
	Notify(evt notifications.Event)
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(notifications.Event) {}

func utcNow() time.Time {
	return time.Now().UTC()
}

// CourseView is the public shape of a course.
type CourseView struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"`
	SellerID           uint      `json:"sellerId"`
	SellerName         string    `json:"sellerName"`
	Category           string    `json:"category"`
	AttachmentFileName string    `json:"attachmentFileName,omitempty"`
	AttachmentFileType string    `json:"attachmentFileType,omitempty"`
	AttachmentFileURL  string    `json:"attachmentFileUrl,omitempty"`
	AttachmentFileSize int64     `json:"attachmentFileSize,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	AverageRating      float64   `json:"averageRating"`
	TotalRatings       int       `json:"totalRatings"`
}

func courseView(row repository.CourseRow) CourseView {
	return CourseView{
		ID:                 row.ID,
		Title:              row.Title,
		Description:        row.Description,
		Price:              row.Price.InexactFloat64(),
		SellerID:           row.SellerID,
		SellerName:         row.SellerName,
		Category:           row.Category,
		AttachmentFileName: row.AttachmentFileName,
		AttachmentFileType: row.AttachmentFileType,
		AttachmentFileURL:  row.AttachmentFileURL,
		AttachmentFileSize: row.AttachmentFileSize,
		CreatedAt:          row.CreatedAt,
		AverageRating:      row.AverageRating,
		TotalRatings:       row.TotalRatings,
	}
}

func courseViews(rows []repository.CourseRow) []CourseView {
	out := make([]CourseView, len(rows))
	for i, row := range rows {
		out[i] = courseView(row)
	}
	return out
}

// RatingView is the public shape of a rating.
type RatingView struct {
	ID        uint       `json:"id"`
	CourseID  uint       `json:"courseId"`
	UserID    uint       `json:"userId"`
	Username  string     `json:"username"`
	Score     int        `json:"score"`
	Review    *string    `json:"review"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

func ratingView(r models.Rating, username string) RatingView {
	return RatingView{
		ID:        r.ID,
		CourseID:  r.CourseID,
		UserID:    r.UserID,
		Username:  username,
		Score:     r.Score,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// RatingStats is the aggregate of one course's ratings.
type RatingStats struct {
	CourseID      uint    `json:"courseId"`
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int     `json:"totalRatings"`
	FiveStars     int     `json:"fiveStars"`
	FourStars     int     `json:"fourStars"`
	ThreeStars    int     `json:"threeStars"`
	TwoStars      int     `json:"twoStars"`
	OneStar       int     `json:"oneStar"`
}

// Histogram returns the counts for scores 1..5, index 0 is one star.
func (s RatingStats) Histogram() [models.MaxScore]int {
	return [models.MaxScore]int{s.OneStar, s.TwoStars, s.ThreeStars, s.FourStars, s.FiveStars}
}
