// Package repository is the single persistence abstraction shared by every
// service. GormStore implements it on top of any gorm dialector.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kursai/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// CourseFilter narrows course listings. Zero values mean "no filter".
type CourseFilter struct {
	SellerID uint
	Search   string
	Category string
}

// CourseRow is a course joined with its seller's username and rating aggregate.
type CourseRow struct {
	models.Course
	SellerName    string
	AverageRating float64
	TotalRatings  int
}

// RatingRow is a rating joined with its author's username.
type RatingRow struct {
	models.Rating
	Username string
}

// Store is the persistence contract used by the services.
type Store interface {
	// Tx runs fn inside one transaction; fn receives a Store bound to it.
	Tx(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateCourse(ctx context.Context, course *models.Course) error
	FindCourseByID(ctx context.Context, id uint) (*models.Course, error)
	SaveCourse(ctx context.Context, course *models.Course) error
	DeleteCourseCascade(ctx context.Context, id uint) error
	GetCourseRow(ctx context.Context, id uint) (*CourseRow, error)
	ListCourseRows(ctx context.Context, filter CourseFilter) ([]CourseRow, error)

	CreateFavorite(ctx context.Context, fav *models.Favorite) error
	FindFavorite(ctx context.Context, userID, courseID uint) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, id uint) error
	ListFavoriteCourseRows(ctx context.Context, userID uint) ([]CourseRow, error)

	CreatePurchase(ctx context.Context, p *models.Purchase) error
	HasPurchased(ctx context.Context, userID, courseID uint) (bool, error)
	ListPurchasedCourseRows(ctx context.Context, userID uint) ([]CourseRow, error)

	CreateRating(ctx context.Context, r *models.Rating) error
	FindRatingByID(ctx context.Context, id uint) (*models.Rating, error)
	FindUserRating(ctx context.Context, userID, courseID uint) (*RatingRow, error)
	SaveRating(ctx context.Context, r *models.Rating) error
	DeleteRating(ctx context.Context, id uint) error
	ListRatingRows(ctx context.Context, courseID uint) ([]RatingRow, error)
	RatingScoreCounts(ctx context.Context, courseID uint) (map[int]int, error)

	CreateNotificationLog(ctx context.Context, entry *models.NotificationLog) error
	PurgeNotificationLogs(ctx context.Context, before time.Time) (int64, error)
}

// GormStore implements Store with gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Tx implements Store.
func (s *GormStore) Tx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// Ping checks the underlying connection, used by the health endpoint.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps gorm errors onto the package sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
