package services

import (
	"context"
	"errors"
	"strings"

	"kursai/models"
	"kursai/notifications"
	"kursai/repository"

	"github.com/rs/zerolog"
)

type RatingInput struct {
	Score  int     `json:"score" validate:"required,min=1,max=5"`
	Review *string `json:"review" validate:"omitempty,max=1000"`
}

func (in RatingInput) normalized() RatingInput {
	if in.Review != nil {
		review := strings.Clone(strings.TrimSpace(*in.Review))
		if review == "" {
			in.Review = nil
		} else {
			in.Review = &review
		}
	}
	return in
}

type RatingService struct {
	store    repository.Store
	notifier Notifier
	log      zerolog.Logger
}

func NewRatingService(store repository.Store, notifier Notifier, log zerolog.Logger) *RatingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &RatingService{store: store, notifier: notifier, log: log}
}

// Create rates a course. Only buyers and the course's seller may rate, and
// only once; the eligibility checks run before the input is validated.
func (s *RatingService) Create(ctx context.Context, p Principal, courseID uint, in RatingInput) (*RatingView, error) {
	in = in.normalized()

	var (
		course *models.Course
		seller *models.User
		rating *models.Rating
	)
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		var err error
		course, err = tx.FindCourseByID(ctx, courseID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(msgCourseNotFound)
		}
		if err != nil {
			return err
		}

		if course.SellerID != p.UserID {
			purchased, err := tx.HasPurchased(ctx, p.UserID, courseID)
			if err != nil {
				return err
			}
			if !purchased {
				return badRequest(msgPurchaseRequired)
			}
		}

		if _, err := tx.FindUserRating(ctx, p.UserID, courseID); err == nil {
			return conflict(msgAlreadyRated)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if fields := FieldErrors(in); fields != nil {
			return validationFailed(fields)
		}

		rating = &models.Rating{
			CourseID:  courseID,
			UserID:    p.UserID,
			Score:     in.Score,
			Review:    in.Review,
			CreatedAt: utcNow(),
		}
		if err := tx.CreateRating(ctx, rating); err != nil {
			return err
		}

		seller, err = tx.FindUserByID(ctx, course.SellerID)
		return err
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, conflict(msgAlreadyRated)
	}
	if err != nil {
		return nil, passOrInternal("create rating", err)
	}

	s.log.Info().Uint("course_id", courseID).Uint("user_id", p.UserID).Int("score", rating.Score).Msg("course rated")
	evt := notifications.Event{
		Kind:        notifications.RatingReceived,
		To:          seller.Email,
		ToName:      seller.Username,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Score:       rating.Score,
		OccurredAt:  rating.CreatedAt,
	}
	if rating.Review != nil {
		evt.Review = strings.Clone(*rating.Review)
	}
	s.notifier.Notify(evt)

	view := ratingView(*rating, p.Username)
	return &view, nil
}

// Update overwrites the caller's own rating.
func (s *RatingService) Update(ctx context.Context, p Principal, ratingID uint, in RatingInput) (*RatingView, error) {
	in = in.normalized()
	if fields := FieldErrors(in); fields != nil {
		return nil, validationFailed(fields)
	}

	var rating *models.Rating
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		var err error
		rating, err = s.ownedRating(ctx, tx, p, ratingID, "You can only update your own ratings")
		if err != nil {
			return err
		}
		now := utcNow()
		rating.Score = in.Score
		rating.Review = in.Review
		rating.UpdatedAt = &now
		return tx.SaveRating(ctx, rating)
	})
	if err != nil {
		return nil, passOrInternal("update rating", err)
	}

	view := ratingView(*rating, p.Username)
	return &view, nil
}

func (s *RatingService) Delete(ctx context.Context, p Principal, ratingID uint) error {
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		if _, err := s.ownedRating(ctx, tx, p, ratingID, "You can only delete your own ratings"); err != nil {
			return err
		}
		return tx.DeleteRating(ctx, ratingID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msgRatingNotFound)
	}
	if err != nil {
		return passOrInternal("delete rating", err)
	}
	return nil
}

func (s *RatingService) ownedRating(ctx context.Context, tx repository.Store, p Principal, id uint, denied string) (*models.Rating, error) {
	rating, err := tx.FindRatingByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgRatingNotFound)
	}
	if err != nil {
		return nil, err
	}
	if rating.UserID != p.UserID {
		return nil, forbidden(denied)
	}
	return rating, nil
}

// ListForCourse returns the course's ratings newest first. An unknown course
// has no ratings.
func (s *RatingService) ListForCourse(ctx context.Context, courseID uint) ([]RatingView, error) {
	rows, err := s.store.ListRatingRows(ctx, courseID)
	if err != nil {
		return nil, internal("list ratings", err)
	}
	out := make([]RatingView, len(rows))
	for i, row := range rows {
		out[i] = ratingView(row.Rating, row.Username)
	}
	return out, nil
}

// Stats aggregates the course's ratings. No ratings yields zeros.
func (s *RatingService) Stats(ctx context.Context, courseID uint) (*RatingStats, error) {
	counts, err := s.store.RatingScoreCounts(ctx, courseID)
	if err != nil {
		return nil, internal("rating stats", err)
	}

	stats := &RatingStats{
		CourseID:   courseID,
		OneStar:    counts[1],
		TwoStars:   counts[2],
		ThreeStars: counts[3],
		FourStars:  counts[4],
		FiveStars:  counts[5],
	}
	sum := 0
	for score := models.MinScore; score <= models.MaxScore; score++ {
		stats.TotalRatings += counts[score]
		sum += score * counts[score]
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalRatings)
	}
	return stats, nil
}

// GetMine returns the caller's rating on the course.
func (s *RatingService) GetMine(ctx context.Context, p Principal, courseID uint) (*RatingView, error) {
	row, err := s.store.FindUserRating(ctx, p.UserID, courseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgNoRatingForCourse)
	}
	if err != nil {
		return nil, internal("get my rating", err)
	}
	view := ratingView(row.Rating, row.Username)
	return &view, nil
}
