package services

import (
	"context"
	"errors"

	"kursai/models"
	"kursai/notifications"
	"kursai/repository"

	"github.com/rs/zerolog"
)

type PurchaseService struct {
	store    repository.Store
	notifier Notifier
	log      zerolog.Logger
}

func NewPurchaseService(store repository.Store, notifier Notifier, log zerolog.Logger) *PurchaseService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &PurchaseService{store: store, notifier: notifier, log: log}
}

// Purchase records the caller buying the course at its current price.
func (s *PurchaseService) Purchase(ctx context.Context, p Principal, courseID uint) (*models.Purchase, error) {
	var course *models.Course
	purchase := &models.Purchase{UserID: p.UserID, CourseID: courseID, PurchaseDate: utcNow()}
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		var err error
		course, err = tx.FindCourseByID(ctx, courseID)
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(msgCourseNotFound)
		}
		if err != nil {
			return err
		}
		purchased, err := tx.HasPurchased(ctx, p.UserID, courseID)
		if err != nil {
			return err
		}
		if purchased {
			return conflict(msgAlreadyPurchased)
		}
		purchase.Price = course.Price
		return tx.CreatePurchase(ctx, purchase)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, conflict(msgAlreadyPurchased)
	}
	if err != nil {
		return nil, passOrInternal("purchase course", err)
	}

	s.log.Info().Uint("course_id", courseID).Uint("user_id", p.UserID).Str("price", purchase.Price.StringFixed(2)).Msg("course purchased")
	s.notifier.Notify(notifications.Event{
		Kind:          notifications.PurchaseConfirmed,
		To:            p.Email,
		ToName:        p.Username,
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		Price:         purchase.Price.StringFixed(2),
		HasAttachment: course.AttachmentFileURL != "",
		OccurredAt:    purchase.PurchaseDate,
	})
	return purchase, nil
}

func (s *PurchaseService) HasPurchased(ctx context.Context, p Principal, courseID uint) (bool, error) {
	ok, err := s.store.HasPurchased(ctx, p.UserID, courseID)
	if err != nil {
		return false, internal("check purchase", err)
	}
	return ok, nil
}

func (s *PurchaseService) List(ctx context.Context, p Principal) ([]CourseView, error) {
	rows, err := s.store.ListPurchasedCourseRows(ctx, p.UserID)
	if err != nil {
		return nil, internal("list purchases", err)
	}
	return courseViews(rows), nil
}
