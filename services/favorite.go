package services

import (
	"context"
	"errors"

	"kursai/models"
	"kursai/repository"

	"github.com/rs/zerolog"
)

type FavoriteService struct {
	store repository.Store
	log   zerolog.Logger
}

func NewFavoriteService(store repository.Store, log zerolog.Logger) *FavoriteService {
	return &FavoriteService{store: store, log: log}
}

func (s *FavoriteService) Add(ctx context.Context, p Principal, courseID uint) (*models.Favorite, error) {
	fav := &models.Favorite{UserID: p.UserID, CourseID: courseID, AddedDate: utcNow()}
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		if _, err := tx.FindCourseByID(ctx, courseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound(msgCourseNotFound)
			}
			return err
		}
		if _, err := tx.FindFavorite(ctx, p.UserID, courseID); err == nil {
			return conflict(msgAlreadyFavorite)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return tx.CreateFavorite(ctx, fav)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, conflict(msgAlreadyFavorite)
	}
	if err != nil {
		return nil, passOrInternal("add favorite", err)
	}
	s.log.Debug().Uint("course_id", courseID).Uint("user_id", p.UserID).Msg("course favorited")
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, p Principal, courseID uint) error {
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		fav, err := tx.FindFavorite(ctx, p.UserID, courseID)
		if err != nil {
			return err
		}
		return tx.DeleteFavorite(ctx, fav.ID)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msgFavoriteNotFound)
	}
	if err != nil {
		return internal("remove favorite", err)
	}
	return nil
}

// Check reports whether the course is in the caller's favorites.
func (s *FavoriteService) Check(ctx context.Context, p Principal, courseID uint) (bool, error) {
	_, err := s.store.FindFavorite(ctx, p.UserID, courseID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, internal("check favorite", err)
	}
	return true, nil
}

func (s *FavoriteService) List(ctx context.Context, p Principal) ([]CourseView, error) {
	rows, err := s.store.ListFavoriteCourseRows(ctx, p.UserID)
	if err != nil {
		return nil, internal("list favorites", err)
	}
	return courseViews(rows), nil
}
