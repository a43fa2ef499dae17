package repository

import (
	"context"

	"kursai/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateFavorite(ctx context.Context, fav *models.Favorite) error {
	return translate("create favorite", s.conn(ctx).Omit(clause.Associations).Create(fav).Error)
}

func (s *GormStore) FindFavorite(ctx context.Context, userID, courseID uint) (*models.Favorite, error) {
	var fav models.Favorite
	err := s.conn(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&fav).Error
	if err != nil {
		return nil, translate("find favorite", err)
	}
	return &fav, nil
}

func (s *GormStore) DeleteFavorite(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Favorite{}, id)
	if res.Error != nil {
		return translate("delete favorite", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete favorite", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListFavoriteCourseRows returns the user's favorite courses, most recently added first.
func (s *GormStore) ListFavoriteCourseRows(ctx context.Context, userID uint) ([]CourseRow, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("added_date DESC").Order("id DESC").
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, translate("list favorites", err)
	}
	return s.courseRowsByIDs(ctx, ids)
}

func (s *GormStore) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	return translate("create purchase", s.conn(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *GormStore) HasPurchased(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Purchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, translate("check purchase", err)
	}
	return count > 0, nil
}

// ListPurchasedCourseRows returns the user's purchased courses, newest purchase first.
func (s *GormStore) ListPurchasedCourseRows(ctx context.Context, userID uint) ([]CourseRow, error) {
	var ids []uint
	err := s.conn(ctx).Model(&models.Purchase{}).
		Where("user_id = ?", userID).
		Order("purchase_date DESC").Order("id DESC").
		Pluck("course_id", &ids).Error
	if err != nil {
		return nil, translate("list purchases", err)
	}
	return s.courseRowsByIDs(ctx, ids)
}
