package repository

import (
	"context"

	"kursai/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *GormStore) CreateRating(ctx context.Context, r *models.Rating) error {
	return translate("create rating", s.conn(ctx).Omit(clause.Associations).Create(r).Error)
}

func (s *GormStore) FindRatingByID(ctx context.Context, id uint) (*models.Rating, error) {
	var r models.Rating
	if err := s.conn(ctx).First(&r, id).Error; err != nil {
		return nil, translate("find rating", err)
	}
	return &r, nil
}

func (s *GormStore) FindUserRating(ctx context.Context, userID, courseID uint) (*RatingRow, error) {
	var r models.Rating
	err := s.conn(ctx).Joins("User").
		Where("ratings.user_id = ? AND ratings.course_id = ?", userID, courseID).
		First(&r).Error
	if err != nil {
		return nil, translate("find user rating", err)
	}
	return &RatingRow{Rating: r, Username: r.User.Username}, nil
}

func (s *GormStore) SaveRating(ctx context.Context, r *models.Rating) error {
	return translate("save rating", s.conn(ctx).Omit(clause.Associations).Save(r).Error)
}

func (s *GormStore) DeleteRating(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Rating{}, id)
	if res.Error != nil {
		return translate("delete rating", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete rating", gorm.ErrRecordNotFound)
	}
	return nil
}

// ListRatingRows returns a course's ratings newest first.
func (s *GormStore) ListRatingRows(ctx context.Context, courseID uint) ([]RatingRow, error) {
	var ratings []models.Rating
	err := s.conn(ctx).Joins("User").
		Where("ratings.course_id = ?", courseID).
		Order("ratings.created_at DESC").Order("ratings.id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, translate("list ratings", err)
	}
	rows := make([]RatingRow, len(ratings))
	for i, r := range ratings {
		rows[i] = RatingRow{Rating: r, Username: r.User.Username}
	}
	return rows, nil
}

type scoreCount struct {
	Score int
	Total int
}

// RatingScoreCounts returns how many ratings the course has per score value.
func (s *GormStore) RatingScoreCounts(ctx context.Context, courseID uint) (map[int]int, error) {
	var counts []scoreCount
	err := s.conn(ctx).Model(&models.Rating{}).
		Select("score, COUNT(*) AS total").
		Where("course_id = ?", courseID).
		Group("score").
		Scan(&counts).Error
	if err != nil {
		return nil, translate("count ratings", err)
	}
	out := make(map[int]int, len(counts))
	for _, c := range counts {
		out[c.Score] = c.Total
	}
	return out, nil
}
