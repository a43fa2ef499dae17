package repository

import (
	"context"
	"strings"

	"kursai/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper makes search input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return translate("create course", s.conn(ctx).Omit(clause.Associations).Create(course).Error)
}

func (s *GormStore) FindCourseByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := s.conn(ctx).First(&course, id).Error; err != nil {
		return nil, translate("find course", err)
	}
	return &course, nil
}

func (s *GormStore) SaveCourse(ctx context.Context, course *models.Course) error {
	return translate("save course", s.conn(ctx).Omit(clause.Associations).Save(course).Error)
}

// DeleteCourseCascade removes the course's favorites, purchases and ratings and
// then the course itself. SQLite runs without the foreign_keys pragma, so the
// dependent rows are deleted explicitly.
func (s *GormStore) DeleteCourseCascade(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return translate("delete course favorites", err)
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Purchase{}).Error; err != nil {
			return translate("delete course purchases", err)
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return translate("delete course ratings", err)
		}
		res := tx.Delete(&models.Course{}, id)
		if res.Error != nil {
			return translate("delete course", res.Error)
		}
		if res.RowsAffected == 0 {
			return translate("delete course", gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (s *GormStore) GetCourseRow(ctx context.Context, id uint) (*CourseRow, error) {
	rows, err := s.courseRowsByIDs(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, translate("get course", gorm.ErrRecordNotFound)
	}
	return &rows[0], nil
}

// ListCourseRows returns matching courses newest first.
func (s *GormStore) ListCourseRows(ctx context.Context, filter CourseFilter) ([]CourseRow, error) {
	q := s.conn(ctx).Model(&models.Course{}).Joins("Seller")
	if filter.SellerID != 0 {
		q = q.Where("courses.seller_id = ?", filter.SellerID)
	}
	if filter.Category != "" {
		q = q.Where("courses.category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where("LOWER(courses.title) LIKE ? ESCAPE '!' OR LOWER(courses.description) LIKE ? ESCAPE '!'", like, like)
	}

	var courses []models.Course
	if err := q.Order("courses.created_at DESC").Order("courses.id DESC").Find(&courses).Error; err != nil {
		return nil, translate("list courses", err)
	}
	return s.withSummaries(ctx, courses)
}

// courseRowsByIDs loads the given courses and returns them in the order of ids.
// Missing ids are skipped.
func (s *GormStore) courseRowsByIDs(ctx context.Context, ids []uint) ([]CourseRow, error) {
	if len(ids) == 0 {
		return []CourseRow{}, nil
	}
	var courses []models.Course
	if err := s.conn(ctx).Model(&models.Course{}).Joins("Seller").
		Where("courses.id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, translate("load courses", err)
	}

	byID := make(map[uint]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	ordered := make([]models.Course, 0, len(courses))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return s.withSummaries(ctx, ordered)
}

type ratingAggregate struct {
	CourseID uint
	Total    int64
	ScoreSum int64
}

func (s *GormStore) withSummaries(ctx context.Context, courses []models.Course) ([]CourseRow, error) {
	rows := make([]CourseRow, 0, len(courses))
	if len(courses) == 0 {
		return rows, nil
	}

	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	var aggs []ratingAggregate
	err := s.conn(ctx).Model(&models.Rating{}).
		Select("course_id, COUNT(*) AS total, COALESCE(SUM(score), 0) AS score_sum").
		Where("course_id IN ?", ids).
		Group("course_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, translate("aggregate ratings", err)
	}
	summaries := make(map[uint]models.RatingSummary, len(aggs))
	for _, a := range aggs {
		if a.Total == 0 {
			continue
		}
		summaries[a.CourseID] = models.RatingSummary{
			Average: float64(a.ScoreSum) / float64(a.Total),
			Total:   int(a.Total),
		}
	}

	for _, c := range courses {
		sum := summaries[c.ID]
		rows = append(rows, CourseRow{
			Course:        c,
			SellerName:    c.Seller.Username,
			AverageRating: sum.Average,
			TotalRatings:  sum.Total,
		})
	}
	return rows, nil
}
