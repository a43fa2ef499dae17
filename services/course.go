package services

import (
	"context"
	"errors"
	"strings"

	"kursai/models"
	"kursai/notifications"
	"kursai/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const msgCourseNotFound = "Course not found"

// decimal(10,2) holds at most eight integer digits
var maxPrice = decimal.New(1, 8)

// CourseInput is the full set of seller-editable fields. Update replaces all of them.
type CourseInput struct {
	Title              string          `json:"title" validate:"required,max=200"`
	Description        string          `json:"description" validate:"required"`
	Price              decimal.Decimal `json:"price"`
	Category           string          `json:"category" validate:"required,max=100"`
	AttachmentFileName string          `json:"attachmentFileName" validate:"max=255"`
	AttachmentFileType string          `json:"attachmentFileType" validate:"max=100"`
	AttachmentFileURL  string          `json:"attachmentFileUrl"`
	AttachmentFileSize int64           `json:"attachmentFileSize" validate:"gte=0"`
}

// CourseQuery filters the public catalog.
type CourseQuery struct {
	Search   string `query:"search"`
	Category string `query:"category"`
}

type CourseService struct {
	store    repository.Store
	notifier Notifier
	log      zerolog.Logger
}

func NewCourseService(store repository.Store, notifier Notifier, log zerolog.Logger) *CourseService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CourseService{store: store, notifier: notifier, log: log}
}

func (s *CourseService) List(ctx context.Context, q CourseQuery) ([]CourseView, error) {
	rows, err := s.store.ListCourseRows(ctx, repository.CourseFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
	})
	if err != nil {
		return nil, internal("list courses", err)
	}
	return courseViews(rows), nil
}

func (s *CourseService) Get(ctx context.Context, id uint) (*CourseView, error) {
	row, err := s.store.GetCourseRow(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgCourseNotFound)
	}
	if err != nil {
		return nil, internal("get course", err)
	}
	view := courseView(*row)
	return &view, nil
}

func (s *CourseService) ListMine(ctx context.Context, p Principal) ([]CourseView, error) {
	rows, err := s.store.ListCourseRows(ctx, repository.CourseFilter{SellerID: p.UserID})
	if err != nil {
		return nil, internal("list my courses", err)
	}
	return courseViews(rows), nil
}

func (s *CourseService) Create(ctx context.Context, p Principal, in CourseInput) (*CourseView, error) {
	in = normalizeCourse(in)
	if err := validateCourse(in); err != nil {
		return nil, err
	}

	course := &models.Course{SellerID: p.UserID, CreatedAt: utcNow()}
	applyCourse(course, in)

	var row *repository.CourseRow
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		if err := tx.CreateCourse(ctx, course); err != nil {
			return err
		}
		var err error
		row, err = tx.GetCourseRow(ctx, course.ID)
		return err
	})
	if err != nil {
		return nil, internal("create course", err)
	}

	s.log.Info().Uint("course_id", course.ID).Uint("seller_id", p.UserID).Msg("course created")
	s.notifier.Notify(notifications.Event{
		Kind:        notifications.CourseCreated,
		To:          p.Email,
		ToName:      p.Username,
		CourseID:    row.ID,
		CourseTitle: row.Title,
		OccurredAt:  row.CreatedAt,
	})

	view := courseView(*row)
	return &view, nil
}

func (s *CourseService) Update(ctx context.Context, p Principal, id uint, in CourseInput) (*CourseView, error) {
	in = normalizeCourse(in)
	if err := validateCourse(in); err != nil {
		return nil, err
	}

	var row *repository.CourseRow
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		course, err := s.ownedCourse(ctx, tx, p, id, "You can only update your own courses")
		if err != nil {
			return err
		}
		applyCourse(course, in)
		if err := tx.SaveCourse(ctx, course); err != nil {
			return err
		}
		row, err = tx.GetCourseRow(ctx, course.ID)
		return err
	})
	if err != nil {
		return nil, passOrInternal("update course", err)
	}

	view := courseView(*row)
	return &view, nil
}

// Delete removes the course together with its favorites, purchases and ratings.
func (s *CourseService) Delete(ctx context.Context, p Principal, id uint) error {
	err := s.store.Tx(ctx, func(tx repository.Store) error {
		if _, err := s.ownedCourse(ctx, tx, p, id, "You can only delete your own courses"); err != nil {
			return err
		}
		return tx.DeleteCourseCascade(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msgCourseNotFound)
	}
	if err != nil {
		return passOrInternal("delete course", err)
	}
	s.log.Info().Uint("course_id", id).Uint("seller_id", p.UserID).Msg("course deleted")
	return nil
}

func (s *CourseService) ownedCourse(ctx context.Context, tx repository.Store, p Principal, id uint, denied string) (*models.Course, error) {
	course, err := tx.FindCourseByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(msgCourseNotFound)
	}
	if err != nil {
		return nil, err
	}
	if course.SellerID != p.UserID {
		return nil, forbidden(denied)
	}
	return course, nil
}

func normalizeCourse(in CourseInput) CourseInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.AttachmentFileName = strings.TrimSpace(in.AttachmentFileName)
	in.AttachmentFileType = strings.TrimSpace(in.AttachmentFileType)
	in.AttachmentFileURL = strings.TrimSpace(in.AttachmentFileURL)
	return in
}

func validateCourse(in CourseInput) error {
	if fields := CourseFieldErrors(in); fields != nil {
		return validationFailed(fields)
	}
	return nil
}

// CourseFieldErrors checks course input, including the price rules the
// validator tags cannot express.
func CourseFieldErrors(in CourseInput) map[string]string {
	in = normalizeCourse(in)
	fields := FieldErrors(in)
	switch {
	case !in.Price.IsPositive():
		fields = mergeFields(fields, map[string]string{"price": "Price must be greater than 0!"})
	case !in.Price.Equal(in.Price.Round(2)):
		fields = mergeFields(fields, map[string]string{"price": "Price must have at most 2 decimal places!"})
	case in.Price.GreaterThanOrEqual(maxPrice):
		fields = mergeFields(fields, map[string]string{"price": "Price is too large!"})
	}
	return fields
}

func applyCourse(c *models.Course, in CourseInput) {
	c.Title = in.Title
	c.Description = in.Description
	c.Price = in.Price.Round(2)
	c.Category = in.Category
	c.AttachmentFileName = in.AttachmentFileName
	c.AttachmentFileType = in.AttachmentFileType
	c.AttachmentFileURL = in.AttachmentFileURL
	c.AttachmentFileSize = in.AttachmentFileSize
}

// passOrInternal keeps service errors and wraps everything else.
func passOrInternal(op string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return internal(op, err)
}
