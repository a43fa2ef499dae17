package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"kursai/database"
	"kursai/models"
	"kursai/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *repository.GormStore {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewGormStore(db)
}

func seedUser(t *testing.T, s repository.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@x.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedCourse(t *testing.T, s repository.Store, seller uint, title, category string, createdAt time.Time) *models.Course {
	t.Helper()
	c := &models.Course{
		Title:       title,
		Description: "about " + title,
		Price:       decimal.RequireFromString("10.00"),
		SellerID:    seller,
		Category:    category,
		CreatedAt:   createdAt,
	}
	require.NoError(t, s.CreateCourse(context.Background(), c))
	return c
}

func TestCreateUserDuplicates(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seedUser(t, s, "alice")

	err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	err = s.CreateUser(ctx, &models.User{Username: "bob", Email: "alice@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// usernames are case-sensitive
	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "Alice", Email: "A@x.com", PasswordHash: "h"}))
}

func TestFindUserNotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.FindUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.FindUserByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLedgerUniqueness(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "alice")
	buyer := seedUser(t, s, "bob")
	course := seedCourse(t, s, seller.ID, "Go", "dev", time.Now().UTC())

	require.NoError(t, s.CreateFavorite(ctx, &models.Favorite{UserID: buyer.ID, CourseID: course.ID, AddedDate: time.Now().UTC()}))
	err := s.CreateFavorite(ctx, &models.Favorite{UserID: buyer.ID, CourseID: course.ID, AddedDate: time.Now().UTC()})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, s.CreatePurchase(ctx, &models.Purchase{UserID: buyer.ID, CourseID: course.ID, Price: course.Price, PurchaseDate: time.Now().UTC()}))
	err = s.CreatePurchase(ctx, &models.Purchase{UserID: buyer.ID, CourseID: course.ID, Price: course.Price, PurchaseDate: time.Now().UTC()})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, s.CreateRating(ctx, &models.Rating{UserID: buyer.ID, CourseID: course.ID, Score: 5}))
	err = s.CreateRating(ctx, &models.Rating{UserID: buyer.ID, CourseID: course.ID, Score: 3})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestDeleteCourseCascade(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "alice")
	buyer := seedUser(t, s, "bob")
	course := seedCourse(t, s, seller.ID, "Go", "dev", time.Now().UTC())
	other := seedCourse(t, s, seller.ID, "Rust", "dev", time.Now().UTC())

	now := time.Now().UTC()
	for _, id := range []uint{course.ID, other.ID} {
		require.NoError(t, s.CreateFavorite(ctx, &models.Favorite{UserID: buyer.ID, CourseID: id, AddedDate: now}))
		require.NoError(t, s.CreatePurchase(ctx, &models.Purchase{UserID: buyer.ID, CourseID: id, Price: course.Price, PurchaseDate: now}))
		require.NoError(t, s.CreateRating(ctx, &models.Rating{UserID: buyer.ID, CourseID: id, Score: 4}))
	}

	require.NoError(t, s.DeleteCourseCascade(ctx, course.ID))

	_, err := s.FindCourseByID(ctx, course.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.FindFavorite(ctx, buyer.ID, course.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	purchased, err := s.HasPurchased(ctx, buyer.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, purchased)
	ratings, err := s.ListRatingRows(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)

	// the other course keeps its rows
	_, err = s.FindFavorite(ctx, buyer.ID, other.ID)
	assert.NoError(t, err)
	purchased, err = s.HasPurchased(ctx, buyer.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, purchased)

	assert.ErrorIs(t, s.DeleteCourseCascade(ctx, course.ID), repository.ErrNotFound)
}

func TestListCourseRowsNewestFirstWithSummary(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "alice")
	buyer := seedUser(t, s, "bob")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	older := seedCourse(t, s, seller.ID, "Older", "dev", base)
	newer := seedCourse(t, s, seller.ID, "Newer", "design", base.Add(time.Hour))

	require.NoError(t, s.CreateRating(ctx, &models.Rating{UserID: buyer.ID, CourseID: older.ID, Score: 5}))
	require.NoError(t, s.CreateRating(ctx, &models.Rating{UserID: seller.ID, CourseID: older.ID, Score: 4}))

	rows, err := s.ListCourseRows(ctx, repository.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
	assert.Equal(t, "alice", rows[0].SellerName)
	assert.Equal(t, 0, rows[0].TotalRatings)
	assert.Equal(t, 0.0, rows[0].AverageRating)
	assert.Equal(t, 2, rows[1].TotalRatings)
	assert.InDelta(t, 4.5, rows[1].AverageRating, 1e-9)
	assert.True(t, rows[1].Price.Equal(decimal.RequireFromString("10")))

	row, err := s.GetCourseRow(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Older", row.Title)
	assert.Equal(t, 2, row.TotalRatings)

	_, err = s.GetCourseRow(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListCourseRowsFilters(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	now := time.Now().UTC()
	seedCourse(t, s, alice.ID, "Intro to Go", "programming", now)
	seedCourse(t, s, alice.ID, "Watercolor", "art", now)
	seedCourse(t, s, bob.ID, "Advanced GO patterns", "programming", now)

	rows, err := s.ListCourseRows(ctx, repository.CourseFilter{Search: "go"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = s.ListCourseRows(ctx, repository.CourseFilter{Category: "art"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Watercolor", rows[0].Title)

	rows, err = s.ListCourseRows(ctx, repository.CourseFilter{SellerID: bob.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0].SellerName)

	rows, err = s.ListCourseRows(ctx, repository.CourseFilter{SellerID: alice.ID, Category: "programming", Search: "intro"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestListCourseRowsSearchIsLiteral(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice")
	now := time.Now().UTC()
	seedCourse(t, s, alice.ID, "100% Go", "programming", now)
	seedCourse(t, s, alice.ID, "Plain", "programming", now)
	seedCourse(t, s, alice.ID, "Wow!", "programming", now)

	rows, err := s.ListCourseRows(ctx, repository.CourseFilter{Search: "%"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "100% Go", rows[0].Title)

	rows, err = s.ListCourseRows(ctx, repository.CourseFilter{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.ListCourseRows(ctx, repository.CourseFilter{Search: "wow!"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Wow!", rows[0].Title)
}

func TestFavoriteAndPurchaseListsOrderByDate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "alice")
	buyer := seedUser(t, s, "bob")
	now := time.Now().UTC()
	first := seedCourse(t, s, seller.ID, "First", "dev", now)
	second := seedCourse(t, s, seller.ID, "Second", "dev", now)

	require.NoError(t, s.CreateFavorite(ctx, &models.Favorite{UserID: buyer.ID, CourseID: second.ID, AddedDate: now.Add(-time.Hour)}))
	require.NoError(t, s.CreateFavorite(ctx, &models.Favorite{UserID: buyer.ID, CourseID: first.ID, AddedDate: now}))
	require.NoError(t, s.CreatePurchase(ctx, &models.Purchase{UserID: buyer.ID, CourseID: first.ID, Price: first.Price, PurchaseDate: now.Add(-time.Hour)}))
	require.NoError(t, s.CreatePurchase(ctx, &models.Purchase{UserID: buyer.ID, CourseID: second.ID, Price: second.Price, PurchaseDate: now}))

	favs, err := s.ListFavoriteCourseRows(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, first.ID, favs[0].ID)
	assert.Equal(t, second.ID, favs[1].ID)

	bought, err := s.ListPurchasedCourseRows(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, bought, 2)
	assert.Equal(t, second.ID, bought[0].ID)
	assert.Equal(t, first.ID, bought[1].ID)

	none, err := s.ListFavoriteCourseRows(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRatingQueries(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	seller := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	carol := seedUser(t, s, "carol")
	course := seedCourse(t, s, seller.ID, "Go", "dev", time.Now().UTC())

	review := "great"
	require.NoError(t, s.CreateRating(ctx, &models.Rating{UserID: bob.ID, CourseID: course.ID, Score: 5, Review: &review}))
	require.NoError(t, s.CreateRating(ctx, &models.Rating{UserID: carol.ID, CourseID: course.ID, Score: 5}))
	require.NoError(t, s.CreateRating(ctx, &models.Rating{UserID: seller.ID, CourseID: course.ID, Score: 2}))

	counts, err := s.RatingScoreCounts(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{5: 2, 2: 1}, counts)

	mine, err := s.FindUserRating(ctx, bob.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", mine.Username)
	require.NotNil(t, mine.Review)
	assert.Equal(t, "great", *mine.Review)
	assert.Nil(t, mine.UpdatedAt)

	rows, err := s.ListRatingRows(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alice", rows[0].Username)

	require.NoError(t, s.DeleteRating(ctx, mine.ID))
	assert.ErrorIs(t, s.DeleteRating(ctx, mine.ID), repository.ErrNotFound)
	_, err = s.FindUserRating(ctx, bob.ID, course.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTxRollsBackOnError(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Tx(ctx, func(tx repository.Store) error {
		if err := tx.CreateUser(ctx, &models.User{Username: "ghost", Email: "g@x.com", PasswordHash: "h"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.FindUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPurgeNotificationLogs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.CreateNotificationLog(ctx, &models.NotificationLog{Kind: "k", Sink: "log", Status: models.NotificationSent, CreatedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, s.CreateNotificationLog(ctx, &models.NotificationLog{Kind: "k", Sink: "log", Status: models.NotificationSent, CreatedAt: now}))

	purged, err := s.PurgeNotificationLogs(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestPing(t *testing.T) {
	assert.NoError(t, newStore(t).Ping(context.Background()))
}
