package services_test

import (
	"context"
	"strings"
	"testing"

	"kursai/notifications"
	"kursai/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestSellerAndBuyerRatingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")

	_, err := f.purchases.Purchase(ctx, bob, c.ID)
	require.NoError(t, err)
	_, err = f.ratings.Create(ctx, bob, c.ID, services.RatingInput{Score: 5})
	require.NoError(t, err)

	stats, err := f.ratings.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, stats.AverageRating)
	assert.Equal(t, 1, stats.TotalRatings)

	_, err = f.ratings.Create(ctx, bob, c.ID, services.RatingInput{Score: 4})
	requireKind(t, err, services.KindConflict, "You have already rated this course. Use PUT to update your rating.")

	// the seller may rate without purchasing
	_, err = f.ratings.Create(ctx, alice, c.ID, services.RatingInput{Score: 4})
	require.NoError(t, err)

	stats, err = f.ratings.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, stats.AverageRating)
	assert.Equal(t, 2, stats.TotalRatings)
	assert.Equal(t, [5]int{0, 0, 0, 1, 1}, stats.Histogram())

	view, err := f.courses.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, view.AverageRating)
	assert.Equal(t, 2, view.TotalRatings)
}

func TestRatingRequiresPurchaseRegardlessOfScore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	carol := f.register(t, "carol")
	c := f.createCourse(t, alice, "Go basics")

	for _, score := range []int{0, 3, 9} {
		_, err := f.ratings.Create(ctx, carol, c.ID, services.RatingInput{Score: score})
		requireKind(t, err, services.KindBadRequest, "You must purchase the course before rating it")
	}

	_, err := f.ratings.Create(ctx, carol, 999, services.RatingInput{Score: 3})
	requireKind(t, err, services.KindNotFound, "Course not found")
}

func TestRatingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	c := f.createCourse(t, alice, "Go basics")

	_, err := f.ratings.Create(ctx, alice, c.ID, services.RatingInput{Score: 6})
	requireKind(t, err, services.KindValidation, "")
	var se *services.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Rating must be between 1 and 5", se.Fields["score"])

	_, err = f.ratings.Create(ctx, alice, c.ID, services.RatingInput{Score: 3, Review: ptr(strings.Repeat("a", 1001))})
	requireKind(t, err, services.KindValidation, "")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Review cannot exceed 1000 characters", se.Fields["review"])

	r, err := f.ratings.Create(ctx, alice, c.ID, services.RatingInput{Score: 3, Review: ptr(strings.Repeat("a", 1000))})
	require.NoError(t, err)
	assert.Nil(t, r.UpdatedAt)
}

func TestRatingUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")

	r, err := f.ratings.Create(ctx, alice, c.ID, services.RatingInput{Score: 2, Review: ptr("meh")})
	require.NoError(t, err)
	assert.Equal(t, "alice", r.Username)

	_, err = f.ratings.Update(ctx, bob, r.ID, services.RatingInput{Score: 1})
	requireKind(t, err, services.KindForbidden, "")
	_, err = f.ratings.Update(ctx, alice, 999, services.RatingInput{Score: 1})
	requireKind(t, err, services.KindNotFound, "Rating not found")
	_, err = f.ratings.Update(ctx, alice, r.ID, services.RatingInput{Score: 0})
	requireKind(t, err, services.KindValidation, "")

	updated, err := f.ratings.Update(ctx, alice, r.ID, services.RatingInput{Score: 5, Review: ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Score)
	assert.Nil(t, updated.Review)
	require.NotNil(t, updated.UpdatedAt)

	mine, err := f.ratings.GetMine(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, mine.Score)
	assert.NotNil(t, mine.UpdatedAt)

	requireKind(t, f.ratings.Delete(ctx, bob, r.ID), services.KindForbidden, "")
	require.NoError(t, f.ratings.Delete(ctx, alice, r.ID))
	requireKind(t, f.ratings.Delete(ctx, alice, r.ID), services.KindNotFound, "")

	_, err = f.ratings.GetMine(ctx, alice, c.ID)
	requireKind(t, err, services.KindNotFound, "")

	// deleting returns the pair to the unrated state
	_, err = f.ratings.Create(ctx, alice, c.ID, services.RatingInput{Score: 4})
	assert.NoError(t, err)
}

func TestStatsForUnratedCourse(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	c := f.createCourse(t, alice, "Go basics")

	stats, err := f.ratings.Stats(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Equal(t, 0, stats.TotalRatings)
	assert.Equal(t, [5]int{}, stats.Histogram())

	list, err := f.ratings.ListForCourse(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRatingNotifiesSeller(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")
	_, err := f.purchases.Purchase(ctx, bob, c.ID)
	require.NoError(t, err)

	_, err = f.ratings.Create(ctx, bob, c.ID, services.RatingInput{Score: 4, Review: ptr("solid")})
	require.NoError(t, err)

	var got *notifications.Event
	for _, evt := range f.notifier.Events() {
		if evt.Kind == notifications.RatingReceived {
			evt := evt
			got = &evt
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "alice@x.com", got.To)
	assert.Equal(t, 4, got.Score)
	assert.Equal(t, "solid", got.Review)
	assert.Equal(t, "Go basics", got.CourseTitle)
}

func TestListForCourseNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")
	_, err := f.purchases.Purchase(ctx, bob, c.ID)
	require.NoError(t, err)

	_, err = f.ratings.Create(ctx, bob, c.ID, services.RatingInput{Score: 5})
	require.NoError(t, err)
	_, err = f.ratings.Create(ctx, alice, c.ID, services.RatingInput{Score: 3})
	require.NoError(t, err)

	list, err := f.ratings.ListForCourse(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
}
