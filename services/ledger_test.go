package services_test

import (
	"context"
	"sync"
	"testing"

	"kursai/notifications"
	"kursai/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")

	_, err := f.favorites.Add(ctx, bob, c.ID)
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, bob, c.ID)
	requireKind(t, err, services.KindConflict, "Course already in favorites")

	isFav, err := f.favorites.Check(ctx, bob, c.ID)
	require.NoError(t, err)
	assert.True(t, isFav)

	require.NoError(t, f.favorites.Remove(ctx, bob, c.ID))
	isFav, err = f.favorites.Check(ctx, bob, c.ID)
	require.NoError(t, err)
	assert.False(t, isFav)

	requireKind(t, f.favorites.Remove(ctx, bob, c.ID), services.KindNotFound, "Favorite not found")
	_, err = f.favorites.Add(ctx, bob, 999)
	requireKind(t, err, services.KindNotFound, "Course not found")
}

func TestFavoritesListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	first := f.createCourse(t, alice, "First")
	second := f.createCourse(t, alice, "Second")

	_, err := f.favorites.Add(ctx, bob, first.ID)
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, bob, second.ID)
	require.NoError(t, err)

	favs, err := f.favorites.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, second.ID, favs[0].ID)
	assert.Equal(t, "alice", favs[0].SellerName)
}

func TestPurchaseSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")

	p, err := f.purchases.Purchase(ctx, bob, c.ID)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("10.00")))

	_, err = f.courses.Update(ctx, alice, c.ID, courseInput("Go basics", "25.00"))
	require.NoError(t, err)

	_, err = f.purchases.Purchase(ctx, bob, c.ID)
	requireKind(t, err, services.KindConflict, "Course already purchased")

	ok, err := f.purchases.HasPurchased(ctx, bob, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = f.purchases.HasPurchased(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	bought, err := f.purchases.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bought, 1)
	assert.Equal(t, c.ID, bought[0].ID)

	var confirmations []notifications.Event
	for _, evt := range f.notifier.Events() {
		if evt.Kind == notifications.PurchaseConfirmed {
			confirmations = append(confirmations, evt)
		}
	}
	require.Len(t, confirmations, 1)
	assert.Equal(t, "bob@x.com", confirmations[0].To)
	assert.Equal(t, "10.00", confirmations[0].Price)
}

func TestPurchaseMissingCourse(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	_, err := f.purchases.Purchase(context.Background(), bob, 42)
	requireKind(t, err, services.KindNotFound, "Course not found")
}

func TestConcurrentPurchasesConverge(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.purchases.Purchase(context.Background(), bob, c.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, services.KindConflict, "Course already purchased")
	}
	assert.Equal(t, 1, succeeded)

	bought, err := f.purchases.List(context.Background(), bob)
	require.NoError(t, err)
	assert.Len(t, bought, 1)
}

func TestConcurrentFavoritesConverge(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	c := f.createCourse(t, alice, "Go basics")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.favorites.Add(context.Background(), bob, c.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, services.KindConflict, "Course already in favorites")
	}
	assert.Equal(t, 1, succeeded)
}
