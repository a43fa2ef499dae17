package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"kursai/database"
	"kursai/notifications"
	"kursai/repository"
	"kursai/services"
	"kursai/token"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (r *recordingNotifier) Notify(evt notifications.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingNotifier) Events() []notifications.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Event(nil), r.events...)
}

type fixture struct {
	store     *repository.GormStore
	tokens    *token.Manager
	notifier  *recordingNotifier
	auth      *services.AuthService
	courses   *services.CourseService
	favorites *services.FavoriteService
	purchases *services.PurchaseService
	ratings   *services.RatingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repository.NewGormStore(db)
	tokens := token.NewManager("test-secret", time.Hour)
	notifier := &recordingNotifier{}
	log := zerolog.Nop()
	return &fixture{
		store:     store,
		tokens:    tokens,
		notifier:  notifier,
		auth:      services.NewAuthService(store, tokens, bcrypt.MinCost, log),
		courses:   services.NewCourseService(store, notifier, log),
		favorites: services.NewFavoriteService(store, log),
		purchases: services.NewPurchaseService(store, notifier, log),
		ratings:   services.NewRatingService(store, notifier, log),
	}
}

// register creates a user and resolves it the way the middleware does.
func (f *fixture) register(t *testing.T, username string) services.Principal {
	t.Helper()
	res, err := f.auth.Register(context.Background(), services.RegisterInput{
		Username: username,
		Email:    username + "@x.com",
		Password: "Secret1",
	})
	require.NoError(t, err)
	p, err := f.auth.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	return *p
}

func (f *fixture) createCourse(t *testing.T, seller services.Principal, title string) *services.CourseView {
	t.Helper()
	c, err := f.courses.Create(context.Background(), seller, courseInput(title, "10.00"))
	require.NoError(t, err)
	return c
}

func courseInput(title, price string) services.CourseInput {
	return services.CourseInput{
		Title:       title,
		Description: "Learn " + title,
		Price:       decimal.RequireFromString(price),
		Category:    "programming",
	}
}

func requireKind(t *testing.T, err error, kind services.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, services.IsKind(err, kind), "want %s, got %v", kind, err)
	if msg != "" {
		var se *services.Error
		require.ErrorAs(t, err, &se)
		require.Equal(t, msg, se.Message)
	}
}
