package services

import (
	"context"
	"errors"
	"strings"

	"kursai/models"
	"kursai/repository"
	"kursai/token"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken      = "Username already exists"
	msgEmailTaken         = "Email already exists"
	msgInvalidCredentials = "Invalid username or password"
	msgInvalidToken       = "Invalid or expired token"
)

// Tokens issues and verifies bearer tokens.
type Tokens interface {
	Generate(userID uint, username, email string) (string, error)
	Parse(tokenString string) (*token.Claims, error)
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,max=100,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register, login and validate.
type AuthResult struct {
	Token    string `json:"token"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthService struct {
	store     repository.Store
	tokens    Tokens
	cost      int
	dummyHash []byte
	log       zerolog.Logger
}

// NewAuthService creates the identity service. cost is the bcrypt cost.
func NewAuthService(store repository.Store, tokens Tokens, cost int, log zerolog.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// compared against when the username is unknown so both login failures cost the same
	dummy, _ := bcrypt.GenerateFromPassword([]byte("kursai-dummy-password"), cost)
	return &AuthService{
		store:     store,
		tokens:    tokens,
		cost:      cost,
		dummyHash: dummy,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if fields := FieldErrors(in); fields != nil {
		return nil, validationFailed(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, internal("hash password", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    utcNow(),
	}
	err = s.store.Tx(ctx, func(tx repository.Store) error {
		if err := s.ensureAvailable(ctx, tx, in.Username, in.Email); err != nil {
			return err
		}
		return tx.CreateUser(ctx, user)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent registration
		if err := s.ensureAvailable(ctx, s.store, in.Username, in.Email); err != nil {
			return nil, err
		}
		return nil, conflict(msgUsernameTaken)
	}
	if err != nil {
		return nil, passOrInternal("register user", err)
	}

	s.log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return s.issue(user)
}

// ensureAvailable reports a taken username before a taken email.
func (s *AuthService) ensureAvailable(ctx context.Context, store repository.Store, username, email string) error {
	if _, err := store.FindUserByUsername(ctx, username); err == nil {
		return conflict(msgUsernameTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return internal("check username", err)
	}
	if _, err := store.FindUserByEmail(ctx, email); err == nil {
		return conflict(msgEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return internal("check email", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if fields := FieldErrors(in); fields != nil {
		return nil, validationFailed(fields)
	}

	user, err := s.store.FindUserByUsername(ctx, in.Username)
	if errors.Is(err, repository.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return nil, unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, internal("find user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, unauthorized(msgInvalidCredentials)
	}
	return s.issue(user)
}

// Authenticate verifies a token and resolves its subject to the current user row.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	if raw == "" {
		return nil, unauthorized(msgInvalidToken)
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, unauthorized(msgInvalidToken)
	}
	user, err := s.store.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, unauthorized(msgInvalidToken)
	}
	if err != nil {
		return nil, internal("find user", err)
	}
	return &Principal{UserID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// Validate returns the current profile for the token's user and echoes the token.
func (s *AuthService) Validate(ctx context.Context, raw string) (*AuthResult, error) {
	p, err := s.Authenticate(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: raw, UserID: p.UserID, Username: p.Username, Email: p.Email}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	signed, err := s.tokens.Generate(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, internal("issue token", err)
	}
	return &AuthResult{
		Token:    signed,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
