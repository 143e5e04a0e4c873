// Package services – AuthService
//
// This file implements the AuthService, which owns account registration and
// login. Passwords are hashed with bcrypt (salted, deliberately slow) before
// storage; the plaintext never reaches the repository layer. Login failures
// are collapsed into one error value regardless of cause.
//
// There are no sessions, tokens, lockouts, or reset flows: a successful
// login hands the caller its numeric user id and nothing else.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/zurekai/zurekai/internal/domain"
	"github.com/zurekai/zurekai/internal/repo"
)

// AuthService registers new accounts and authenticates login attempts.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Cost overrides the bcrypt work factor; zero means bcrypt.DefaultCost.
	Cost int
}

// NewAuthService constructs an AuthService with the default bcrypt cost.
func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// Register creates a new account for username. The password is hashed before
// the insert; a duplicate username yields ErrUsernameTaken. Empty inputs are
// rejected as ErrInvalidCredentials before any DB work.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, username, string(hash))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies the username/password pair and returns the account's user
// id. An unknown username and a wrong password produce the same
// ErrInvalidCredentials; only unexpected DB failures surface differently.
func (s *AuthService) Login(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, ErrInvalidCredentials
	}

	u, err := repo.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return 0, ErrInvalidCredentials
	}
	return u.ID, nil
}

func (s *AuthService) cost() int {
	if s.Cost > 0 {
		return s.Cost
	}
	return bcrypt.DefaultCost
}
