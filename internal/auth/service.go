// Package auth handles account registration and login.
package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"samvad/internal/logger"
	"samvad/internal/store"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// Service registers and authenticates users against the store.
type Service struct {
	users UserStore
	log   zerolog.Logger
}

// UserStore is the slice of store.Store the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *store.User) error
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

// NewService creates an auth service backed by users.
func NewService(users UserStore) *Service {
	return &Service{
		users: users,
		log:   logger.WithComponent("auth"),
	}
}

// Register creates an account with a bcrypt-hashed password and returns the
// new user.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	const op = "Register"

	if username == "" {
		return nil, NewAuthError(op, ErrInvalidUsername, "")
	}
	if len(password) < MinPasswordLength {
		return nil, NewAuthError(op, ErrWeakPassword, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, WrapAuthError(op, err, "failed to hash password")
	}

	user := store.NewUser(username, string(hash))
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, NewAuthError(op, ErrUserExists, username)
		}
		return nil, WrapAuthError(op, err, "failed to create user")
	}

	s.log.Info().Str("username", username).Msg("User registered")
	return user, nil
}

// Login verifies credentials and returns the matching user. Unknown users
// and wrong passwords produce the same error so login probes learn nothing.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, error) {
	const op = "Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewAuthError(op, ErrInvalidCredentials, "")
		}
		return nil, WrapAuthError(op, err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewAuthError(op, ErrInvalidCredentials, "")
	}

	return user, nil
}
