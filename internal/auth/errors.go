package auth

import (
	"errors"
	"fmt"
)

// Common authentication errors.
var (
	// ErrUserExists indicates the username is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates the username or password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidUsername indicates an empty or malformed username.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrWeakPassword indicates the password is too short.
	ErrWeakPassword = errors.New("password too weak")
)

// AuthError wraps authentication failures with operation context.
type AuthError struct {
	Op      string
	Err     error
	Details string
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("auth: %s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewAuthError creates a new AuthError.
func NewAuthError(op string, err error, details string) *AuthError {
	return &AuthError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapAuthError wraps an error unless it is already an AuthError.
func WrapAuthError(op string, err error, details string) error {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return err
	}
	return NewAuthError(op, err, details)
}
