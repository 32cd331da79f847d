package translate

import (
	"errors"
	"fmt"
)

// Common translation errors.
var (
	// ErrTranslationFailed indicates the backend could not translate the text.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrEmptyText indicates an empty chunk was submitted for translation.
	ErrEmptyText = errors.New("empty text")

	// ErrMissingCredentials indicates no Google credentials were found.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidMode indicates an unknown translation mode was configured.
	ErrInvalidMode = errors.New("invalid translation mode")
)

// TranslationError wraps translation failures with operation context.
type TranslationError struct {
	Op      string
	Err     error
	Details string
}

func (e *TranslationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("translate: %s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("translate: %s: %v", e.Op, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func (e *TranslationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewTranslationError creates a new TranslationError.
func NewTranslationError(op string, err error, details string) *TranslationError {
	return &TranslationError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapTranslationError wraps an error unless it is already a TranslationError.
func WrapTranslationError(op string, err error, details string) error {
	var translationErr *TranslationError
	if errors.As(err, &translationErr) {
		return err
	}
	return NewTranslationError(op, err, details)
}
