package ocr

import (
	"errors"
	"fmt"
)

// Common recognition errors
var (
	// ErrRecognitionFailed is returned when the recognition backend fails to
	// process the image.
	ErrRecognitionFailed = errors.New("text recognition failed")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrEmptyImage is returned when the provided image data is empty.
	ErrEmptyImage = errors.New("image data is empty")

	// ErrInvalidConfiguration is returned when the backend configuration is
	// incomplete (missing project, location or processor id).
	ErrInvalidConfiguration = errors.New("invalid recognizer configuration")
)

// RecognitionError wraps errors with additional context about the OCR failure.
type RecognitionError struct {
	// Op is the operation that failed (e.g., "DetectFragments").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *RecognitionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *RecognitionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRecognitionError creates a new RecognitionError.
func NewRecognitionError(op string, err error, details string) *RecognitionError {
	return &RecognitionError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapRecognitionError wraps an error as a RecognitionError if it isn't already one.
func WrapRecognitionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var recErr *RecognitionError
	if errors.As(err, &recErr) {
		return err // Already wrapped
	}

	return NewRecognitionError(op, err, details)
}
