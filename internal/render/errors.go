package render

import (
	"errors"
	"fmt"
)

// Common rendering errors
var (
	// ErrInvalidPDF is returned when the provided data is not a valid PDF document.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrPageOutOfRange is returned when the requested page index is outside [1, numPages].
	ErrPageOutOfRange = errors.New("page index out of range")

	// ErrRenderFailed is returned when a page could not be rasterized.
	ErrRenderFailed = errors.New("page rasterization failed")

	// ErrRendererUnavailable is returned when no rasterization backend is
	// installed on the host.
	ErrRendererUnavailable = errors.New("pdftoppm not found: install poppler-utils (apt-get install poppler-utils / brew install poppler)")
)

// RenderError wraps errors with additional context about the rendering failure.
type RenderError struct {
	// Op is the operation that failed (e.g., "RenderPage").
	Op string

	// Page is the page being rendered, zero when not page-specific.
	Page int

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	switch {
	case e.Page > 0 && e.Details != "":
		return fmt.Sprintf("render: %s failed for page %d: %s: %v", e.Op, e.Page, e.Details, e.Err)
	case e.Page > 0:
		return fmt.Sprintf("render: %s failed for page %d: %v", e.Op, e.Page, e.Err)
	case e.Details != "":
		return fmt.Sprintf("render: %s failed: %s: %v", e.Op, e.Details, e.Err)
	default:
		return fmt.Sprintf("render: %s failed: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *RenderError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRenderError creates a new RenderError.
func NewRenderError(op string, page int, err error, details string) *RenderError {
	return &RenderError{
		Op:      op,
		Page:    page,
		Err:     err,
		Details: details,
	}
}
