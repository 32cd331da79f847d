package llm

import (
	"errors"
	"fmt"
)

// Common chat service errors
var (
	// ErrInvalidRole is returned when a message carries an unknown role.
	ErrInvalidRole = errors.New("message role must be system, user or assistant")

	// ErrEmptyContent is returned when a message has no content.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrNoMessages is returned when a conversation contains no messages.
	ErrNoMessages = errors.New("conversation contains no messages")

	// ErrNoCompletion is returned when the service responds without any choice.
	ErrNoCompletion = errors.New("no completion returned by chat service")

	// ErrMissingAPIKey is returned when OPENAI_API_KEY is not configured.
	ErrMissingAPIKey = errors.New("missing OpenAI credentials: set OPENAI_API_KEY environment variable")
)

// ChatError wraps errors with additional context about the chat call.
type ChatError struct {
	// Op is the operation that failed (e.g., "Complete").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("llm: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("llm: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ChatError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ChatError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewChatError creates a new ChatError.
func NewChatError(op string, err error, details string) *ChatError {
	return &ChatError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapChatError wraps an error as a ChatError if it isn't already one.
func WrapChatError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return err // Already wrapped
	}

	return NewChatError(op, err, details)
}
