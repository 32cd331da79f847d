package store

import (
	"errors"
	"fmt"
)

// Common persistence errors.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a record with the same unique key already exists.
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnectionFailed indicates the database could not be reached.
	ErrConnectionFailed = errors.New("connection failed")
)

// StoreError wraps persistence failures with operation context.
type StoreError struct {
	Op      string
	Err     error
	Details string
}

func (e *StoreError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("store: %s: %v (%s)", e.Op, e.Err, e.Details)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewStoreError creates a new StoreError.
func NewStoreError(op string, err error, details string) *StoreError {
	return &StoreError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapStoreError wraps an error unless it is already a StoreError.
func WrapStoreError(op string, err error, details string) error {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return NewStoreError(op, err, details)
}
