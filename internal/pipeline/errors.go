package pipeline

import (
	"errors"
	"fmt"
)

// Common pipeline errors.
var (
	// ErrUnsupportedInput indicates the uploaded content type is not processable.
	ErrUnsupportedInput = errors.New("unsupported input type")

	// ErrEmptyDocument indicates the upload carried no bytes.
	ErrEmptyDocument = errors.New("empty document")

	// ErrNoPagesProcessed indicates every page of a PDF failed to render.
	ErrNoPagesProcessed = errors.New("no pages processed")
)

// PipelineError wraps stage failures with the stage that produced them.
type PipelineError struct {
	Op      string
	Stage   Stage
	Err     error
	Details string
}

func (e *PipelineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("pipeline: %s: stage %s: %v (%s)", e.Op, e.Stage, e.Err, e.Details)
	}
	return fmt.Sprintf("pipeline: %s: stage %s: %v", e.Op, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(op string, stage Stage, err error, details string) *PipelineError {
	return &PipelineError{
		Op:      op,
		Stage:   stage,
		Err:     err,
		Details: details,
	}
}
