package runner

import (
	"errors"
	"fmt"
)

// StepFailure is returned by RunSteps when a step reports failure.
// The failure was already delivered to the report sink; this error gives
// the calling test program structured access to the same outcome.
type StepFailure struct {
	// Index is the 1-based position of the failing step in the
	// normalized list.
	Index int

	// Label is the failing step's label or type tag.
	Label string

	// Message is the handler's failure message.
	Message string

	// Details is the structured diagnostic payload.
	Details map[string]any
}

// Error implements the error interface.
func (e *StepFailure) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %s", e.Index, e.Label, e.Message)
}

// IsStepFailure returns true if the error is a StepFailure.
// Uses errors.As to handle wrapped errors.
func IsStepFailure(err error) bool {
	var sf *StepFailure
	return errors.As(err, &sf)
}
