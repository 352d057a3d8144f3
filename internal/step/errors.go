package step

import (
	"errors"
	"fmt"
)

// UsageError indicates a broken test definition rather than an assertion
// outcome: malformed options, malformed descriptor syntax, or wrong-typed
// required keys. Usage errors are raised at validation time, before any
// step executes, and never flow through the ok/fail callback protocol.
type UsageError struct {
	// Code identifies the error category.
	Code UsageErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// UsageErrorCode categorizes usage errors.
type UsageErrorCode string

const (
	// ErrCodeBadOptions indicates malformed run options.
	ErrCodeBadOptions UsageErrorCode = "BAD_OPTIONS"

	// ErrCodeBadDescriptor indicates a step that is neither a valid
	// declarative descriptor nor a functional step.
	ErrCodeBadDescriptor UsageErrorCode = "BAD_DESCRIPTOR"

	// ErrCodeBadField indicates a wrong-typed or missing required field
	// on a built-in declarative step.
	ErrCodeBadField UsageErrorCode = "BAD_FIELD"
)

// Error implements the error interface.
func (e *UsageError) Error() string {
	if step, ok := e.Details["step"]; ok {
		return fmt.Sprintf("%s: %s (step=%s)", e.Code, e.Message, step)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUsageError returns true if the error is a UsageError.
// Uses errors.As to handle wrapped errors.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// NewOptionsError creates a UsageError for malformed run options.
func NewOptionsError(message string) *UsageError {
	return &UsageError{
		Code:    ErrCodeBadOptions,
		Message: message,
	}
}

// NewDescriptorError creates a UsageError for an invalid descriptor at the
// given position in the normalized step list.
func NewDescriptorError(index int, message string) *UsageError {
	return &UsageError{
		Code:    ErrCodeBadDescriptor,
		Message: message,
		Details: map[string]string{
			"step": fmt.Sprintf("%d", index+1),
		},
	}
}

// NewFieldError creates a UsageError for a wrong-typed or missing field.
func NewFieldError(index int, stepType, key, message string) *UsageError {
	return &UsageError{
		Code:    ErrCodeBadField,
		Message: fmt.Sprintf("%s: field %q %s", stepType, key, message),
		Details: map[string]string{
			"step":  fmt.Sprintf("%d", index+1),
			"type":  stepType,
			"field": key,
		},
	}
}
