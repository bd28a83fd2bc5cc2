// Package common defines shared sentinel errors used across fieldlog
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable marks failures of the underlying stores
	// (cannot open, cannot write). Never retried automatically.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrValidation is the class matched by all input validation failures.
	ErrValidation = errors.New("validation error")
)

// ValidationError is a rejected input with a user-facing reason.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError wraps a human-readable reason ("Enter a Project ID",
// "Passcodes do not match") as a ValidationError.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}
