// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidQuality is returned when a review quality rating is
	// outside the valid 0..5 range.
	ErrInvalidQuality = errors.New("quality rating must be between 0 and 5")

	// ErrInvalidNoteKind is returned when a note kind is not recognized.
	ErrInvalidNoteKind = errors.New("invalid note kind")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError carries the field and reason for a failed validation,
// wrapping one of the sentinel errors above so callers can classify it
// with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError wrapping the given sentinel.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
