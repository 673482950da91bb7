package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address does not match the
	// configured email format.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword is returned when a password does not satisfy the
	// configured password policy.
	ErrWeakPassword = errors.New("password does not meet policy")

	// ErrEmptyUsername is returned when an account has no username.
	ErrEmptyUsername = errors.New("username cannot be empty")

	// ErrEmptyPasswordHash is returned when an account would be persisted
	// without a password hash.
	ErrEmptyPasswordHash = errors.New("password hash cannot be empty")

	// ErrIncompletePhone is returned when a phone lacks one of its numbers.
	ErrIncompletePhone = errors.New("phone number, city code and country code are required")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
