package service

import (
	"errors"
	"fmt"
)

// Service errors for expected conditions. Callers check them with errors.Is;
// the API layer maps each to an HTTP status. Input format failures are
// reported with domain.ErrInvalidEmail and domain.ErrWeakPassword.
var (
	// ErrAccountNotFound indicates that no account has the requested id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUsernameTaken indicates that another account already uses the username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrEmailTaken indicates that another account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
)

// AccountServiceError wraps an unexpected failure of an account operation.
type AccountServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for AccountServiceError.
func (e *AccountServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("account service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("account service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *AccountServiceError) Unwrap() error {
	return e.Err
}

// NewAccountServiceError creates a new AccountServiceError.
func NewAccountServiceError(operation, message string, err error) *AccountServiceError {
	return &AccountServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
