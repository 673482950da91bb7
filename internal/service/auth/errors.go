package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Common authentication service errors
var (
	// ErrPasswordTooLong indicates the password exceeds what bcrypt can hash (72 bytes).
	ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

	// ErrWeakSecret indicates the token signing secret is shorter than required.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")

	// ErrInvalidLifetime indicates a non-positive token lifetime.
	ErrInvalidLifetime = errors.New("token lifetime must be positive")
)
