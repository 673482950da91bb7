package mocks

import (
	"context"

	"github.com/phrazzld/accounts-api/internal/service/auth"
)

// MockTokenIssuer implements auth.TokenIssuer for testing
type MockTokenIssuer struct {
	// IssueTokenFn allows test cases to mock the IssueToken behavior
	IssueTokenFn func(ctx context.Context, username string) (string, error)

	// Default values used when IssueTokenFn isn't defined
	Token string
	Err   error
}

var _ auth.TokenIssuer = (*MockTokenIssuer)(nil)

// IssueToken implements the auth.TokenIssuer interface
func (m *MockTokenIssuer) IssueToken(ctx context.Context, username string) (string, error) {
	if m.IssueTokenFn != nil {
		return m.IssueTokenFn(ctx, username)
	}
	return m.Token, m.Err
}

// MockPasswordHasher implements auth.PasswordHasher for testing.
// Without HashFn it returns "hashed:" + password, or Err when set.
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)
	Err    error
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return "hashed:" + password, nil
}
