package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
)

// minSecretLength is the shortest accepted HMAC signing secret.
const minSecretLength = 32

// TokenIssuer issues signed, time-bounded identity tokens. Tokens are
// informational: nothing in this service verifies them.
type TokenIssuer interface {
	// IssueToken creates a token whose subject is the username.
	IssueToken(ctx context.Context, username string) (string, error)
}

// hmacTokenIssuer is an implementation of TokenIssuer using HMAC-SHA256.
type hmacTokenIssuer struct {
	signingKey []byte
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
}

// Ensure hmacTokenIssuer implements TokenIssuer interface
var _ TokenIssuer = (*hmacTokenIssuer)(nil)

// NewTokenIssuer creates a TokenIssuer from the auth configuration.
func NewTokenIssuer(cfg config.AuthConfig) (TokenIssuer, error) {
	issuer, err := newHMACTokenIssuer(
		cfg.JWTSecret,
		time.Duration(cfg.TokenLifetimeMinutes)*time.Minute,
		time.Now,
	)
	if err != nil {
		return nil, err
	}
	return issuer, nil
}

func newHMACTokenIssuer(secret string, lifetime time.Duration, timeFunc func() time.Time) (*hmacTokenIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	if lifetime <= 0 {
		return nil, ErrInvalidLifetime
	}
	return &hmacTokenIssuer{
		signingKey: []byte(secret),
		lifetime:   lifetime,
		timeFunc:   timeFunc,
	}, nil
}

// IssueToken implements TokenIssuer.
func (s *hmacTokenIssuer) IssueToken(ctx context.Context, username string) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			"error", err,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signed, nil
}
