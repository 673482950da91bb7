package auth

import "time"

// NewTestTokenIssuer creates a TokenIssuer with a fixed clock. It panics on
// invalid arguments and is meant for tests only.
func NewTestTokenIssuer(secret string, lifetime time.Duration, timeFunc func() time.Time) TokenIssuer {
	issuer, err := newHMACTokenIssuer(secret, lifetime, timeFunc)
	if err != nil {
		panic(err)
	}
	return issuer
}
