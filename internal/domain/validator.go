package domain

import (
	"fmt"
	"regexp"
)

// Validator checks emails and passwords against patterns loaded once at
// startup. It is safe for concurrent use and never changes after
// construction.
type Validator struct {
	email    *regexp.Regexp
	password []*regexp.Regexp
}

// NewValidator compiles the email pattern and the password policy. The email
// pattern must match the whole address, so it is anchored if the caller did
// not anchor it. A password is valid when every password pattern matches
// somewhere in it.
func NewValidator(emailPattern string, passwordPatterns []string) (*Validator, error) {
	if emailPattern == "" {
		return nil, fmt.Errorf("%w: email pattern is required", ErrValidation)
	}
	if len(passwordPatterns) == 0 {
		return nil, fmt.Errorf("%w: at least one password pattern is required", ErrValidation)
	}

	email, err := regexp.Compile(`^(?:` + emailPattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid email pattern %q: %w", emailPattern, err)
	}

	password := make([]*regexp.Regexp, 0, len(passwordPatterns))
	for _, p := range passwordPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid password pattern %q: %w", p, err)
		}
		password = append(password, re)
	}

	return &Validator{email: email, password: password}, nil
}

// ValidEmail reports whether s is a well-formed email address. The empty
// string is never valid.
func (v *Validator) ValidEmail(s string) bool {
	return s != "" && v.email.MatchString(s)
}

// ValidPassword reports whether s satisfies every password pattern.
func (v *Validator) ValidPassword(s string) bool {
	if s == "" {
		return false
	}
	for _, re := range v.password {
		if !re.MatchString(s) {
			return false
		}
	}
	return true
}
