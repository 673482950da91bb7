package api

import (
	"github.com/phrazzld/accounts-api/internal/domain"
)

// PhoneRequest is a phone inside a registration or update payload.
type PhoneRequest struct {
	Number      string `json:"number"     validate:"required"`
	CityCode    string `json:"citycode"   validate:"required"`
	CountryCode string `json:"contrycode" validate:"required"`
}

// RegisterRequest is the payload of POST /api/v1/users/register. Every field
// must be present; format rules are applied by the account service, so an
// empty email is reported as an invalid email rather than a missing field.
type RegisterRequest struct {
	Username *string        `json:"username" validate:"required"`
	Email    *string        `json:"email"    validate:"required"`
	Password *string        `json:"password" validate:"required"`
	Phones   []PhoneRequest `json:"phones"   validate:"required,dive"`
}

// UpdateRequest is the payload of PUT and PATCH /api/v1/users/{id}. Absent
// or empty fields are left unchanged; a present phones array, even an empty
// one, replaces the phone list.
type UpdateRequest struct {
	Username *string        `json:"username,omitempty"`
	Email    *string        `json:"email,omitempty"`
	Password *string        `json:"password,omitempty"`
	Phones   []PhoneRequest `json:"phones,omitempty" validate:"omitempty,dive"`
}

// ToRegistration converts a validated request into a domain registration.
func (r RegisterRequest) ToRegistration() domain.Registration {
	return domain.Registration{
		Username: deref(r.Username),
		Email:    deref(r.Email),
		Password: deref(r.Password),
		Phones:   toPhoneInputs(r.Phones),
	}
}

// ToChanges converts the request into the set of changes to apply.
func (r UpdateRequest) ToChanges() domain.AccountChanges {
	return domain.AccountChanges{
		Username: nonEmpty(r.Username),
		Email:    nonEmpty(r.Email),
		Password: nonEmpty(r.Password),
		Phones:   toPhoneInputs(r.Phones),
	}
}

// toPhoneInputs keeps the distinction between an absent list (nil) and an
// empty one.
func toPhoneInputs(phones []PhoneRequest) []domain.PhoneInput {
	if phones == nil {
		return nil
	}
	inputs := make([]domain.PhoneInput, 0, len(phones))
	for _, p := range phones {
		inputs = append(inputs, domain.PhoneInput{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return inputs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
