package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phone is a phone number owned by exactly one Account.
type Phone struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"-"`
	Number      string    `json:"number"`
	CityCode    string    `json:"citycode"`
	CountryCode string    `json:"contrycode"`
}

// PhoneInput carries the values of a phone that has not been persisted yet.
type PhoneInput struct {
	Number      string
	CityCode    string
	CountryCode string
}

// Validate checks that every part of the phone number is present.
func (p PhoneInput) Validate() error {
	if strings.TrimSpace(p.Number) == "" ||
		strings.TrimSpace(p.CityCode) == "" ||
		strings.TrimSpace(p.CountryCode) == "" {
		return ErrIncompletePhone
	}
	return nil
}

// Account is a registered user identity.
//
// PasswordHash never holds plaintext once the account has been built by
// NewAccount, and it is never rendered to JSON.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phones       []Phone   `json:"phones"`
	Active       bool      `json:"isActive"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"created"`
	ModifiedAt   time.Time `json:"modified"`
	LastLoginAt  time.Time `json:"lastLogin"`
}

// NewAccount builds a freshly registered account. The created, modified and
// last-login timestamps are all set to now and the account starts active.
// Each phone gets its own identifier and is bound to the new account.
func NewAccount(username, email, passwordHash, token string, phones []PhoneInput, now time.Time) (*Account, error) {
	now = now.UTC()
	account := &Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		Token:        token,
		CreatedAt:    now,
		ModifiedAt:   now,
		LastLoginAt:  now,
	}
	account.Phones = account.NewPhones(phones)

	if err := account.Validate(); err != nil {
		return nil, err
	}
	return account, nil
}

// NewPhones turns phone inputs into phones owned by the account, keeping
// their order. It always returns a non-nil slice.
func (a *Account) NewPhones(inputs []PhoneInput) []Phone {
	phones := make([]Phone, 0, len(inputs))
	for _, in := range inputs {
		phones = append(phones, Phone{
			ID:          uuid.New(),
			AccountID:   a.ID,
			Number:      in.Number,
			CityCode:    in.CityCode,
			CountryCode: in.CountryCode,
		})
	}
	return phones
}

// Validate checks the structural invariants of an account. Format rules for
// email and password live in Validator because their patterns are
// configuration.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if a.Email == "" {
		return NewValidationError("email", "cannot be empty", ErrInvalidEmail)
	}
	if a.PasswordHash == "" {
		return ErrEmptyPasswordHash
	}
	for _, p := range a.Phones {
		if err := (PhoneInput{Number: p.Number, CityCode: p.CityCode, CountryCode: p.CountryCode}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Registration is the input of a registration: the plaintext password is
// consumed by the service and never stored.
type Registration struct {
	Username string
	Email    string
	Password string
	Phones   []PhoneInput
}

// AccountChanges lists the fields an update wants to change. Nil fields are
// left untouched; a non-nil Phones (even empty) replaces the phone list.
type AccountChanges struct {
	Username *string
	Email    *string
	Password *string
	Phones   []PhoneInput
}

// IsEmpty reports whether no field is set.
func (c AccountChanges) IsEmpty() bool {
	return c.Username == nil && c.Email == nil && c.Password == nil && c.Phones == nil
}

// AccountView is the outward representation of an Account. It has no
// password field at all.
type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phones    []Phone   `json:"phones"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
	LastLogin time.Time `json:"lastLogin"`
	Token     string    `json:"token"`
	IsActive  bool      `json:"isActive"`
}

// NewAccountView copies the public fields of an account.
func NewAccountView(a *Account) *AccountView {
	phones := make([]Phone, len(a.Phones))
	copy(phones, a.Phones)
	return &AccountView{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Phones:    phones,
		Created:   a.CreatedAt,
		Modified:  a.ModifiedAt,
		LastLogin: a.LastLoginAt,
		Token:     a.Token,
		IsActive:  a.Active,
	}
}
