package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// AccountStore defines the interface for account data persistence.
// Phones are persisted through PhoneStore; read methods return accounts with
// their phones loaded in insertion order.
type AccountStore interface {
	// Create saves the account row. Phones are not written.
	// Returns ErrUsernameExists or ErrEmailExists on a uniqueness conflict.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its identifier.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByUsername retrieves an account whose username matches exactly.
	// Returns ErrAccountNotFound if no account matches.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// GetByUsernameFold retrieves an account other than exclude whose
	// username matches ignoring case. Pass uuid.Nil to consider every
	// account. Returns ErrAccountNotFound if no account matches.
	GetByUsernameFold(ctx context.Context, username string, exclude uuid.UUID) (*domain.Account, error)

	// GetByEmail retrieves an account whose email matches ignoring case.
	// Returns ErrAccountNotFound if no account matches.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// List returns every account ordered by creation time. The result is
	// never nil.
	List(ctx context.Context) ([]*domain.Account, error)

	// Update overwrites the mutable columns of an existing account. Phones
	// are not written.
	// Returns ErrAccountNotFound if the account does not exist.
	// Returns ErrUsernameExists or ErrEmailExists on a uniqueness conflict.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes an account by its identifier.
	// Returns ErrAccountNotFound if the account does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns an AccountStore that runs its queries on tx.
	WithTx(tx *sql.Tx) AccountStore
}
