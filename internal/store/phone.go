package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// PhoneStore defines the interface for phone persistence. Phones are always
// owned by an account and keep the order in which they were created.
type PhoneStore interface {
	// Create appends a phone to its account's list.
	// Returns ErrInvalidEntity if the owning account does not exist.
	Create(ctx context.Context, phone *domain.Phone) error

	// CreateMultiple appends phones in order. Callers wanting all-or-nothing
	// behaviour run it inside a transaction.
	CreateMultiple(ctx context.Context, phones []domain.Phone) error

	// ListByAccount returns the account's phones in order. The result is
	// never nil.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Phone, error)

	// DeleteByAccount removes every phone of the account. Deleting from an
	// account with no phones is not an error.
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error

	// WithTx returns a PhoneStore that runs its queries on tx.
	WithTx(tx *sql.Tx) PhoneStore
}
