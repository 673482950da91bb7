package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

const accountColumns = `id, username, email, password_hash, token, is_active,
	created_at, modified_at, last_login_at`

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db     store.DBTX
	phones store.PhoneStore
	logger *slog.Logger
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the AccountStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:     db,
		phones: NewPostgresPhoneStore(db, logger),
		logger: logger.With(slog.String("component", "account_store")),
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create
// It validates the account and inserts its row. Phones are stored separately.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Token,
		account.Active,
		account.CreatedAt.UTC(),
		account.ModifiedAt.UTC(),
		account.LastLoginAt.UTC(),
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("uniqueness conflict during account creation",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return mapped
		}
		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return store.NewStoreError("account", "create", "failed to insert account", mapped)
	}

	log.Info("account created", slog.String("account_id", account.ID.String()))
	return nil
}

// GetByID implements store.AccountStore.GetByID
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.getOne(ctx, "id", `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByUsername implements store.AccountStore.GetByUsername
func (s *PostgresAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.getOne(ctx, "username",
		`SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
}

// GetByUsernameFold implements store.AccountStore.GetByUsernameFold
func (s *PostgresAccountStore) GetByUsernameFold(ctx context.Context, username string, exclude uuid.UUID) (*domain.Account, error) {
	return s.getOne(ctx, "username_fold",
		`SELECT `+accountColumns+` FROM accounts WHERE lower(username) = lower($1) AND id <> $2
		ORDER BY created_at LIMIT 1`, username, exclude)
}

// GetByEmail implements store.AccountStore.GetByEmail
func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.getOne(ctx, "email",
		`SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower($1)`, email)
}

// getOne runs a single-row account query and loads the account's phones.
func (s *PostgresAccountStore) getOne(ctx context.Context, lookup string, query string, args ...any) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found", slog.String("lookup", lookup))
			return nil, store.ErrAccountNotFound
		}
		log.Error("failed to get account",
			slog.String("error", err.Error()),
			slog.String("lookup", lookup))
		return nil, store.NewStoreError("account", "get", "failed to query account", MapError(err))
	}

	account.Phones, err = s.phones.ListByAccount(ctx, account.ID)
	if err != nil {
		log.Error("failed to load account phones",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return nil, store.NewStoreError("account", "get", "failed to load phones", err)
	}

	return account, nil
}

// List implements store.AccountStore.List
func (s *PostgresAccountStore) List(ctx context.Context) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
	if err != nil {
		log.Error("failed to list accounts", slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", "list", "failed to query accounts", MapError(err))
	}

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			_ = rows.Close()
			log.Error("failed to scan account", slog.String("error", err.Error()))
			return nil, store.NewStoreError("account", "list", "failed to scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, store.NewStoreError("account", "list", "failed to iterate accounts", err)
	}
	_ = rows.Close()

	// The account cursor is closed before the phone query so the store also
	// works on a transaction's single connection.
	phones, err := listAllPhones(ctx, s.db)
	if err != nil {
		log.Error("failed to load phones", slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", "list", "failed to load phones", err)
	}
	for _, a := range accounts {
		if p, ok := phones[a.ID]; ok {
			a.Phones = p
		} else {
			a.Phones = make([]domain.Phone, 0)
		}
	}

	log.Debug("accounts listed", slog.Int("count", len(accounts)))
	return accounts, nil
}

// Update implements store.AccountStore.Update
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE accounts
		SET username = $1, email = $2, password_hash = $3, token = $4, is_active = $5,
			modified_at = $6, last_login_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Token,
		account.Active,
		account.ModifiedAt.UTC(),
		account.LastLoginAt.UTC(),
		account.ID,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("uniqueness conflict during account update",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return mapped
		}
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return store.NewStoreError("account", "update", "failed to update account", mapped)
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		log.Debug("account not found for update", slog.String("account_id", account.ID.String()))
		return err
	}

	log.Info("account updated", slog.String("account_id", account.ID.String()))
	return nil
}

// Delete implements store.AccountStore.Delete
func (s *PostgresAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return store.NewStoreError("account", "delete", "failed to delete account", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrAccountNotFound); err != nil {
		log.Debug("account not found for delete", slog.String("account_id", id.String()))
		return err
	}

	log.Info("account deleted", slog.String("account_id", id.String()))
	return nil
}

// WithTx implements store.AccountStore.WithTx
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{
		db:     tx,
		phones: s.phones.WithTx(tx),
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Token,
		&a.Active,
		&a.CreatedAt,
		&a.ModifiedAt,
		&a.LastLoginAt,
	); err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.ModifiedAt = a.ModifiedAt.UTC()
	a.LastLoginAt = a.LastLoginAt.UTC()
	return &a, nil
}
