package sqlite

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

// AccountStore implements store.AccountStore on SQLite.
type AccountStore struct {
	db     store.DBTX
	phones store.PhoneStore
	logger *slog.Logger
}

// NewAccountStore creates a SQLite AccountStore. If logger is nil, a default
// logger will be used.
func NewAccountStore(db store.DBTX, logger *slog.Logger) *AccountStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountStore{
		db:     db,
		phones: NewPhoneStore(db, logger),
		logger: logger.With(slog.String("component", "account_store")),
	}
}

var _ store.AccountStore = (*AccountStore)(nil)

// Create implements store.AccountStore.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID.String(),
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Token,
		account.Active,
		toMillis(account.CreatedAt),
		toMillis(account.ModifiedAt),
		toMillis(account.LastLoginAt),
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

// GetByID implements store.AccountStore.
func (s *AccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.getOne(ctx, "id", `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id.String())
}

// GetByUsername implements store.AccountStore.
func (s *AccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return s.getOne(ctx, "username",
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
}

// GetByUsernameFold implements store.AccountStore.
func (s *AccountStore) GetByUsernameFold(ctx context.Context, username string, exclude uuid.UUID) (*domain.Account, error) {
	return s.getOne(ctx, "username_fold",
		`SELECT `+accountColumns+` FROM accounts WHERE lower(username) = lower(?) AND id <> ?
		ORDER BY created_at LIMIT 1`, username, exclude.String())
}

// GetByEmail implements store.AccountStore.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.getOne(ctx, "email",
		`SELECT `+accountColumns+` FROM accounts WHERE lower(email) = lower(?)`, email)
}

func (s *AccountStore) getOne(ctx context.Context, lookup string, query string, args ...any) (*domain.Account, error) {
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

// List implements store.AccountStore.
func (s *AccountStore) List(ctx context.Context) ([]*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	accounts, err := s.listAccounts(ctx)
	if err != nil {
		log.Error("failed to list accounts", slog.String("error", err.Error()))
		return nil, store.NewStoreError("account", "list", "failed to query accounts", err)
	}

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

// listAccounts reads every account row and closes the cursor before
// returning, so the caller can issue the next query on the same connection.
func (s *AccountStore) listAccounts(ctx context.Context) ([]*domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Update implements store.AccountStore.
func (s *AccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET username = ?, email = ?, password_hash = ?, token = ?, is_active = ?,
			modified_at = ?, last_login_at = ?
		WHERE id = ?`,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Token,
		account.Active,
		toMillis(account.ModifiedAt),
		toMillis(account.LastLoginAt),
		account.ID.String(),
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

// Delete implements store.AccountStore.
func (s *AccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id.String())
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

// WithTx implements store.AccountStore.
func (s *AccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &AccountStore{db: tx, phones: s.phones.WithTx(tx), logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a                            domain.Account
		created, modified, lastLogin int64
	)
	if err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Token,
		&a.Active,
		&created,
		&modified,
		&lastLogin,
	); err != nil {
		return nil, err
	}
	a.CreatedAt = fromMillis(created)
	a.ModifiedAt = fromMillis(modified)
	a.LastLoginAt = fromMillis(lastLogin)
	return &a, nil
}
