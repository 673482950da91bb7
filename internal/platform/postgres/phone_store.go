package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

const phoneColumns = `id, account_id, number, city_code, country_code`

// PostgresPhoneStore implements the store.PhoneStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPhoneStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPhoneStore creates a new PostgreSQL implementation of the PhoneStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPhoneStore(db store.DBTX, logger *slog.Logger) *PostgresPhoneStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPhoneStore{
		db:     db,
		logger: logger.With(slog.String("component", "phone_store")),
	}
}

// Ensure PostgresPhoneStore implements store.PhoneStore interface
var _ store.PhoneStore = (*PostgresPhoneStore)(nil)

// Create implements store.PhoneStore.Create.
// The phone is placed after the account's existing phones.
func (s *PostgresPhoneStore) Create(ctx context.Context, phone *domain.Phone) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO phones (id, account_id, position, number, city_code, country_code)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM phones WHERE account_id = $2),
			$3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		phone.ID,
		phone.AccountID,
		phone.Number,
		phone.CityCode,
		phone.CountryCode,
	)
	if err != nil {
		log.Error("failed to create phone",
			slog.String("error", err.Error()),
			slog.String("phone_id", phone.ID.String()),
			slog.String("account_id", phone.AccountID.String()))
		return store.NewStoreError("phone", "create", "failed to insert phone", MapError(err))
	}

	log.Debug("phone created",
		slog.String("phone_id", phone.ID.String()),
		slog.String("account_id", phone.AccountID.String()))
	return nil
}

// CreateMultiple implements store.PhoneStore.CreateMultiple.
func (s *PostgresPhoneStore) CreateMultiple(ctx context.Context, phones []domain.Phone) error {
	for i := range phones {
		if err := s.Create(ctx, &phones[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListByAccount implements store.PhoneStore.ListByAccount.
func (s *PostgresPhoneStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Phone, error) {
	phones, err := listPhones(ctx, s.db, accountID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list phones",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return nil, err
	}
	return phones, nil
}

// DeleteByAccount implements store.PhoneStore.DeleteByAccount.
func (s *PostgresPhoneStore) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM phones WHERE account_id = $1`, accountID)
	if err != nil {
		log.Error("failed to delete phones",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return store.NewStoreError("phone", "delete", "failed to delete phones", MapError(err))
	}

	n, _ := result.RowsAffected()
	log.Debug("phones deleted",
		slog.String("account_id", accountID.String()),
		slog.Int64("count", n))
	return nil
}

// WithTx implements store.PhoneStore.WithTx.
func (s *PostgresPhoneStore) WithTx(tx *sql.Tx) store.PhoneStore {
	return &PostgresPhoneStore{
		db:     tx,
		logger: s.logger,
	}
}

// listPhones loads one account's phones in position order.
func listPhones(ctx context.Context, db store.DBTX, accountID uuid.UUID) ([]domain.Phone, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+phoneColumns+` FROM phones WHERE account_id = $1 ORDER BY position`,
		accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer func() { _ = rows.Close() }()

	phones := make([]domain.Phone, 0)
	for rows.Next() {
		var p domain.Phone
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phones: %w", err)
	}
	return phones, nil
}

// listAllPhones loads every phone grouped by account, each group in
// position order.
func listAllPhones(ctx context.Context, db store.DBTX) (map[uuid.UUID][]domain.Phone, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+phoneColumns+` FROM phones ORDER BY account_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byAccount := make(map[uuid.UUID][]domain.Phone)
	for rows.Next() {
		var p domain.Phone
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		byAccount[p.AccountID] = append(byAccount[p.AccountID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phones: %w", err)
	}
	return byAccount, nil
}
