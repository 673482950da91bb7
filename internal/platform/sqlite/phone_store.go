package sqlite

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

// PhoneStore implements store.PhoneStore on SQLite.
type PhoneStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPhoneStore creates a SQLite PhoneStore. If logger is nil, a default
// logger will be used.
func NewPhoneStore(db store.DBTX, logger *slog.Logger) *PhoneStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PhoneStore{
		db:     db,
		logger: logger.With(slog.String("component", "phone_store")),
	}
}

var _ store.PhoneStore = (*PhoneStore)(nil)

// Create implements store.PhoneStore.
func (s *PhoneStore) Create(ctx context.Context, phone *domain.Phone) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO phones (id, account_id, position, number, city_code, country_code)
		VALUES (?, ?,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM phones WHERE account_id = ?),
			?, ?, ?)`,
		phone.ID.String(),
		phone.AccountID.String(),
		phone.AccountID.String(),
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
	return nil
}

// CreateMultiple implements store.PhoneStore.
func (s *PhoneStore) CreateMultiple(ctx context.Context, phones []domain.Phone) error {
	for i := range phones {
		if err := s.Create(ctx, &phones[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListByAccount implements store.PhoneStore.
func (s *PhoneStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Phone, error) {
	phones, err := listPhones(ctx, s.db, accountID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list phones",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return nil, err
	}
	return phones, nil
}

// DeleteByAccount implements store.PhoneStore.
func (s *PhoneStore) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM phones WHERE account_id = ?`, accountID.String()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete phones",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return store.NewStoreError("phone", "delete", "failed to delete phones", MapError(err))
	}
	return nil
}

// WithTx implements store.PhoneStore.
func (s *PhoneStore) WithTx(tx *sql.Tx) store.PhoneStore {
	return &PhoneStore{db: tx, logger: s.logger}
}

func listPhones(ctx context.Context, db store.DBTX, accountID uuid.UUID) ([]domain.Phone, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+phoneColumns+` FROM phones WHERE account_id = ? ORDER BY position`,
		accountID.String())
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
