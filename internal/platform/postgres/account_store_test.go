package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountRowColumns = []string{
	"id", "username", "email", "password_hash", "token", "is_active",
	"created_at", "modified_at", "last_login_at",
}

var phoneRowColumns = []string{"id", "account_id", "number", "city_code", "country_code"}

func newMockAccountStore(t *testing.T) (*PostgresAccountStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresAccountStore(db, nil), mock
}

func testAccount(t *testing.T) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(
		"juan",
		"juan@dominio.cl",
		"$2a$10$abcdefghijklmnopqrstuv",
		"token",
		[]domain.PhoneInput{{Number: "1234567", CityCode: "1", CountryCode: "57"}},
		time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return account
}

func accountRow(a *domain.Account) *sqlmock.Rows {
	return sqlmock.NewRows(accountRowColumns).AddRow(
		a.ID.String(), a.Username, a.Email, a.PasswordHash, a.Token, a.Active,
		a.CreatedAt, a.ModifiedAt, a.LastLoginAt,
	)
}

func TestPostgresAccountStore_Create(t *testing.T) {
	t.Run("inserts account row", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		account := testAccount(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
			WithArgs(
				account.ID, account.Username, account.Email, account.PasswordHash,
				account.Token, true, account.CreatedAt, account.ModifiedAt, account.LastLoginAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid account without querying", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		account := testAccount(t)
		account.PasswordHash = ""

		err := s.Create(context.Background(), account)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrEmptyPasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	conflicts := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username taken", usernameConstraint, store.ErrUsernameExists},
		{"email taken", emailConstraint, store.ErrEmailExists},
		{"other unique constraint", "accounts_pkey", store.ErrDuplicate},
	}
	for _, tt := range conflicts {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockAccountStore(t)
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
				WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: tt.constraint})

			err := s.Create(context.Background(), testAccount(t))
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("wraps unexpected errors", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		dbErr := errors.New("connection reset")
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).WillReturnError(dbErr)

		err := s.Create(context.Background(), testAccount(t))
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "account", storeErr.Entity)
		assert.Equal(t, "create", storeErr.Operation)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestPostgresAccountStore_GetByID(t *testing.T) {
	t.Run("loads account with phones", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		account := testAccount(t)
		phone := account.Phones[0]

		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
			WithArgs(account.ID).
			WillReturnRows(accountRow(account))
		mock.ExpectQuery(regexp.QuoteMeta("FROM phones WHERE account_id = $1 ORDER BY position")).
			WithArgs(account.ID).
			WillReturnRows(sqlmock.NewRows(phoneRowColumns).AddRow(
				phone.ID.String(), account.ID.String(), phone.Number, phone.CityCode, phone.CountryCode,
			))

		got, err := s.GetByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		assert.Equal(t, account.Username, got.Username)
		assert.Equal(t, account.PasswordHash, got.PasswordHash)
		assert.True(t, got.Active)
		assert.Equal(t, []domain.Phone{phone}, got.Phones)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(accountRowColumns))

		got, err := s.GetByID(context.Background(), id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresAccountStore_Lookups(t *testing.T) {
	tests := []struct {
		name  string
		query string
		call  func(s *PostgresAccountStore) (*domain.Account, error)
	}{
		{
			name:  "exact username",
			query: "FROM accounts WHERE username = $1",
			call: func(s *PostgresAccountStore) (*domain.Account, error) {
				return s.GetByUsername(context.Background(), "juan")
			},
		},
		{
			name:  "username ignoring case",
			query: "FROM accounts WHERE lower(username) = lower($1) AND id <> $2",
			call: func(s *PostgresAccountStore) (*domain.Account, error) {
				return s.GetByUsernameFold(context.Background(), "JUAN", uuid.Nil)
			},
		},
		{
			name:  "email ignoring case",
			query: "FROM accounts WHERE lower(email) = lower($1)",
			call: func(s *PostgresAccountStore) (*domain.Account, error) {
				return s.GetByEmail(context.Background(), "JUAN@dominio.cl")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockAccountStore(t)
			account := testAccount(t)

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).WillReturnRows(accountRow(account))
			mock.ExpectQuery(regexp.QuoteMeta("FROM phones")).
				WillReturnRows(sqlmock.NewRows(phoneRowColumns))

			got, err := tt.call(s)
			require.NoError(t, err)
			assert.Equal(t, account.ID, got.ID)
			assert.NotNil(t, got.Phones)
			assert.Empty(t, got.Phones)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresAccountStore_GetByUsernameFold_ExcludesCaller(t *testing.T) {
	s, mock := newMockAccountStore(t)
	self := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("lower(username) = lower($1) AND id <> $2")).
		WithArgs("BOB", self).
		WillReturnRows(sqlmock.NewRows(accountRowColumns))

	got, err := s.GetByUsernameFold(context.Background(), "BOB", self)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAccountStore_List(t *testing.T) {
	t.Run("groups phones by account", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		first := testAccount(t)
		second := testAccount(t)
		second.Username = "maria"

		rows := accountRow(first).AddRow(
			second.ID.String(), second.Username, second.Email, second.PasswordHash, second.Token,
			second.Active, second.CreatedAt, second.ModifiedAt, second.LastLoginAt,
		)
		phone := first.Phones[0]

		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts ORDER BY created_at")).WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta("FROM phones ORDER BY account_id, position")).
			WillReturnRows(sqlmock.NewRows(phoneRowColumns).AddRow(
				phone.ID.String(), first.ID.String(), phone.Number, phone.CityCode, phone.CountryCode,
			))

		got, err := s.List(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []domain.Phone{phone}, got[0].Phones)
		assert.NotNil(t, got[1].Phones)
		assert.Empty(t, got[1].Phones)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty store returns empty slice", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).
			WillReturnRows(sqlmock.NewRows(accountRowColumns))
		mock.ExpectQuery(regexp.QuoteMeta("FROM phones")).
			WillReturnRows(sqlmock.NewRows(phoneRowColumns))

		got, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestPostgresAccountStore_Update(t *testing.T) {
	t.Run("updates row", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		account := testAccount(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(context.Background(), account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), testAccount(t))
		assert.ErrorIs(t, err, store.ErrAccountNotFound)
	})

	t.Run("email conflict", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: emailConstraint})

		err := s.Update(context.Background(), testAccount(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestPostgresAccountStore_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("deletes row", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts WHERE id = $1")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account", func(t *testing.T) {
		s, mock := newMockAccountStore(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts WHERE id = $1")).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrAccountNotFound)
	})
}

func TestPostgresAccountStore_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	txStore := NewPostgresAccountStore(db, nil).WithTx(tx)
	require.NoError(t, txStore.Delete(context.Background(), uuid.New()))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAccountStore_WithTxLoadsPhones(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	account := testAccount(t)
	phone := account.Phones[0]

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
		WithArgs(account.ID).
		WillReturnRows(accountRow(account))
	mock.ExpectQuery(regexp.QuoteMeta("FROM phones WHERE account_id = $1")).
		WithArgs(account.ID).
		WillReturnRows(sqlmock.NewRows(phoneRowColumns).
			AddRow(phone.ID.String(), account.ID.String(), phone.Number, phone.CityCode, phone.CountryCode))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	got, err := NewPostgresAccountStore(db, nil).WithTx(tx).GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Phones, got.Phones)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresAccountStore_NilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresAccountStore(nil, nil) })
}
