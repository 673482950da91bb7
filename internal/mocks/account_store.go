package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockAccountStore is a mock of store.AccountStore for use with testify/mock.
// WithTx returns the mock itself unless an expectation says otherwise.
type TestifyMockAccountStore struct {
	mock.Mock
}

var _ store.AccountStore = (*TestifyMockAccountStore)(nil)

func accountResult(args mock.Arguments) (*domain.Account, error) {
	if account, ok := args.Get(0).(*domain.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.AccountStore.Create
func (m *TestifyMockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

// GetByID is a mock implementation of store.AccountStore.GetByID
func (m *TestifyMockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return accountResult(m.Called(ctx, id))
}

// GetByUsername is a mock implementation of store.AccountStore.GetByUsername
func (m *TestifyMockAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, username))
}

// GetByUsernameFold is a mock implementation of store.AccountStore.GetByUsernameFold
func (m *TestifyMockAccountStore) GetByUsernameFold(ctx context.Context, username string, exclude uuid.UUID) (*domain.Account, error) {
	return accountResult(m.Called(ctx, username, exclude))
}

// GetByEmail is a mock implementation of store.AccountStore.GetByEmail
func (m *TestifyMockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return accountResult(m.Called(ctx, email))
}

// List is a mock implementation of store.AccountStore.List
func (m *TestifyMockAccountStore) List(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if accounts, ok := args.Get(0).([]*domain.Account); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.AccountStore.Update
func (m *TestifyMockAccountStore) Update(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

// Delete is a mock implementation of store.AccountStore.Delete
func (m *TestifyMockAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// WithTx is a mock implementation of store.AccountStore.WithTx
func (m *TestifyMockAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return m
}
