package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockPhoneStore is a mock of store.PhoneStore for use with testify/mock.
// WithTx returns the mock itself.
type TestifyMockPhoneStore struct {
	mock.Mock
}

var _ store.PhoneStore = (*TestifyMockPhoneStore)(nil)

// Create is a mock implementation of store.PhoneStore.Create
func (m *TestifyMockPhoneStore) Create(ctx context.Context, phone *domain.Phone) error {
	return m.Called(ctx, phone).Error(0)
}

// CreateMultiple is a mock implementation of store.PhoneStore.CreateMultiple
func (m *TestifyMockPhoneStore) CreateMultiple(ctx context.Context, phones []domain.Phone) error {
	return m.Called(ctx, phones).Error(0)
}

// ListByAccount is a mock implementation of store.PhoneStore.ListByAccount
func (m *TestifyMockPhoneStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Phone, error) {
	args := m.Called(ctx, accountID)
	if phones, ok := args.Get(0).([]domain.Phone); ok {
		return phones, args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteByAccount is a mock implementation of store.PhoneStore.DeleteByAccount
func (m *TestifyMockPhoneStore) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	return m.Called(ctx, accountID).Error(0)
}

// WithTx is a mock implementation of store.PhoneStore.WithTx
func (m *TestifyMockPhoneStore) WithTx(tx *sql.Tx) store.PhoneStore {
	return m
}
