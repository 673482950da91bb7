package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// TestifyMockAccountService is a mock of service.AccountService for use with testify/mock.
type TestifyMockAccountService struct {
	mock.Mock
}

var _ service.AccountService = (*TestifyMockAccountService)(nil)

func serviceAccount(args mock.Arguments) (*domain.Account, error) {
	if account, ok := args.Get(0).(*domain.Account); ok {
		return account, args.Error(1)
	}
	return nil, args.Error(1)
}

// Register is a mock implementation of service.AccountService.Register
func (m *TestifyMockAccountService) Register(ctx context.Context, reg domain.Registration) (*domain.AccountView, error) {
	args := m.Called(ctx, reg)
	if view, ok := args.Get(0).(*domain.AccountView); ok {
		return view, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of service.AccountService.Update
func (m *TestifyMockAccountService) Update(
	ctx context.Context,
	id uuid.UUID,
	changes domain.AccountChanges,
) (*domain.Account, error) {
	return serviceAccount(m.Called(ctx, id, changes))
}

// Patch is a mock implementation of service.AccountService.Patch
func (m *TestifyMockAccountService) Patch(
	ctx context.Context,
	id uuid.UUID,
	changes domain.AccountChanges,
) (*domain.Account, error) {
	return serviceAccount(m.Called(ctx, id, changes))
}

// Delete is a mock implementation of service.AccountService.Delete
func (m *TestifyMockAccountService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// FindByID is a mock implementation of service.AccountService.FindByID
func (m *TestifyMockAccountService) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return serviceAccount(m.Called(ctx, id))
}

// FindAll is a mock implementation of service.AccountService.FindAll
func (m *TestifyMockAccountService) FindAll(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if accounts, ok := args.Get(0).([]*domain.Account); ok {
		return accounts, args.Error(1)
	}
	return nil, args.Error(1)
}
