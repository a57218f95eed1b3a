package account_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/opsdesk/svc/account"
)

// MockAccounts is a mock implementation of account.Accounts.
type MockAccounts struct {
	mock.Mock
}

func profileOrNil(args mock.Arguments) (*account.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Profile), args.Error(1)
}

func (m *MockAccounts) Signup(ctx context.Context, username, password string) (*account.Profile, error) {
	return profileOrNil(m.Called(ctx, username, password))
}

func (m *MockAccounts) Login(ctx context.Context, username, password, code string) (*account.LoginResult, error) {
	args := m.Called(ctx, username, password, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.LoginResult), args.Error(1)
}

func (m *MockAccounts) SetPassword(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func (m *MockAccounts) ChangePassword(ctx context.Context, userID, current, next string) error {
	return m.Called(ctx, userID, current, next).Error(0)
}

func (m *MockAccounts) SetupTOTP(ctx context.Context, userID string) (*account.TOTPSetup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.TOTPSetup), args.Error(1)
}

func (m *MockAccounts) EnableTOTP(ctx context.Context, userID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

func (m *MockAccounts) DisableTOTP(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockAccounts) Status(ctx context.Context, userID string) (*account.Profile, error) {
	return profileOrNil(m.Called(ctx, userID))
}

func (m *MockAccounts) RoleOf(ctx context.Context, username string) (*account.Profile, error) {
	return profileOrNil(m.Called(ctx, username))
}

func (m *MockAccounts) ListUsers(ctx context.Context) ([]*account.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Profile), args.Error(1)
}

func (m *MockAccounts) GetUser(ctx context.Context, id string) (*account.Profile, error) {
	return profileOrNil(m.Called(ctx, id))
}

func (m *MockAccounts) CreateUser(ctx context.Context, username, role, password string) (*account.Profile, error) {
	return profileOrNil(m.Called(ctx, username, role, password))
}

func (m *MockAccounts) UpdateRole(ctx context.Context, id, role string) (*account.Profile, error) {
	return profileOrNil(m.Called(ctx, id, role))
}

func (m *MockAccounts) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
