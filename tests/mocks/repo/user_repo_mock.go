package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/solguard/scan-orchestrator/internal/user/domain"
)

// MockUserRepo is a mock implementation of the user port.Repo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user domain.User) (domain.UserID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.UserID), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, filter domain.UserFilter) (*domain.User, error) {
	args := m.Called(ctx, filter)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) StoreSession(ctx context.Context, session domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockUserRepo) InvalidateSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}
