package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/solguard/scan-orchestrator/internal/batch/domain"
)

// MockBatchRepo is a mock implementation of the batch port.Repo interface
type MockBatchRepo struct {
	mock.Mock
}

func (m *MockBatchRepo) Save(ctx context.Context, batch domain.BatchJob) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}
