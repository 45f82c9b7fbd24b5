package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/solguard/scan-orchestrator/internal/scan/domain"
)

// MockScanJobRepo is a mock implementation of the scan port.Repo interface
type MockScanJobRepo struct {
	mock.Mock
}

func (m *MockScanJobRepo) Save(ctx context.Context, job domain.ScanJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockScanJobRepo) GetByID(ctx context.Context, id string) (*domain.ScanJob, error) {
	args := m.Called(ctx, id)
	if job := args.Get(0); job != nil {
		return job.(*domain.ScanJob), args.Error(1)
	}
	return nil, args.Error(1)
}
