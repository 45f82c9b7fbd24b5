package port

import (
	"context"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
)

// SubmitRequest carries everything needed to start one scan job
type SubmitRequest struct {
	Source  domain.Source
	Network string
	OwnerID string
	Tools   []string
}

type Service interface {
	// Submit validates the request, stores a pending job and schedules its
	// execution. It returns the job id without waiting for any tool run.
	Submit(ctx context.Context, req SubmitRequest) (string, error)

	// Status returns a snapshot of the job. It never blocks on execution.
	Status(ctx context.Context, jobID string) (*domain.ScanJob, error)

	// Cancel stops a pending or running job. Cancelling a terminal job
	// returns ErrAlreadyTerminal.
	Cancel(ctx context.Context, jobID string) error

	// List returns job snapshots matching the filter, newest first
	List(ctx context.Context, filter domain.JobFilters, limit, offset int) ([]domain.ScanJob, int, error)
}
