package port

import (
	"context"

	"github.com/solguard/scan-orchestrator/internal/batch/domain"
	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
)

// SubmitBatchRequest starts one scan job per source, all with the same tool
// list and owner
type SubmitBatchRequest struct {
	OwnerID string
	Network string
	Tools   []string
	Sources []scanDomain.Source
}

type Service interface {
	// SubmitBatch fans the sources out as individual scan jobs and returns
	// the batch id. The child job set is fixed at this point.
	SubmitBatch(ctx context.Context, req SubmitBatchRequest) (string, error)

	// Status returns the batch with counters and status derived from the
	// current child states. Access is restricted to the batch owner.
	Status(ctx context.Context, batchID, ownerID string) (*domain.BatchJob, error)

	// Cancel propagates cancellation to every non-terminal child. Children
	// already terminal keep their results.
	Cancel(ctx context.Context, batchID, ownerID string) error

	// Export renders the batch results in the given format. It works on
	// partial batches: children without results appear with empty findings.
	Export(ctx context.Context, batchID, ownerID string, format domain.ExportFormat) ([]byte, string, error)
}

// Repo persists batch audit records
type Repo interface {
	Save(ctx context.Context, batch domain.BatchJob) error
}
