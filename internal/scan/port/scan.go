package port

import (
	"context"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
)

// ToolRunner executes one static-analysis tool against one source unit.
// Implementations must honor context cancellation; the orchestrator applies
// the per-tool timeout through the context.
type ToolRunner interface {
	Name() string
	Run(ctx context.Context, src domain.Source) ([]domain.Finding, error)
}

// ToolResolver looks tool runners up by name
type ToolResolver interface {
	Resolve(name string) (ToolRunner, bool)
	Names() []string
}

// Enricher augments aggregated findings with confidence, risk scores and
// remediation hints
type Enricher interface {
	Enrich(ctx context.Context, findings []domain.Finding) ([]domain.Finding, error)
}

// Repo persists terminal jobs as audit records. The in-memory registry stays
// the source of truth while a job executes.
type Repo interface {
	Save(ctx context.Context, job domain.ScanJob) error
	GetByID(ctx context.Context, id string) (*domain.ScanJob, error)
}
