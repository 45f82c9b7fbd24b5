package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/solguard/scan-orchestrator/config"
	"github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
	"github.com/solguard/scan-orchestrator/pkg/logger"
)

var (
	ErrInvalidScanInput = errors.New("invalid scan input")
	ErrUnknownTool      = errors.New("unknown analysis tool")
)

// service implements scanPort.Service. Submission is decoupled from
// execution: Submit returns as soon as the pending record is stored and the
// worker goroutine is scheduled.
type service struct {
	registry *Registry
	tools    scanPort.ToolResolver
	enricher scanPort.Enricher
	history  scanPort.Repo
	agg      *Aggregator
	cancels  *CancelManager
	cfg      config.ScanConfig
}

// NewScanService creates the scan orchestration service. The history repo
// may be nil, in which case terminal jobs are not persisted.
func NewScanService(registry *Registry, tools scanPort.ToolResolver, enricher scanPort.Enricher, history scanPort.Repo, cfg config.ScanConfig) scanPort.Service {
	return &service{
		registry: registry,
		tools:    tools,
		enricher: enricher,
		history:  history,
		agg:      NewAggregator(cfg),
		cancels:  NewCancelManager(),
		cfg:      cfg.WithDefaults(),
	}
}

func (s *service) Submit(ctx context.Context, req scanPort.SubmitRequest) (string, error) {
	if req.Source.Empty() {
		return "", fmt.Errorf("%w: empty source", ErrInvalidScanInput)
	}
	if len(req.Tools) == 0 {
		return "", fmt.Errorf("%w: empty tool list", ErrInvalidScanInput)
	}
	for _, name := range req.Tools {
		if _, ok := s.tools.Resolve(name); !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
		}
	}

	source, err := stageSource(req.Source)
	if err != nil {
		return "", fmt.Errorf("failed to stage scan source: %w", err)
	}

	now := time.Now()
	job := domain.ScanJob{
		ID:        uuid.NewString(),
		Source:    source,
		Network:   req.Network,
		OwnerID:   req.OwnerID,
		Tools:     append([]string(nil), req.Tools...),
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.registry.Put(job); err != nil {
		return "", err
	}

	// The worker context is detached from the request context on purpose:
	// the HTTP request ends long before the tools do.
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancels.Register(job.ID, cancel)

	go s.run(runCtx, job)

	logger.InfoContextWithFields(ctx, "scan job submitted", map[string]interface{}{
		"job_id": job.ID,
		"tools":  len(job.Tools),
	})
	return job.ID, nil
}

// run executes the whole job lifecycle off the caller's goroutine. Every
// failure path ends in a terminal registry state: a worker crash must never
// leave a job stuck in Running.
func (s *service) run(ctx context.Context, job domain.ScanJob) {
	defer s.cancels.Unregister(job.ID)
	defer s.releaseSource(job)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("scan worker panic for job %s: %v", job.ID, rec)
			s.registry.Fail(job.ID, fmt.Sprintf("internal error: %v", rec))
			s.persist(job.ID)
		}
	}()

	if !s.registry.MarkRunning(job.ID) {
		// Cancelled before pickup
		s.persist(job.ID)
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.MaxConcurrentToolRuns)
	for _, name := range job.Tools {
		name := name
		g.Go(func() error {
			s.runTool(ctx, job, name)
			return nil
		})
	}
	_ = g.Wait()

	snap, err := s.registry.Snapshot(job.ID)
	if err != nil || snap.Status != domain.StatusRunning {
		// Cancelled mid-flight; late results were already discarded
		s.persist(job.ID)
		return
	}

	report, err := s.agg.Merge(snap.ToolResults, job.Tools)
	if err != nil {
		s.registry.Fail(job.ID, err.Error())
		s.persist(job.ID)
		return
	}

	if s.enricher != nil {
		enriched, enrichErr := s.enricher.Enrich(ctx, report.Findings)
		if enrichErr != nil {
			// Enrichment is best-effort: the raw report is still valid
			logger.Warn("enrichment failed for job %s: %v", job.ID, enrichErr)
		} else {
			report.Findings = enriched
		}
	}

	s.registry.Complete(job.ID, report)
	s.persist(job.ID)
	logger.InfoWithFields("scan job finished", map[string]interface{}{
		"job_id":   job.ID,
		"findings": len(report.Findings),
		"score":    report.Score,
	})
}

// runTool executes one tool with its own timeout. A slow or broken tool is
// recorded as a per-tool error marker and never fails the whole job.
func (s *service) runTool(ctx context.Context, job domain.ScanJob, name string) {
	defer func() {
		// A tool panic runs on the errgroup's goroutine, out of reach of the
		// worker's recovery; record it as a tool failure here
		if rec := recover(); rec != nil {
			logger.Error("tool %s panicked for job %s: %v", name, job.ID, rec)
			s.registry.RecordToolResult(job.ID, domain.ToolResult{
				Tool: name,
				Err:  fmt.Sprintf("tool panic: %v", rec),
			})
		}
	}()

	runner, ok := s.tools.Resolve(name)
	if !ok {
		s.registry.RecordToolResult(job.ID, domain.ToolResult{Tool: name, Err: "tool not available"})
		return
	}

	toolCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.ToolTimeoutSeconds)*time.Second)
	defer cancel()

	findings, err := runner.Run(toolCtx, job.Source)
	if ctx.Err() != nil {
		// Job cancelled: the registry would reject the record anyway,
		// skip the lock round-trip
		return
	}

	result := domain.ToolResult{Tool: name, Findings: findings}
	if err != nil {
		result.Findings = nil
		result.Err = err.Error()
		result.TimedOut = errors.Is(err, context.DeadlineExceeded) || errors.Is(toolCtx.Err(), context.DeadlineExceeded)
		logger.Warn("tool %s failed for job %s: %v", name, job.ID, err)
	}

	s.registry.RecordToolResult(job.ID, result)
}

func (s *service) Status(ctx context.Context, jobID string) (*domain.ScanJob, error) {
	snap, err := s.registry.Snapshot(jobID)
	if err == nil {
		return snap, nil
	}
	if s.history != nil {
		// Evicted jobs remain readable from the audit store
		if job, repoErr := s.history.GetByID(ctx, jobID); repoErr == nil && job != nil {
			return job, nil
		}
	}
	return nil, ErrJobNotFound
}

func (s *service) Cancel(ctx context.Context, jobID string) error {
	if err := s.registry.CancelJob(jobID); err != nil {
		return err
	}

	// Best-effort signal to in-flight tool runs; the status change above is
	// already visible to pollers
	s.cancels.Cancel(jobID)
	s.persist(jobID)

	logger.InfoContext(ctx, "scan job %s cancelled", jobID)
	return nil
}

func (s *service) List(ctx context.Context, filter domain.JobFilters, limit, offset int) ([]domain.ScanJob, int, error) {
	jobs, total := s.registry.List(filter, limit, offset)
	return jobs, total, nil
}

// persist writes the current job snapshot to the audit store. Failures are
// logged and swallowed: the registry stays authoritative.
func (s *service) persist(jobID string) {
	if s.history == nil {
		return
	}
	snap, err := s.registry.Snapshot(jobID)
	if err != nil {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.history.Save(dbCtx, *snap); err != nil {
		logger.Error("failed to persist scan job %s: %v", jobID, err)
	}
}

// stageSource writes a content-only source to a temp file owned by the job,
// so every tool run addresses the same file instead of staging its own copy.
// The job removes the file when it reaches a terminal state.
func stageSource(src domain.Source) (domain.Source, error) {
	if src.Path != "" || len(src.Content) == 0 {
		return src, nil
	}

	tmp, err := os.CreateTemp("", "scan-src-*.sol")
	if err != nil {
		return src, err
	}
	if _, err := tmp.Write(src.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return src, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return src, err
	}

	src.Path = tmp.Name()
	src.Ephemeral = true
	return src, nil
}

// releaseSource removes job-owned source files once the job is done
func (s *service) releaseSource(job domain.ScanJob) {
	if !job.Source.Ephemeral || job.Source.Path == "" {
		return
	}
	if err := os.Remove(job.Source.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove source file for job %s: %v", job.ID, err)
	}
}
