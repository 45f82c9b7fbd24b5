package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solguard/scan-orchestrator/internal/batch/domain"
	batchPort "github.com/solguard/scan-orchestrator/internal/batch/port"
	scan "github.com/solguard/scan-orchestrator/internal/scan"
	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
	"github.com/solguard/scan-orchestrator/pkg/logger"
)

var (
	ErrBatchNotFound        = errors.New("batch not found")
	ErrBatchAccessDenied    = errors.New("batch access denied")
	ErrBatchAlreadyTerminal = errors.New("batch already reached a terminal state")
	ErrEmptyBatch           = errors.New("batch contains no sources")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
)

// coordinator implements batchPort.Service on top of the scan service. It
// keeps no child state of its own: counters and status are recomputed from
// child snapshots on every read, so they can never drift.
type coordinator struct {
	mu      sync.RWMutex
	batches map[string]*domain.BatchJob

	scans   scanPort.Service
	history batchPort.Repo
}

// NewCoordinator creates the batch scan coordinator. The history repo may be
// nil, in which case terminal batches are not persisted.
func NewCoordinator(scans scanPort.Service, history batchPort.Repo) batchPort.Service {
	return &coordinator{
		batches: make(map[string]*domain.BatchJob),
		scans:   scans,
		history: history,
	}
}

func (c *coordinator) SubmitBatch(ctx context.Context, req batchPort.SubmitBatchRequest) (string, error) {
	if len(req.Sources) == 0 {
		return "", ErrEmptyBatch
	}

	childIDs := make([]string, 0, len(req.Sources))
	for _, src := range req.Sources {
		jobID, err := c.scans.Submit(ctx, scanPort.SubmitRequest{
			Source:  src,
			Network: req.Network,
			OwnerID: req.OwnerID,
			Tools:   req.Tools,
		})
		if err != nil {
			// One bad source invalidates the whole batch; stop the
			// children that already started
			for _, id := range childIDs {
				if cancelErr := c.scans.Cancel(ctx, id); cancelErr != nil && !errors.Is(cancelErr, scan.ErrAlreadyTerminal) {
					logger.Warn("failed to cancel child job %s of aborted batch: %v", id, cancelErr)
				}
			}
			return "", fmt.Errorf("failed to submit batch child: %w", err)
		}
		childIDs = append(childIDs, jobID)
	}

	now := time.Now()
	b := &domain.BatchJob{
		ID:          uuid.NewString(),
		OwnerID:     req.OwnerID,
		ChildJobIDs: childIDs,
		Status:      domain.BatchStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.mu.Lock()
	c.batches[b.ID] = b
	c.mu.Unlock()

	logger.InfoContextWithFields(ctx, "batch submitted", map[string]interface{}{
		"batch_id": b.ID,
		"children": len(childIDs),
	})
	return b.ID, nil
}

func (c *coordinator) Status(ctx context.Context, batchID, ownerID string) (*domain.BatchJob, error) {
	b, err := c.lookup(batchID, ownerID)
	if err != nil {
		return nil, err
	}
	snap := c.refresh(ctx, b)
	return &snap, nil
}

// Cancel propagates cancellation to every non-terminal child. Cancelling a
// batch that already finished reports ErrBatchAlreadyTerminal so callers can
// tell it apart from a successful cancellation.
func (c *coordinator) Cancel(ctx context.Context, batchID, ownerID string) error {
	b, err := c.lookup(batchID, ownerID)
	if err != nil {
		return err
	}
	if snap := c.refresh(ctx, b); snap.Status.Terminal() {
		return ErrBatchAlreadyTerminal
	}

	for _, childID := range b.ChildJobIDs {
		err := c.scans.Cancel(ctx, childID)
		if err != nil && !errors.Is(err, scan.ErrAlreadyTerminal) && !errors.Is(err, scan.ErrJobNotFound) {
			logger.Warn("failed to cancel child job %s of batch %s: %v", childID, batchID, err)
		}
	}

	c.refresh(ctx, b)
	logger.InfoContext(ctx, "batch %s cancelled", batchID)
	return nil
}

func (c *coordinator) Export(ctx context.Context, batchID, ownerID string, format domain.ExportFormat) ([]byte, string, error) {
	b, err := c.lookup(batchID, ownerID)
	if err != nil {
		return nil, "", err
	}
	snap := c.refresh(ctx, b)
	children := c.childViews(ctx, b)

	switch format {
	case domain.ExportJSON:
		return exportJSON(snap, children)
	case domain.ExportCSV:
		return exportCSV(snap, children)
	case domain.ExportHTML:
		return exportHTML(snap, children)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func (c *coordinator) lookup(batchID, ownerID string) (*domain.BatchJob, error) {
	c.mu.RLock()
	b, ok := c.batches[batchID]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrBatchNotFound
	}
	if b.OwnerID != ownerID {
		return nil, ErrBatchAccessDenied
	}
	return b, nil
}

// refresh recomputes counters and status from the children and returns a
// snapshot. A cancelled child counts as a failed one: the batch as a whole
// did not complete its work. Only terminal children advance batch progress.
func (c *coordinator) refresh(ctx context.Context, b *domain.BatchJob) domain.BatchJob {
	var processed, failed int
	anyStarted := false

	for _, childID := range b.ChildJobIDs {
		child, err := c.scans.Status(ctx, childID)
		if err != nil {
			// Evicted and unpersisted: count as processed so the batch
			// can still reach a terminal state
			processed++
			failed++
			continue
		}
		if child.Status != scanDomain.StatusPending {
			anyStarted = true
		}
		if child.Status.Terminal() {
			processed++
			if child.Status == scanDomain.StatusFailed || child.Status == scanDomain.StatusCancelled {
				failed++
			}
		}
	}

	total := len(b.ChildJobIDs)
	status := domain.BatchStatusPending
	switch {
	case processed == total && failed > 0:
		status = domain.BatchStatusFailed
	case processed == total:
		status = domain.BatchStatusCompleted
	case anyStarted:
		status = domain.BatchStatusRunning
	}

	c.mu.Lock()
	// Concurrent refreshes can finish out of order; never let a stale
	// observation roll counters back or reopen a terminal batch
	if b.Status.Terminal() || processed < b.ProcessedCount {
		snap := b.Clone()
		c.mu.Unlock()
		return snap
	}
	b.ProcessedCount = processed
	b.FailedCount = failed
	b.Progress = 100 * processed / total
	b.Status = status
	b.UpdatedAt = time.Now()
	if status.Terminal() {
		now := b.UpdatedAt
		b.EndedAt = &now
	}
	snap := b.Clone()
	c.mu.Unlock()

	// The early return above makes this the first terminal observation
	if status.Terminal() {
		c.persist(snap)
	}
	return snap
}

func (c *coordinator) childViews(ctx context.Context, b *domain.BatchJob) []domain.ChildView {
	views := make([]domain.ChildView, 0, len(b.ChildJobIDs))
	for _, childID := range b.ChildJobIDs {
		view := domain.ChildView{JobID: childID}
		child, err := c.scans.Status(ctx, childID)
		if err != nil {
			view.Error = "job no longer available"
		} else {
			view.Status = child.Status
			view.Error = child.Error
			view.Result = child.Result
		}
		views = append(views, view)
	}
	return views
}

func (c *coordinator) persist(snap domain.BatchJob) {
	if c.history == nil {
		return
	}
	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.history.Save(dbCtx, snap); err != nil {
		logger.Error("failed to persist batch %s: %v", snap.ID, err)
	}
}
