package scan

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
)

var (
	ErrJobNotFound     = errors.New("scan job not found")
	ErrDuplicateJobID  = errors.New("scan job id already registered")
	ErrAlreadyTerminal = errors.New("scan job already reached a terminal state")
)

// jobEntry pairs one job with its own lock so that updates to different jobs
// never contend with each other. The registry lock only guards the map.
type jobEntry struct {
	mu  sync.Mutex
	job domain.ScanJob
}

// Registry is the in-memory source of truth for live scan jobs
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*jobEntry
}

func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*jobEntry),
	}
}

// Put stores a freshly created pending job
func (r *Registry) Put(job domain.ScanJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return ErrDuplicateJobID
	}
	r.jobs[job.ID] = &jobEntry{job: job.Clone()}
	return nil
}

func (r *Registry) entry(id string) (*jobEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.jobs[id]
	return e, ok
}

// Snapshot returns a deep copy of the job state. It never blocks on a
// running job's tool execution, only on the short-held entry lock.
func (r *Registry) Snapshot(id string) (*domain.ScanJob, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.job.Clone()
	return &snap, nil
}

// MarkRunning transitions Pending -> Running. It reports false when the job
// is unknown or no longer pending (for instance cancelled before pickup).
func (r *Registry) MarkRunning(id string) bool {
	e, ok := r.entry(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job.Status != domain.StatusPending {
		return false
	}
	e.job.Status = domain.StatusRunning
	e.job.Progress = 0
	e.job.UpdatedAt = time.Now()
	return true
}

// RecordToolResult stores one tool's outcome and advances progress
// proportionally. Results arriving after the job left Running are discarded.
func (r *Registry) RecordToolResult(id string, result domain.ToolResult) bool {
	e, ok := r.entry(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job.Status != domain.StatusRunning {
		return false
	}
	if e.job.ToolResults == nil {
		e.job.ToolResults = make(map[string]domain.ToolResult, len(e.job.Tools))
	}
	e.job.ToolResults[result.Tool] = result

	// Progress only grows: the result map never shrinks while Running
	if total := len(e.job.Tools); total > 0 {
		if p := 100 * len(e.job.ToolResults) / total; p > e.job.Progress {
			e.job.Progress = p
		}
	}
	e.job.UpdatedAt = time.Now()
	return true
}

// Complete transitions Running -> Completed with the aggregated report
func (r *Registry) Complete(id string, report *domain.Report) bool {
	e, ok := r.entry(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job.Status != domain.StatusRunning {
		return false
	}
	e.job.Status = domain.StatusCompleted
	e.job.Result = report.Clone()
	e.job.Progress = 100
	e.job.UpdatedAt = time.Now()
	return true
}

// Fail transitions Pending/Running -> Failed with the failure reason
func (r *Registry) Fail(id string, reason string) bool {
	e, ok := r.entry(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job.Status.Terminal() {
		return false
	}
	e.job.Status = domain.StatusFailed
	e.job.Error = reason
	e.job.UpdatedAt = time.Now()
	return true
}

// CancelJob transitions Pending/Running -> Cancelled immediately, without
// waiting for in-flight work to unwind. Cancelling a terminal job returns
// ErrAlreadyTerminal so idempotent callers can tell the two apart.
func (r *Registry) CancelJob(id string) error {
	e, ok := r.entry(id)
	if !ok {
		return ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job.Status.Terminal() {
		return ErrAlreadyTerminal
	}
	e.job.Status = domain.StatusCancelled
	e.job.UpdatedAt = time.Now()
	return nil
}

// List returns snapshots matching the filter, newest first, with the total
// match count for pagination
func (r *Registry) List(filter domain.JobFilters, limit, offset int) ([]domain.ScanJob, int) {
	r.mu.RLock()
	entries := make([]*jobEntry, 0, len(r.jobs))
	for _, e := range r.jobs {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	matched := make([]domain.ScanJob, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if filter.Matches(e.job) {
			matched = append(matched, e.job.Clone())
		}
		e.mu.Unlock()
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []domain.ScanJob{}, total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total
}

// SweepTerminal evicts terminal jobs whose last update is older than the
// cutoff and returns the evicted snapshots
func (r *Registry) SweepTerminal(cutoff time.Time) []domain.ScanJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []domain.ScanJob
	for id, e := range r.jobs {
		e.mu.Lock()
		if e.job.Status.Terminal() && e.job.UpdatedAt.Before(cutoff) {
			evicted = append(evicted, e.job.Clone())
			delete(r.jobs, id)
		}
		e.mu.Unlock()
	}
	return evicted
}

// Len returns the number of tracked jobs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
