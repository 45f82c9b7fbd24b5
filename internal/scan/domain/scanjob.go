package domain

import (
	"time"
)

// JobStatus is the lifecycle state of a scan job
type JobStatus string

const (
	StatusPending   JobStatus = "Pending"
	StatusRunning   JobStatus = "Running"
	StatusCompleted JobStatus = "Completed"
	StatusFailed    JobStatus = "Failed"
	StatusCancelled JobStatus = "Cancelled"
)

// Terminal reports whether the status has no outgoing transitions
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Source is the contract source unit a job scans. Either Path or Content is
// set. A source with Ephemeral set is owned by the job, which removes the
// file once the job reaches a terminal state.
type Source struct {
	Path      string
	Content   []byte
	Ephemeral bool
}

// Empty reports whether the source carries no input at all
func (s Source) Empty() bool {
	return s.Path == "" && len(s.Content) == 0
}

// ToolResult is the recorded outcome of one tool run within a job. Exactly
// one of Findings or Err is meaningful; TimedOut distinguishes a timeout from
// other execution errors.
type ToolResult struct {
	Tool     string
	Findings []Finding
	Err      string
	TimedOut bool
}

// Failed reports whether the tool run produced an error instead of findings
func (r ToolResult) Failed() bool {
	return r.Err != ""
}

// ScanJob tracks one source unit through its full scan lifecycle
type ScanJob struct {
	ID      string
	Source  Source
	Network string
	OwnerID string // empty for anonymous scans
	Tools   []string

	Status      JobStatus
	Progress    int
	ToolResults map[string]ToolResult
	Result      *Report // set exactly once, on Completed
	Error       string  // set exactly once, on Failed

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so registry snapshots cannot alias live state
func (j ScanJob) Clone() ScanJob {
	out := j
	out.Tools = append([]string(nil), j.Tools...)
	if j.ToolResults != nil {
		out.ToolResults = make(map[string]ToolResult, len(j.ToolResults))
		for name, res := range j.ToolResults {
			cp := res
			cp.Findings = append([]Finding(nil), res.Findings...)
			out.ToolResults[name] = cp
		}
	}
	out.Result = j.Result.Clone()
	out.Source.Content = append([]byte(nil), j.Source.Content...)
	return out
}

// JobFilters defines supported filters for listing jobs
type JobFilters struct {
	Status  JobStatus
	OwnerID string
}

// Matches reports whether a job passes the filter
func (f JobFilters) Matches(j ScanJob) bool {
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.OwnerID != "" && j.OwnerID != f.OwnerID {
		return false
	}
	return true
}
