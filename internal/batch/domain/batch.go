package domain

import (
	"time"

	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
)

type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)

func (s BatchStatus) Terminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportHTML ExportFormat = "html"
)

// BatchJob groups a set of scan jobs submitted together. ChildJobIDs is
// fixed at submission; status and the counters are derived from the
// children on every read.
type BatchJob struct {
	ID             string
	OwnerID        string
	ChildJobIDs    []string
	Status         BatchStatus
	ProcessedCount int
	FailedCount    int
	Progress       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	EndedAt        *time.Time // set once, when the batch reaches a terminal state
}

func (b *BatchJob) Clone() BatchJob {
	out := *b
	out.ChildJobIDs = append([]string(nil), b.ChildJobIDs...)
	if b.EndedAt != nil {
		ended := *b.EndedAt
		out.EndedAt = &ended
	}
	return out
}

// ChildView is a read-only projection of one child job used for status
// reporting and export
type ChildView struct {
	JobID  string
	Status scanDomain.JobStatus
	Error  string
	Result *scanDomain.Report
}
