package types

import (
	"time"
)

// ScanJobRecord is the audit row written when a job reaches a terminal
// state. Tool results and the merged report are stored as JSON documents:
// the registry owns the live representation, the row only has to be
// readable after eviction.
type ScanJobRecord struct {
	ID          string    `gorm:"column:id;size:50;primaryKey"`
	OwnerID     string    `gorm:"column:owner_id;size:50;index"`
	Network     string    `gorm:"column:network;size:50"`
	SourcePath  string    `gorm:"column:source_path;size:500"`
	Tools       string    `gorm:"column:tools;type:json"`
	Status      string    `gorm:"column:status;type:enum('Pending','Running','Completed','Failed','Cancelled');not null;default:Pending"`
	Progress    int       `gorm:"column:progress"`
	Error       string    `gorm:"column:error;size:1000"`
	ToolResults string    `gorm:"column:tool_results;type:json"`
	Result      *string   `gorm:"column:result;type:json"`
	CreatedAt   time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (ScanJobRecord) TableName() string {
	return "scan_jobs"
}
