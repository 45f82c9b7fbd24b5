package types

import (
	"time"
)

// BatchRecord is the audit row for a terminal batch
type BatchRecord struct {
	ID             string     `gorm:"column:id;size:50;primaryKey"`
	OwnerID        string     `gorm:"column:owner_id;size:50;index"`
	ChildJobIDs    string     `gorm:"column:child_job_ids;type:json"`
	Status         string     `gorm:"column:status;type:enum('pending','running','completed','failed');not null;default:pending"`
	ProcessedCount int        `gorm:"column:processed_count"`
	FailedCount    int        `gorm:"column:failed_count"`
	Progress       int        `gorm:"column:progress"`
	CreatedAt      time.Time  `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;type:datetime;not null"`
	EndedAt        *time.Time `gorm:"column:ended_at;type:datetime"`
}

func (BatchRecord) TableName() string {
	return "batches"
}
