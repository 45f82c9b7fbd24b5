package storage

import (
	"context"
	"errors"

	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types/mapper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scanJobRepo struct {
	db *gorm.DB
}

func NewScanJobRepo(db *gorm.DB) scanPort.Repo {
	return &scanJobRepo{db: db}
}

// Save upserts the job snapshot. Cancel can race the worker's terminal
// write, so the row is replaced rather than inserted.
func (r *scanJobRepo) Save(ctx context.Context, job scanDomain.ScanJob) error {
	record, err := mapper.ScanJobDomain2Storage(job)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(record).Error
}

func (r *scanJobRepo) GetByID(ctx context.Context, id string) (*scanDomain.ScanJob, error) {
	var record types.ScanJobRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.ScanJobStorage2Domain(record)
}
