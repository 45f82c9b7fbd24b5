package storage

import (
	"context"

	batchDomain "github.com/solguard/scan-orchestrator/internal/batch/domain"
	batchPort "github.com/solguard/scan-orchestrator/internal/batch/port"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types/mapper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) batchPort.Repo {
	return &batchRepo{db: db}
}

func (r *batchRepo) Save(ctx context.Context, batch batchDomain.BatchJob) error {
	record, err := mapper.BatchDomain2Storage(batch)
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
