package mapper

import (
	"encoding/json"
	"fmt"

	batchDomain "github.com/solguard/scan-orchestrator/internal/batch/domain"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types"
)

func BatchDomain2Storage(batch batchDomain.BatchJob) (*types.BatchRecord, error) {
	childIDs, err := json.Marshal(batch.ChildJobIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode child job ids: %w", err)
	}

	return &types.BatchRecord{
		ID:             batch.ID,
		OwnerID:        batch.OwnerID,
		ChildJobIDs:    string(childIDs),
		Status:         string(batch.Status),
		ProcessedCount: batch.ProcessedCount,
		FailedCount:    batch.FailedCount,
		Progress:       batch.Progress,
		CreatedAt:      batch.CreatedAt,
		UpdatedAt:      batch.UpdatedAt,
		EndedAt:        batch.EndedAt,
	}, nil
}

func BatchStorage2Domain(record types.BatchRecord) (*batchDomain.BatchJob, error) {
	batch := &batchDomain.BatchJob{
		ID:             record.ID,
		OwnerID:        record.OwnerID,
		Status:         batchDomain.BatchStatus(record.Status),
		ProcessedCount: record.ProcessedCount,
		FailedCount:    record.FailedCount,
		Progress:       record.Progress,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
		EndedAt:        record.EndedAt,
	}
	if record.ChildJobIDs != "" {
		if err := json.Unmarshal([]byte(record.ChildJobIDs), &batch.ChildJobIDs); err != nil {
			return nil, fmt.Errorf("failed to decode child job ids: %w", err)
		}
	}
	return batch, nil
}
