package mapper

import (
	"encoding/json"
	"fmt"

	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
	"github.com/solguard/scan-orchestrator/pkg/adapter/storage/types"
)

func ScanJobDomain2Storage(job scanDomain.ScanJob) (*types.ScanJobRecord, error) {
	tools, err := json.Marshal(job.Tools)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tools: %w", err)
	}
	toolResults, err := json.Marshal(job.ToolResults)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool results: %w", err)
	}

	record := &types.ScanJobRecord{
		ID:          job.ID,
		OwnerID:     job.OwnerID,
		Network:     job.Network,
		SourcePath:  job.Source.Path,
		Tools:       string(tools),
		Status:      string(job.Status),
		Progress:    job.Progress,
		Error:       job.Error,
		ToolResults: string(toolResults),
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}

	if job.Result != nil {
		result, err := json.Marshal(job.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		encoded := string(result)
		record.Result = &encoded
	}
	return record, nil
}

func ScanJobStorage2Domain(record types.ScanJobRecord) (*scanDomain.ScanJob, error) {
	job := &scanDomain.ScanJob{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Network:   record.Network,
		Source:    scanDomain.Source{Path: record.SourcePath},
		Status:    scanDomain.JobStatus(record.Status),
		Progress:  record.Progress,
		Error:     record.Error,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}

	if record.Tools != "" {
		if err := json.Unmarshal([]byte(record.Tools), &job.Tools); err != nil {
			return nil, fmt.Errorf("failed to decode tools: %w", err)
		}
	}
	if record.ToolResults != "" {
		if err := json.Unmarshal([]byte(record.ToolResults), &job.ToolResults); err != nil {
			return nil, fmt.Errorf("failed to decode tool results: %w", err)
		}
	}
	if record.Result != nil {
		job.Result = &scanDomain.Report{}
		if err := json.Unmarshal([]byte(*record.Result), job.Result); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
	}
	return job, nil
}
