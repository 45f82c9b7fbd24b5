package service

import (
	"context"
	"time"

	"github.com/solguard/scan-orchestrator/api/dto"
	"github.com/solguard/scan-orchestrator/internal/batch"
	batchDomain "github.com/solguard/scan-orchestrator/internal/batch/domain"
	batchPort "github.com/solguard/scan-orchestrator/internal/batch/port"
	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
)

var (
	ErrBatchNotFound        = batch.ErrBatchNotFound
	ErrBatchAccessDenied    = batch.ErrBatchAccessDenied
	ErrBatchAlreadyTerminal = batch.ErrBatchAlreadyTerminal
	ErrEmptyBatch           = batch.ErrEmptyBatch
	ErrUnsupportedFormat    = batch.ErrUnsupportedFormat
)

// BatchService provides API operations for batch scans
type BatchService struct {
	service batchPort.Service
}

func NewBatchService(srv batchPort.Service) *BatchService {
	return &BatchService{service: srv}
}

func (s *BatchService) Submit(ctx context.Context, ownerID string, req *dto.SubmitBatchRequest) (*dto.SubmitBatchResponse, error) {
	sources := make([]scanDomain.Source, 0, len(req.Sources))
	for _, src := range req.Sources {
		sources = append(sources, scanDomain.Source{
			Path:    src.Path,
			Content: []byte(src.Content),
		})
	}

	batchID, err := s.service.SubmitBatch(ctx, batchPort.SubmitBatchRequest{
		OwnerID: ownerID,
		Network: req.Network,
		Tools:   req.Tools,
		Sources: sources,
	})
	if err != nil {
		return nil, err
	}
	return &dto.SubmitBatchResponse{BatchID: batchID}, nil
}

func (s *BatchService) GetByID(ctx context.Context, batchID, ownerID string) (*dto.BatchStatusResponse, error) {
	b, err := s.service.Status(ctx, batchID, ownerID)
	if err != nil {
		return nil, err
	}
	resp := &dto.BatchStatusResponse{
		BatchID:        b.ID,
		Status:         string(b.Status),
		ProcessedCount: b.ProcessedCount,
		FailedCount:    b.FailedCount,
		Progress:       b.Progress,
		ChildJobIDs:    b.ChildJobIDs,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
	if b.EndedAt != nil {
		resp.EndedAt = b.EndedAt.Format(time.RFC3339)
	}
	return resp, nil
}

func (s *BatchService) Cancel(ctx context.Context, batchID, ownerID string) (*dto.CancelBatchResponse, error) {
	if err := s.service.Cancel(ctx, batchID, ownerID); err != nil {
		return nil, err
	}
	b, err := s.service.Status(ctx, batchID, ownerID)
	if err != nil {
		return nil, err
	}
	return &dto.CancelBatchResponse{
		BatchID: batchID,
		Status:  string(b.Status),
	}, nil
}

// Export renders the batch report; the returned content type drives the
// HTTP response headers
func (s *BatchService) Export(ctx context.Context, batchID, ownerID, format string) ([]byte, string, error) {
	return s.service.Export(ctx, batchID, ownerID, batchDomain.ExportFormat(format))
}
