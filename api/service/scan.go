package service

import (
	"context"
	"time"

	"github.com/solguard/scan-orchestrator/api/dto"
	"github.com/solguard/scan-orchestrator/internal/scan"
	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
)

var (
	ErrScanJobNotFound  = scan.ErrJobNotFound
	ErrScanTerminal     = scan.ErrAlreadyTerminal
	ErrInvalidScanInput = scan.ErrInvalidScanInput
	ErrUnknownTool      = scan.ErrUnknownTool
)

// ScanService provides API operations for single scan jobs
type ScanService struct {
	service scanPort.Service
}

func NewScanService(srv scanPort.Service) *ScanService {
	return &ScanService{service: srv}
}

func (s *ScanService) Submit(ctx context.Context, ownerID string, req *dto.SubmitScanRequest) (*dto.SubmitScanResponse, error) {
	jobID, err := s.service.Submit(ctx, scanPort.SubmitRequest{
		Source: scanDomain.Source{
			Path:    req.SourcePath,
			Content: []byte(req.SourceCode),
		},
		Network: req.Network,
		OwnerID: ownerID,
		Tools:   req.Tools,
	})
	if err != nil {
		return nil, err
	}
	return &dto.SubmitScanResponse{JobID: jobID}, nil
}

func (s *ScanService) GetByID(ctx context.Context, jobID string) (*dto.GetScanResponse, error) {
	job, err := s.service.Status(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &dto.GetScanResponse{Job: scanJobDomain2DTO(*job)}, nil
}

func (s *ScanService) Cancel(ctx context.Context, jobID string) (*dto.CancelScanResponse, error) {
	if err := s.service.Cancel(ctx, jobID); err != nil {
		return nil, err
	}
	return &dto.CancelScanResponse{
		JobID:  jobID,
		Status: string(scanDomain.StatusCancelled),
	}, nil
}

func (s *ScanService) List(ctx context.Context, status, ownerID string, limit, page int) (*dto.ListScansResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if page < 0 {
		page = 0
	}

	filter := scanDomain.JobFilters{
		Status:  scanDomain.JobStatus(status),
		OwnerID: ownerID,
	}
	jobs, total, err := s.service.List(ctx, filter, limit, page*limit)
	if err != nil {
		return nil, err
	}

	contents := make([]dto.ScanJob, 0, len(jobs))
	for _, job := range jobs {
		contents = append(contents, scanJobDomain2DTO(job))
	}
	return &dto.ListScansResponse{Contents: contents, Count: total}, nil
}

func scanJobDomain2DTO(job scanDomain.ScanJob) dto.ScanJob {
	out := dto.ScanJob{
		JobID:     job.ID,
		Status:    string(job.Status),
		Progress:  job.Progress,
		Network:   job.Network,
		Tools:     job.Tools,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
	}

	// Tool results follow the submitted tool order for stable output
	for _, name := range job.Tools {
		res, ok := job.ToolResults[name]
		if !ok {
			continue
		}
		out.ToolResults = append(out.ToolResults, dto.ToolResult{
			Tool:     res.Tool,
			Findings: findingsDomain2DTO(res.Findings),
			Error:    res.Err,
			TimedOut: res.TimedOut,
		})
	}

	if job.Result != nil {
		out.Result = &dto.Report{
			Findings: findingsDomain2DTO(job.Result.Findings),
			Summary: dto.SeveritySummary{
				High:   job.Result.Summary.High,
				Medium: job.Result.Summary.Medium,
				Low:    job.Result.Summary.Low,
				Info:   job.Result.Summary.Info,
			},
			Score: job.Result.Score,
		}
	}
	return out
}

func findingsDomain2DTO(findings []scanDomain.Finding) []dto.Finding {
	if len(findings) == 0 {
		return nil
	}
	out := make([]dto.Finding, 0, len(findings))
	for _, f := range findings {
		out = append(out, dto.Finding{
			Tool:           f.Tool,
			Severity:       string(f.Severity),
			Title:          f.Title,
			Description:    f.Description,
			FilePath:       f.FilePath,
			Line:           f.Line,
			Recommendation: f.Recommendation,
			Confidence:     f.Confidence,
			RiskScore:      f.RiskScore,
		})
	}
	return out
}
