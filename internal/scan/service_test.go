package scan_test

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solguard/scan-orchestrator/config"
	"github.com/solguard/scan-orchestrator/internal/scan"
	"github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
	domainFixtures "github.com/solguard/scan-orchestrator/tests/fixtures/domain"
	repoMocks "github.com/solguard/scan-orchestrator/tests/mocks/repo"
)

const eventuallyTimeout = 3 * time.Second

type stubRunner struct {
	name string
	run  func(ctx context.Context, src domain.Source) ([]domain.Finding, error)
}

func (s stubRunner) Name() string { return s.name }

func (s stubRunner) Run(ctx context.Context, src domain.Source) ([]domain.Finding, error) {
	return s.run(ctx, src)
}

type stubResolver map[string]scanPort.ToolRunner

func (r stubResolver) Resolve(name string) (scanPort.ToolRunner, bool) {
	runner, ok := r[name]
	return runner, ok
}

func (r stubResolver) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func findingRunner(name string, findings ...domain.Finding) stubRunner {
	return stubRunner{name: name, run: func(ctx context.Context, src domain.Source) ([]domain.Finding, error) {
		return findings, nil
	}}
}

func failingRunner(name string, err error) stubRunner {
	return stubRunner{name: name, run: func(ctx context.Context, src domain.Source) ([]domain.Finding, error) {
		return nil, err
	}}
}

func blockingRunner(name string, started chan<- struct{}) stubRunner {
	return stubRunner{name: name, run: func(ctx context.Context, src domain.Source) ([]domain.Finding, error) {
		if started != nil {
			started <- struct{}{}
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}}
}

func newTestService(registry *scan.Registry, tools stubResolver) scanPort.Service {
	return scan.NewScanService(registry, tools, nil, nil, config.ScanConfig{})
}

func waitForStatus(t *testing.T, svc scanPort.Service, jobID string, want domain.JobStatus) *domain.ScanJob {
	t.Helper()
	var snap *domain.ScanJob
	require.Eventually(t, func() bool {
		job, err := svc.Status(context.Background(), jobID)
		if err != nil {
			return false
		}
		snap = job
		return job.Status == want
	}, eventuallyTimeout, 10*time.Millisecond)
	return snap
}

func TestScanService_Submit_Validation(t *testing.T) {
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slither": findingRunner("slither"),
	})

	tests := []struct {
		name string
		req  scanPort.SubmitRequest
		want error
	}{
		{
			name: "empty source",
			req:  scanPort.SubmitRequest{Tools: []string{"slither"}},
			want: scan.ErrInvalidScanInput,
		},
		{
			name: "empty tool list",
			req:  scanPort.SubmitRequest{Source: domainFixtures.NewTestSource("")},
			want: scan.ErrInvalidScanInput,
		},
		{
			name: "unknown tool",
			req: scanPort.SubmitRequest{
				Source: domainFixtures.NewTestSource(""),
				Tools:  []string{"slither", "nosuchtool"},
			},
			want: scan.ErrUnknownTool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobID, err := svc.Submit(context.Background(), tt.req)
			assert.Empty(t, jobID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestScanService_SubmitReturnsBeforeCompletion(t *testing.T) {
	started := make(chan struct{}, 1)
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slow": blockingRunner("slow", started),
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"slow"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	// The job is visible immediately, before any tool ran to completion
	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)
	assert.Contains(t, []domain.JobStatus{domain.StatusPending, domain.StatusRunning}, job.Status)

	<-started
	require.NoError(t, svc.Cancel(context.Background(), jobID))
}

func TestScanService_CompletesWithMergedReport(t *testing.T) {
	reentrancy := domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy in withdraw()", 42)
	timestamp := domainFixtures.NewTestFinding("mythril", domain.SeverityMedium, "Timestamp dependence", 7)

	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slither": findingRunner("slither", reentrancy),
		"mythril": findingRunner("mythril", timestamp),
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"slither", "mythril"},
	})
	require.NoError(t, err)

	job := waitForStatus(t, svc, jobID, domain.StatusCompleted)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.Result)
	assert.Len(t, job.Result.Findings, 2)
	assert.Equal(t, 1, job.Result.Summary.High)
	assert.Equal(t, 1, job.Result.Summary.Medium)
	assert.Equal(t, 70, job.Result.Score)
	assert.Len(t, job.ToolResults, 2)
}

func TestScanService_PartialToolFailureStillCompletes(t *testing.T) {
	finding := domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy", 42)

	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slither": findingRunner("slither", finding),
		"mythril": failingRunner("mythril", context.DeadlineExceeded),
		"pattern": findingRunner("pattern"),
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"slither", "mythril", "pattern"},
	})
	require.NoError(t, err)

	job := waitForStatus(t, svc, jobID, domain.StatusCompleted)
	require.NotNil(t, job.Result)
	assert.Len(t, job.Result.Findings, 1)

	mythril := job.ToolResults["mythril"]
	assert.True(t, mythril.Failed())
	assert.True(t, mythril.TimedOut)
	assert.Empty(t, job.Error)
}

func TestScanService_AllToolsFailedFailsJob(t *testing.T) {
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slither": failingRunner("slither", errors.New("binary not found")),
		"mythril": failingRunner("mythril", errors.New("crashed")),
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"slither", "mythril"},
	})
	require.NoError(t, err)

	job := waitForStatus(t, svc, jobID, domain.StatusFailed)
	assert.Nil(t, job.Result)
	assert.Contains(t, job.Error, "failed")
}

func TestScanService_PanickingToolFailsJob(t *testing.T) {
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"boom": stubRunner{name: "boom", run: func(ctx context.Context, src domain.Source) ([]domain.Finding, error) {
			panic("tool exploded")
		}},
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"boom"},
	})
	require.NoError(t, err)

	job := waitForStatus(t, svc, jobID, domain.StatusFailed)
	assert.NotEmpty(t, job.Error)
}

func TestScanService_StagedSourceRemovedWhenJobFinishes(t *testing.T) {
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slither": findingRunner("slither"),
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"slither"},
	})
	require.NoError(t, err)

	// An in-memory source is staged to a job-owned file
	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)
	require.True(t, job.Source.Ephemeral)
	require.NotEmpty(t, job.Source.Path)

	waitForStatus(t, svc, jobID, domain.StatusCompleted)
	require.Eventually(t, func() bool {
		_, statErr := os.Stat(job.Source.Path)
		return os.IsNotExist(statErr)
	}, eventuallyTimeout, 10*time.Millisecond)
}

func TestScanService_CancelRunningJob(t *testing.T) {
	started := make(chan struct{}, 1)
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slow": blockingRunner("slow", started),
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"slow"},
	})
	require.NoError(t, err)
	<-started

	require.NoError(t, svc.Cancel(context.Background(), jobID))

	// Status flips immediately, without waiting for the tool to unwind
	job, err := svc.Status(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, job.Status)

	// The late finisher's result never lands
	time.Sleep(50 * time.Millisecond)
	job, err = svc.Status(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, job.Status)
	assert.Empty(t, job.ToolResults)
	assert.Nil(t, job.Result)
}

func TestScanService_CancelIsIdempotentButReported(t *testing.T) {
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slither": findingRunner("slither"),
	})

	jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
		Source: domainFixtures.NewTestSource(""),
		Tools:  []string{"slither"},
	})
	require.NoError(t, err)

	waitForStatus(t, svc, jobID, domain.StatusCompleted)
	assert.ErrorIs(t, svc.Cancel(context.Background(), jobID), scan.ErrAlreadyTerminal)

	assert.ErrorIs(t, svc.Cancel(context.Background(), "missing"), scan.ErrJobNotFound)
}

func TestScanService_StatusFallsBackToHistory(t *testing.T) {
	archived := &domain.ScanJob{
		ID:     "evicted-job",
		Status: domain.StatusCompleted,
		Result: &domain.Report{Score: 90},
	}

	mockRepo := new(repoMocks.MockScanJobRepo)
	mockRepo.On("GetByID", mock.Anything, "evicted-job").Return(archived, nil)
	mockRepo.On("GetByID", mock.Anything, "never-existed").Return(nil, nil)

	svc := scan.NewScanService(scan.NewRegistry(), stubResolver{}, nil, mockRepo, config.ScanConfig{})

	job, err := svc.Status(context.Background(), "evicted-job")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 90, job.Result.Score)

	_, err = svc.Status(context.Background(), "never-existed")
	assert.ErrorIs(t, err, scan.ErrJobNotFound)
}

func TestScanService_ListFiltersByStatus(t *testing.T) {
	svc := newTestService(scan.NewRegistry(), stubResolver{
		"slither": findingRunner("slither"),
	})

	var ids []string
	for i := 0; i < 3; i++ {
		jobID, err := svc.Submit(context.Background(), scanPort.SubmitRequest{
			Source: domainFixtures.NewTestSource(""),
			Tools:  []string{"slither"},
		})
		require.NoError(t, err)
		ids = append(ids, jobID)
	}

	for _, id := range ids {
		waitForStatus(t, svc, id, domain.StatusCompleted)
	}

	jobs, total, err := svc.List(context.Background(), domain.JobFilters{Status: domain.StatusCompleted}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, jobs, 3)

	jobs, total, err = svc.List(context.Background(), domain.JobFilters{Status: domain.StatusRunning}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, jobs)
}
