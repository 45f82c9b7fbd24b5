package scan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solguard/scan-orchestrator/internal/scan"
	"github.com/solguard/scan-orchestrator/internal/scan/domain"
	domainFixtures "github.com/solguard/scan-orchestrator/tests/fixtures/domain"
)

func newPendingJob(id string, tools ...string) domain.ScanJob {
	now := time.Now()
	return domain.ScanJob{
		ID:        id,
		Source:    domainFixtures.NewTestSource(""),
		Tools:     tools,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRegistry_PutAndSnapshot(t *testing.T) {
	r := scan.NewRegistry()

	require.NoError(t, r.Put(newPendingJob("job-1", "slither")))

	snap, err := r.Snapshot("job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, snap.Status)
	assert.Equal(t, 0, snap.Progress)

	_, err = r.Snapshot("missing")
	assert.ErrorIs(t, err, scan.ErrJobNotFound)
}

func TestRegistry_Put_RejectsDuplicateID(t *testing.T) {
	r := scan.NewRegistry()

	require.NoError(t, r.Put(newPendingJob("job-1", "slither")))
	assert.ErrorIs(t, r.Put(newPendingJob("job-1", "slither")), scan.ErrDuplicateJobID)
}

func TestRegistry_SnapshotIsIsolated(t *testing.T) {
	r := scan.NewRegistry()
	require.NoError(t, r.Put(newPendingJob("job-1", "slither")))

	snap, err := r.Snapshot("job-1")
	require.NoError(t, err)
	snap.Status = domain.StatusFailed
	snap.Tools[0] = "changed"

	fresh, err := r.Snapshot("job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fresh.Status)
	assert.Equal(t, "slither", fresh.Tools[0])
}

func TestRegistry_ProgressGrowsMonotonically(t *testing.T) {
	r := scan.NewRegistry()
	require.NoError(t, r.Put(newPendingJob("job-1", "a", "b", "c")))
	require.True(t, r.MarkRunning("job-1"))

	require.True(t, r.RecordToolResult("job-1", domainFixtures.NewTestToolResult("a")))
	snap, _ := r.Snapshot("job-1")
	assert.Equal(t, 33, snap.Progress)

	require.True(t, r.RecordToolResult("job-1", domainFixtures.NewTestToolResult("b")))
	snap, _ = r.Snapshot("job-1")
	assert.Equal(t, 66, snap.Progress)

	// A rewritten result for the same tool never lowers progress
	require.True(t, r.RecordToolResult("job-1", domainFixtures.NewTestToolResult("b")))
	snap, _ = r.Snapshot("job-1")
	assert.Equal(t, 66, snap.Progress)

	require.True(t, r.RecordToolResult("job-1", domainFixtures.NewTestToolResult("c")))
	snap, _ = r.Snapshot("job-1")
	assert.Equal(t, 100, snap.Progress)
}

func TestRegistry_CompleteSetsTerminalState(t *testing.T) {
	r := scan.NewRegistry()
	require.NoError(t, r.Put(newPendingJob("job-1", "a")))
	require.True(t, r.MarkRunning("job-1"))

	require.True(t, r.Complete("job-1", &domain.Report{Score: 100}))

	snap, err := r.Snapshot("job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, snap.Status)
	assert.Equal(t, 100, snap.Progress)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 100, snap.Result.Score)
}

func TestRegistry_TerminalStatesAreImmutable(t *testing.T) {
	r := scan.NewRegistry()
	require.NoError(t, r.Put(newPendingJob("job-1", "a")))
	require.True(t, r.MarkRunning("job-1"))
	require.True(t, r.Complete("job-1", &domain.Report{Score: 80}))

	assert.False(t, r.MarkRunning("job-1"))
	assert.False(t, r.Fail("job-1", "late failure"))
	assert.False(t, r.Complete("job-1", &domain.Report{Score: 10}))
	assert.False(t, r.RecordToolResult("job-1", domainFixtures.NewTestToolResult("a")))

	snap, err := r.Snapshot("job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, snap.Status)
	assert.Equal(t, 80, snap.Result.Score)
	assert.Empty(t, snap.Error)
}

func TestRegistry_CancelJob(t *testing.T) {
	r := scan.NewRegistry()
	require.NoError(t, r.Put(newPendingJob("job-1", "a")))

	// Cancelling a pending job works without it ever running
	require.NoError(t, r.CancelJob("job-1"))
	snap, _ := r.Snapshot("job-1")
	assert.Equal(t, domain.StatusCancelled, snap.Status)

	// Second cancel reports the terminal state
	assert.ErrorIs(t, r.CancelJob("job-1"), scan.ErrAlreadyTerminal)

	assert.ErrorIs(t, r.CancelJob("missing"), scan.ErrJobNotFound)
}

func TestRegistry_LateResultsAfterCancelAreDiscarded(t *testing.T) {
	r := scan.NewRegistry()
	require.NoError(t, r.Put(newPendingJob("job-1", "a", "b")))
	require.True(t, r.MarkRunning("job-1"))
	require.NoError(t, r.CancelJob("job-1"))

	assert.False(t, r.RecordToolResult("job-1", domainFixtures.NewTestToolResult("a")))

	snap, _ := r.Snapshot("job-1")
	assert.Empty(t, snap.ToolResults)
	assert.Equal(t, domain.StatusCancelled, snap.Status)
}

func TestRegistry_List(t *testing.T) {
	r := scan.NewRegistry()

	base := time.Now()
	for i, id := range []string{"job-1", "job-2", "job-3"} {
		job := newPendingJob(id, "a")
		job.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, r.Put(job))
	}
	require.True(t, r.MarkRunning("job-2"))

	jobs, total := r.List(domain.JobFilters{}, 10, 0)
	assert.Equal(t, 3, total)
	require.Len(t, jobs, 3)
	// Newest first
	assert.Equal(t, "job-3", jobs[0].ID)
	assert.Equal(t, "job-1", jobs[2].ID)

	running, total := r.List(domain.JobFilters{Status: domain.StatusRunning}, 10, 0)
	assert.Equal(t, 1, total)
	require.Len(t, running, 1)
	assert.Equal(t, "job-2", running[0].ID)

	paged, total := r.List(domain.JobFilters{}, 2, 2)
	assert.Equal(t, 3, total)
	require.Len(t, paged, 1)
	assert.Equal(t, "job-1", paged[0].ID)
}

func TestRegistry_SweepTerminal(t *testing.T) {
	r := scan.NewRegistry()

	require.NoError(t, r.Put(newPendingJob("old-done", "a")))
	require.True(t, r.MarkRunning("old-done"))
	require.True(t, r.Complete("old-done", &domain.Report{Score: 100}))

	require.NoError(t, r.Put(newPendingJob("still-running", "a")))
	require.True(t, r.MarkRunning("still-running"))

	// Cutoff in the future: every terminal job is older than it
	evicted := r.SweepTerminal(time.Now().Add(time.Minute))
	require.Len(t, evicted, 1)
	assert.Equal(t, "old-done", evicted[0].ID)

	_, err := r.Snapshot("old-done")
	assert.ErrorIs(t, err, scan.ErrJobNotFound)

	// Non-terminal jobs survive regardless of age
	_, err = r.Snapshot("still-running")
	assert.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}
