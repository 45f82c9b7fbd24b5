package scan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solguard/scan-orchestrator/internal/scan"
)

func TestCancelManager_RegisterAndCancel(t *testing.T) {
	m := scan.NewCancelManager()

	ctx, cancel := context.WithCancel(context.Background())
	m.Register("job-1", cancel)
	assert.True(t, m.HasActive("job-1"))

	assert.True(t, m.Cancel("job-1"))
	assert.Error(t, ctx.Err())
	assert.False(t, m.HasActive("job-1"))

	// Second cancel finds nothing
	assert.False(t, m.Cancel("job-1"))
}

func TestCancelManager_UnregisterDoesNotCancel(t *testing.T) {
	m := scan.NewCancelManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Register("job-1", cancel)
	m.Unregister("job-1")

	assert.False(t, m.HasActive("job-1"))
	assert.NoError(t, ctx.Err())
	assert.False(t, m.Cancel("job-1"))
}

func TestCancelManager_UnknownJob(t *testing.T) {
	m := scan.NewCancelManager()

	assert.False(t, m.HasActive("missing"))
	assert.False(t, m.Cancel("missing"))
}
