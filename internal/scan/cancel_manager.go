package scan

import (
	"context"
	"sync"

	"github.com/solguard/scan-orchestrator/pkg/logger"
)

// CancelManager tracks the cancellation functions of in-flight scan jobs
type CancelManager struct {
	activeScans map[string]context.CancelFunc
	mu          sync.Mutex
}

// NewCancelManager creates a new scan cancellation manager
func NewCancelManager() *CancelManager {
	return &CancelManager{
		activeScans: make(map[string]context.CancelFunc),
	}
}

// Register stores the cancel function for a job's execution context
func (m *CancelManager) Register(jobID string, cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activeScans[jobID] = cancel
	logger.Debug("Registered scan job %s for cancellation", jobID)
}

// Unregister removes a job from tracking without cancelling it
func (m *CancelManager) Unregister(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.activeScans, jobID)
}

// Cancel signals a running job's execution context to stop. The signal is
// best-effort: a tool run that cannot be interrupted finishes on its own and
// its result is discarded by the registry.
func (m *CancelManager) Cancel(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	cancel, exists := m.activeScans[jobID]
	if !exists {
		return false
	}

	cancel()
	delete(m.activeScans, jobID)
	logger.Debug("Cancelled scan job %s", jobID)

	return true
}

// HasActive checks if a job's execution is currently tracked
func (m *CancelManager) HasActive(jobID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.activeScans[jobID]
	return exists
}
