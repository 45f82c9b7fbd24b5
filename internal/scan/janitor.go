package scan

import (
	"sync"
	"time"

	"github.com/solguard/scan-orchestrator/config"
	"github.com/solguard/scan-orchestrator/pkg/logger"
)

// Janitor periodically evicts terminal jobs that have aged past the
// retention window, keeping the in-memory registry bounded. Evicted jobs
// stay readable through the history repo.
type Janitor struct {
	registry  *Registry
	interval  time.Duration
	retention time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

func NewJanitor(registry *Registry, cfg config.ScanConfig) *Janitor {
	cfg = cfg.WithDefaults()
	return &Janitor{
		registry:  registry,
		interval:  time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
		retention: time.Duration(cfg.RetentionMinutes) * time.Minute,
		stopChan:  make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		logger.Info("registry janitor started with interval: %v, retention: %v", j.interval, j.retention)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.sweep()
			case <-j.stopChan:
				logger.Info("registry janitor stopped")
				return
			}
		}
	}()
}

func (j *Janitor) Stop() {
	close(j.stopChan)
	j.wg.Wait()
}

func (j *Janitor) sweep() {
	evicted := j.registry.SweepTerminal(time.Now().Add(-j.retention))
	if len(evicted) == 0 {
		return
	}
	logger.InfoWithFields("evicted terminal scan jobs", map[string]interface{}{
		"count":     len(evicted),
		"remaining": j.registry.Len(),
	})
}
