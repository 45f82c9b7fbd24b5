package analyzer

import (
	"sort"
	"sync"

	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
)

// Registry maps tool names to their runners. Registration happens during
// startup; lookups happen concurrently from scan workers.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]scanPort.ToolRunner
}

func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]scanPort.ToolRunner)}
}

// NewDefaultRegistry wires the built-in pattern analyzer together with the
// standard external tool wrappers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPatternRunner())
	r.Register(NewCLIRunner("slither", "slither", "{target}", "--json", "-"))
	r.Register(NewCLIRunner("mythril", "myth", "analyze", "{target}", "-o", "json"))
	return r
}

func (r *Registry) Register(runner scanPort.ToolRunner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[runner.Name()] = runner
}

func (r *Registry) Resolve(name string) (scanPort.ToolRunner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runner, ok := r.runners[name]
	return runner, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ scanPort.ToolResolver = (*Registry)(nil)
