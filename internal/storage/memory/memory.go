// Package memory stores run reports in memory and exports them to JSON.
package memory

import (
	"sync"
	"time"

	"github.com/radiomesh/scenesynth/internal/config"
	"github.com/radiomesh/scenesynth/pkg/core"
)

// Backend accumulates area reports and exports a run ledger on Export.
type Backend struct {
	cfg   config.MemoryConfig
	start time.Time

	reports []core.AreaReport

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.start = time.Now()
	b.reports = nil
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// RecordArea appends one area's report to the run ledger.
func (b *Backend) RecordArea(r *core.AreaReport) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reports = append(b.reports, *r)
	return nil
}

// Export writes the accumulated ledger to a JSON file.
func (b *Backend) Export() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.exportJSON()
}

// GetExportedFilePath returns the path of the last exported ledger.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.lastExportPath
}

// Reports returns a copy of the recorded reports.
func (b *Backend) Reports() []core.AreaReport {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.AreaReport, len(b.reports))
	copy(out, b.reports)
	return out
}
