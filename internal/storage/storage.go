// Package storage persists per-area synthesis reports for a run.
package storage

import "github.com/radiomesh/scenesynth/pkg/core"

// Backend is the interface all report storage implementations satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Report recording
	RecordArea(r *core.AreaReport) error

	// Export finalizes the run ledger (flush to file or database).
	Export() error
}

// Exportable is an optional interface for backends that produce a run
// ledger file.
type Exportable interface {
	GetExportedFilePath() string
}
