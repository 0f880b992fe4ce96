package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// RunExport is the root JSON structure of the run ledger.
type RunExport struct {
	StartedAt  time.Time         `json:"startedAt"`
	ExportedAt time.Time         `json:"exportedAt"`
	AreasTotal int               `json:"areasTotal"`
	AreasOK    int               `json:"areasOk"`
	Areas      []core.AreaReport `json:"areas"`
}

// exportJSON writes the run ledger to a (optionally gzipped) JSON file.
// Caller holds the lock.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	timestamp := b.start.Format("20060102_150405")
	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("run_%s.json.gz", timestamp)
	} else {
		filename = fmt.Sprintf("run_%s.json", timestamp)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() RunExport {
	export := RunExport{
		StartedAt:  b.start,
		ExportedAt: time.Now(),
		AreasTotal: len(b.reports),
		Areas:      make([]core.AreaReport, len(b.reports)),
	}
	copy(export.Areas, b.reports)

	for _, r := range b.reports {
		if r.Status == core.AreaStatusOK {
			export.AreasOK++
		}
	}
	return export
}

func (b *Backend) writeJSON(path string, export RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func (b *Backend) writeGzipJSON(path string, export RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(export); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return gz.Close()
}
