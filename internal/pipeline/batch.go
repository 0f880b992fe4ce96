package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/radiomesh/scenesynth/internal/storage"
	"github.com/radiomesh/scenesynth/pkg/core"
)

// Metrics is the optional per-area metrics sink.
type Metrics interface {
	RecordArea(r *core.AreaReport) error
}

// Runner processes every area in an input directory, best effort: one bad
// area never stops the batch.
type Runner struct {
	Synth   *Synthesizer
	Backend storage.Backend
	Metrics Metrics // nil when metrics are disabled
	Logger  zerolog.Logger
}

// Run synthesizes every *.osm file under inputDir in name order. It fails
// only when there are no inputs or every area fails outright; empty areas
// are recorded and skipped.
func (r *Runner) Run(ctx context.Context, inputDir string) error {
	paths, err := filepath.Glob(filepath.Join(inputDir, "*.osm"))
	if err != nil {
		return fmt.Errorf("failed to list inputs: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .osm inputs in %s", inputDir)
	}
	sort.Strings(paths)

	var processed, failed int
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		report, err := r.runOne(name, path)
		switch {
		case err == nil || errors.Is(err, ErrNoGeometry):
			processed++
		default:
			failed++
			r.Logger.Error().Err(err).Str("area", name).Msg("area synthesis failed")
			report = &core.AreaReport{
				Area:        name,
				Status:      core.AreaStatusFailed,
				Error:       err.Error(),
				ProcessedAt: time.Now(),
			}
		}

		if err := r.Backend.RecordArea(report); err != nil {
			r.Logger.Error().Err(err).Str("area", name).Msg("failed to record area report")
		}
		if r.Metrics != nil {
			if err := r.Metrics.RecordArea(report); err != nil {
				r.Logger.Warn().Err(err).Str("area", name).Msg("failed to record area metrics")
			}
		}
	}

	if err := r.Backend.Export(); err != nil {
		return fmt.Errorf("failed to export run ledger: %w", err)
	}
	if exp, ok := r.Backend.(storage.Exportable); ok {
		if path := exp.GetExportedFilePath(); path != "" {
			r.Logger.Info().Str("path", path).Msg("exported run ledger")
		}
	}

	if processed == 0 {
		return fmt.Errorf("all %d areas failed", failed)
	}
	r.Logger.Info().Int("processed", processed).Int("failed", failed).Msg("batch complete")
	return nil
}

func (r *Runner) runOne(name, path string) (*core.AreaReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return r.Synth.SynthesizeArea(name, f)
}
