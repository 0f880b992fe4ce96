// Package pipeline drives the per-area synthesis: vector input to solver
// scene plus occupancy mask, and the batch loop over a directory of areas.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/radiomesh/scenesynth/internal/clip"
	"github.com/radiomesh/scenesynth/internal/geo"
	"github.com/radiomesh/scenesynth/internal/mask"
	"github.com/radiomesh/scenesynth/internal/mesh"
	"github.com/radiomesh/scenesynth/internal/osm"
	"github.com/radiomesh/scenesynth/internal/scene"
	"github.com/radiomesh/scenesynth/pkg/core"
)

// ErrNoGeometry marks an area with no usable building geometry inside the
// region. Nothing is written for such an area.
var ErrNoGeometry = errors.New("no building geometry inside region")

// Options holds the knobs for one synthesis run.
type Options struct {
	RegionSize     float64
	ProjectionMode string
	HeightDefault  float64
	HeightFloor    float64
	GroundZ        float64
	OutputDir      string
	Workers        int
}

// Synthesizer converts one vector input into scene artifacts.
type Synthesizer struct {
	Opts   Options
	Logger zerolog.Logger
}

// SynthesizeArea runs the full chain for one area: parse, project, clip,
// extrude, and write the ground/building meshes, scene document, and
// occupancy mask. name is the area's basename; artifacts are written to
// Opts.OutputDir under it. Returns ErrNoGeometry when nothing survives
// clipping; no artifacts are written in that case.
func (s *Synthesizer) SynthesizeArea(name string, r io.Reader) (*core.AreaReport, error) {
	started := time.Now()
	report := &core.AreaReport{
		Area:        name,
		ProcessedAt: started,
	}

	m, err := osm.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	origin, ok := m.FirstValidLocation()
	if !ok {
		report.Status = core.AreaStatusEmpty
		report.Duration = time.Since(started)
		return report, ErrNoGeometry
	}

	proj, err := geo.New(s.Opts.ProjectionMode, origin)
	if err != nil {
		return nil, err
	}

	extractor := &osm.Extractor{
		Projector: proj,
		Heights: osm.HeightResolver{
			FloorHeight:   s.Opts.HeightFloor,
			DefaultHeight: s.Opts.HeightDefault,
		},
		Logger: s.Logger,
	}
	footprints := extractor.Extract(m)
	report.FootprintsTotal = len(footprints)

	clipper := clip.NewClipper(s.Opts.RegionSize, s.Logger)
	clipped, dropped := clipper.Clip(clip.Normalize(footprints))
	report.FootprintsClipped = len(clipped)
	report.FootprintsDropped = dropped

	if len(clipped) == 0 {
		report.Status = core.AreaStatusEmpty
		report.Duration = time.Since(started)
		s.Logger.Warn().Str("area", name).Msg("no geometry inside region, skipping")
		return report, ErrNoGeometry
	}

	building := mesh.Merge(s.extrudeAll(clipped))
	ground := mesh.GroundPlane(s.Opts.RegionSize, s.Opts.GroundZ)
	report.BuildingVertices = building.VertexCount()
	report.BuildingFaces = building.FaceCount()

	artifacts, err := s.writeArtifacts(name, ground, building, clipped)
	if err != nil {
		return nil, err
	}
	report.Artifacts = artifacts
	report.Status = core.AreaStatusOK
	report.Duration = time.Since(started)

	s.Logger.Info().
		Str("area", name).
		Int("footprints", report.FootprintsClipped).
		Int("dropped", report.FootprintsDropped).
		Int("faces", report.BuildingFaces).
		Dur("duration", report.Duration).
		Msg("synthesized area")
	return report, nil
}

// extrudeAll extrudes footprints concurrently, keeping input order so the
// merged mesh is deterministic.
func (s *Synthesizer) extrudeAll(clipped []core.ClippedFootprint) []*core.Mesh {
	workers := s.Opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	meshes := make([]*core.Mesh, len(clipped))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, fp := range clipped {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, fp core.ClippedFootprint) {
			defer wg.Done()
			defer func() { <-sem }()
			meshes[i] = mesh.Extrude(fp.Ring, fp.Height)
		}(i, fp)
	}
	wg.Wait()
	return meshes
}

func (s *Synthesizer) writeArtifacts(name string, ground, building *core.Mesh, clipped []core.ClippedFootprint) (map[string]string, error) {
	meshDir := filepath.Join(s.Opts.OutputDir, "meshes")
	if err := os.MkdirAll(meshDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	groundPath := filepath.Join(meshDir, name+"_ground.ply")
	buildingPath := filepath.Join(meshDir, name+"_buildings.ply")
	scenePath := filepath.Join(s.Opts.OutputDir, name+".xml")
	maskPath := filepath.Join(s.Opts.OutputDir, name+"_mask.png")

	if err := scene.WritePLYFile(groundPath, ground); err != nil {
		return nil, err
	}
	if err := scene.WritePLYFile(buildingPath, building); err != nil {
		return nil, err
	}

	// the scene references its meshes relative to itself so the bundle
	// relocates
	doc := scene.NewDocument(
		filepath.Join("meshes", filepath.Base(groundPath)),
		filepath.Join("meshes", filepath.Base(buildingPath)),
	)
	if err := scene.WriteDocumentFile(scenePath, doc); err != nil {
		return nil, err
	}

	occupancy := mask.Rasterize(clipped, int(s.Opts.RegionSize))
	if err := mask.SavePNG(maskPath, occupancy); err != nil {
		return nil, err
	}

	return map[string]string{
		"ground":    groundPath,
		"buildings": buildingPath,
		"scene":     scenePath,
		"mask":      maskPath,
	}, nil
}
