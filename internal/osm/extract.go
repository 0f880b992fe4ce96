package osm

import (
	"github.com/rs/zerolog"

	"github.com/radiomesh/scenesynth/internal/geo"
	"github.com/radiomesh/scenesynth/pkg/core"
)

// Extractor scans a decoded map for closed building polygons and projects
// them into planar footprints.
type Extractor struct {
	Projector geo.Projector
	Heights   HeightResolver
	Logger    zerolog.Logger
}

// Extract returns the accepted footprints in way insertion order. A way is
// accepted only if it is tagged as a building, topologically closed, and has
// at least 3 refs resolving to valid geographic positions. Rejects are
// skipped silently (debug logged), never an error. Overlapping polygons are
// not deduplicated.
func (e *Extractor) Extract(m *Map) []core.Footprint {
	footprints := make([]core.Footprint, 0, len(m.Ways))
	for _, w := range m.Ways {
		if _, ok := w.Tags["building"]; !ok {
			continue
		}
		if !w.Closed() {
			e.Logger.Debug().Int64("way", w.ID).Msg("skipping unclosed building way")
			continue
		}

		// Drop the duplicated closing ref; the ring is stored open.
		refs := w.Refs[:len(w.Refs)-1]
		ring := make([]core.PlanarPoint, 0, len(refs))
		for _, ref := range refs {
			p, ok := m.Nodes[ref]
			if !ok || !p.Valid() {
				continue
			}
			ring = append(ring, e.Projector.Project(p.Lat, p.Lon))
		}
		if len(ring) < 3 {
			e.Logger.Debug().Int64("way", w.ID).Int("resolved", len(ring)).
				Msg("skipping building way with fewer than 3 resolved points")
			continue
		}

		footprints = append(footprints, core.Footprint{
			Ring:   ring,
			Height: e.Heights.Resolve(w.Tags),
			Tags:   w.Tags,
		})
	}
	return footprints
}
