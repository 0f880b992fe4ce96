// Package clip normalizes footprints into the canonical frame and clips
// them against the square region of interest.
package clip

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/rs/zerolog"

	"github.com/radiomesh/scenesynth/internal/geo"
	"github.com/radiomesh/scenesynth/pkg/core"
)

// Normalize translates all footprints so the combined bounding box's
// lower-left corner lands at (0, 0). The input is not mutated.
func Normalize(footprints []core.Footprint) []core.Footprint {
	if len(footprints) == 0 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, fp := range footprints {
		for _, p := range fp.Ring {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
		}
	}

	out := make([]core.Footprint, len(footprints))
	for i, fp := range footprints {
		ring := make([]core.PlanarPoint, len(fp.Ring))
		for j, p := range fp.Ring {
			ring[j] = core.PlanarPoint{X: p.X - minX, Y: p.Y - minY}
		}
		out[i] = core.Footprint{Ring: ring, Height: fp.Height, Tags: fp.Tags}
	}
	return out
}

// Clipper clips footprints against the axis-aligned square [0, Size]^2.
type Clipper struct {
	Size   float64
	Logger zerolog.Logger

	square geom.Geometry
}

// NewClipper creates a clipper for the given region size.
func NewClipper(size float64, logger zerolog.Logger) *Clipper {
	return &Clipper{
		Size:   size,
		Logger: logger,
		square: geo.RingToPolygon([]core.PlanarPoint{
			{X: 0, Y: 0}, {X: size, Y: 0}, {X: size, Y: size}, {X: 0, Y: size},
		}).AsGeometry(),
	}
}

// Clip intersects each footprint with the region square. One input may yield
// zero outputs (entirely outside), one, or several (a concave or crossing
// ring split by a clip edge). Unrepairable footprints are dropped and
// counted, never an error.
func (c *Clipper) Clip(footprints []core.Footprint) (clipped []core.ClippedFootprint, dropped int) {
	for _, fp := range footprints {
		parts, ok := c.clipOne(fp)
		if !ok {
			dropped++
			continue
		}
		if len(parts) == 0 {
			// cleanly outside the region; not a defect
			continue
		}
		clipped = append(clipped, parts...)
	}
	return clipped, dropped
}

func (c *Clipper) clipOne(fp core.Footprint) ([]core.ClippedFootprint, bool) {
	poly := geo.RingToPolygon(fp.Ring)

	g, ok := repair(poly)
	if !ok {
		c.Logger.Info().Msg("dropping unrepairable footprint ring")
		return nil, false
	}

	inter, err := geom.Intersection(g, c.square)
	if err != nil {
		c.Logger.Info().Err(err).Msg("dropping footprint: clip failed")
		return nil, false
	}

	var parts []core.ClippedFootprint
	for _, p := range polygons(inter) {
		ring := exteriorRing(p)
		if len(ring) < 3 {
			continue
		}
		parts = append(parts, core.ClippedFootprint{Ring: ring, Height: fp.Height})
	}
	return parts, true
}

// repair returns a valid areal geometry for the ring, or false if none can
// be recovered. Invalid (typically self-intersecting) rings are re-noded by
// unioning the polygon with itself, the exact-arithmetic analogue of a
// zero-width buffer.
func repair(p geom.Polygon) (geom.Geometry, bool) {
	if err := p.Validate(); err == nil {
		return p.AsGeometry(), true
	}
	u, err := geom.Union(p.AsGeometry(), p.AsGeometry())
	if err != nil {
		return geom.Geometry{}, false
	}
	if err := u.Validate(); err != nil || u.IsEmpty() {
		return geom.Geometry{}, false
	}
	if len(polygons(u)) == 0 {
		return geom.Geometry{}, false
	}
	return u, true
}

// polygons flattens a geometry into its areal components. Lower-dimensional
// pieces (boundary touches producing points or lines) are discarded.
func polygons(g geom.Geometry) []geom.Polygon {
	switch g.Type() {
	case geom.TypePolygon:
		p := g.MustAsPolygon()
		if p.IsEmpty() {
			return nil
		}
		return []geom.Polygon{p}
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		out := make([]geom.Polygon, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			p := mp.PolygonN(i)
			if !p.IsEmpty() {
				out = append(out, p)
			}
		}
		return out
	case geom.TypeGeometryCollection:
		gc := g.MustAsGeometryCollection()
		var out []geom.Polygon
		for i := 0; i < gc.NumGeometries(); i++ {
			out = append(out, polygons(gc.GeometryN(i))...)
		}
		return out
	default:
		return nil
	}
}

// exteriorRing extracts the open outer ring of a polygon, removing the
// duplicated closing vertex and any consecutive duplicates.
func exteriorRing(p geom.Polygon) []core.PlanarPoint {
	seq := p.ExteriorRing().Coordinates()
	n := seq.Length()
	if n < 4 {
		return nil
	}
	ring := make([]core.PlanarPoint, 0, n-1)
	for i := 0; i < n-1; i++ {
		xy := seq.GetXY(i)
		pt := core.PlanarPoint{X: xy.X, Y: xy.Y}
		if len(ring) > 0 && ring[len(ring)-1] == pt {
			continue
		}
		ring = append(ring, pt)
	}
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	return ring
}
