package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// RingToPolygon builds a simplefeatures polygon from an open ring. The
// closing vertex is appended; no validation is performed.
func RingToPolygon(ring []core.PlanarPoint) geom.Polygon {
	flat := make([]float64, 0, (len(ring)+1)*2)
	for _, p := range ring {
		flat = append(flat, p.X, p.Y)
	}
	flat = append(flat, ring[0].X, ring[0].Y)
	seq := geom.NewSequence(flat, geom.DimXY)
	ls := geom.NewLineString(seq)
	return geom.NewPolygon([]geom.LineString{ls})
}
