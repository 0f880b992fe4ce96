// Package mask rasterizes clipped footprints into the binary occupancy grid
// the compositor overlays, and reads/writes its PNG form.
package mask

import (
	"math"

	"github.com/dhconnelly/rtreego"
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/radiomesh/scenesynth/internal/geo"
	"github.com/radiomesh/scenesynth/pkg/core"
)

const (
	minChildren = 25
	maxChildren = 50
	dimensions  = 2

	// floor for degenerate bounding rect extents; rtreego requires
	// positive lengths
	minExtent = 1e-9
)

// spatialFootprint wraps one clipped polygon for R-tree indexing.
type spatialFootprint struct {
	poly geom.Geometry
	rect *rtreego.Rect
}

func (s *spatialFootprint) Bounds() *rtreego.Rect { return s.rect }

// Rasterize marks every cell of an size x size grid whose center lies inside
// (or on the boundary of) any clipped footprint. Cells are 1 m squares; row 0
// is the northern edge (y = size), matching the orientation of the rendered
// map images. Footprints are indexed in an R-tree so each cell only tests
// the candidates whose bounds overlap it.
func Rasterize(footprints []core.ClippedFootprint, size int) *core.OccupancyMask {
	m := core.NewOccupancyMask(size, size)
	if len(footprints) == 0 {
		return m
	}

	tree := rtreego.NewTree(dimensions, minChildren, maxChildren)
	for _, fp := range footprints {
		sp, ok := makeSpatial(fp)
		if !ok {
			continue
		}
		tree.Insert(sp)
	}

	for row := 0; row < size; row++ {
		y := float64(size) - (float64(row) + 0.5)
		for col := 0; col < size; col++ {
			x := float64(col) + 0.5

			cell, err := rtreego.NewRect(rtreego.Point{x, y}, []float64{minExtent, minExtent})
			if err != nil {
				continue
			}
			candidates := tree.SearchIntersect(cell)
			if len(candidates) == 0 {
				continue
			}

			pt := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}}).AsGeometry()
			for _, c := range candidates {
				if geom.Intersects(c.(*spatialFootprint).poly, pt) {
					m.Set(row, col, true)
					break
				}
			}
		}
	}
	return m
}

func makeSpatial(fp core.ClippedFootprint) (*spatialFootprint, bool) {
	if len(fp.Ring) < 3 {
		return nil, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range fp.Ring {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	rect, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{math.Max(maxX-minX, minExtent), math.Max(maxY-minY, minExtent)},
	)
	if err != nil {
		return nil, false
	}
	return &spatialFootprint{
		poly: geo.RingToPolygon(fp.Ring).AsGeometry(),
		rect: rect,
	}, true
}
