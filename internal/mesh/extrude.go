// Package mesh builds closed triangular meshes from clipped footprints and
// assembles them into scene-level assets.
package mesh

import (
	"github.com/radiomesh/scenesynth/pkg/core"
)

// signedArea is the shoelace area of an open ring; positive means
// counter-clockwise winding.
func signedArea(ring []core.PlanarPoint) float64 {
	var area float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return area / 2
}

// ccw returns the ring in counter-clockwise order, reversing if needed, so
// cap and wall winding rules below always face outward.
func ccw(ring []core.PlanarPoint) []core.PlanarPoint {
	if signedArea(ring) >= 0 {
		return ring
	}
	out := make([]core.PlanarPoint, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

// Extrude converts an N-vertex ring and a height into a closed triangular
// mesh: N floor vertices at z=0 (indices 0..N-1), N roof vertices at z=h
// (indices N..2N-1), fan-triangulated caps and two wall triangles per edge.
// The result has 2N vertices and 2(N-2)+2N faces, every edge shared by
// exactly two faces.
//
// N >= 3 is a precondition. Degenerate (collinear or zero-area) rings are
// accepted and yield a zero-volume mesh.
func Extrude(ring []core.PlanarPoint, height float64) *core.Mesh {
	ring = ccw(ring)
	n := len(ring)

	m := &core.Mesh{
		Vertices: make([]core.Vertex3, 0, 2*n),
		Faces:    make([]core.Face, 0, 2*(n-2)+2*n),
	}
	for _, p := range ring {
		m.Vertices = append(m.Vertices, core.Vertex3{X: p.X, Y: p.Y, Z: 0})
	}
	for _, p := range ring {
		m.Vertices = append(m.Vertices, core.Vertex3{X: p.X, Y: p.Y, Z: height})
	}

	// floor cap: reversed fan so the outward normal points down (-z)
	for i := 1; i < n-1; i++ {
		m.Faces = append(m.Faces, core.Face{0, i + 1, i})
	}
	// roof cap: fan with the ring winding, outward normal up (+z)
	for i := 1; i < n-1; i++ {
		m.Faces = append(m.Faces, core.Face{n, n + i, n + i + 1})
	}
	// side walls: quad per edge, split into two consistently wound triangles
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.Faces = append(m.Faces,
			core.Face{i, j, n + j},
			core.Face{i, n + j, n + i},
		)
	}
	return m
}
