package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// edgeUses counts how many faces use each undirected edge.
func edgeUses(m *core.Mesh) map[[2]int]int {
	uses := make(map[[2]int]int)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			uses[[2]int{a, b}]++
		}
	}
	return uses
}

func TestExtrude_UnitSquare(t *testing.T) {
	// Scenario: unit square, height 10 -> 8 vertices, 12 faces.
	ring := []core.PlanarPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	m := Extrude(ring, 10)

	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())

	// floor at z=0, roof at z=10, same ring order
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0.0, m.Vertices[i].Z)
		assert.Equal(t, 10.0, m.Vertices[4+i].Z)
		assert.Equal(t, m.Vertices[i].X, m.Vertices[4+i].X)
		assert.Equal(t, m.Vertices[i].Y, m.Vertices[4+i].Y)
	}
}

func TestExtrude_CountsAndClosedness(t *testing.T) {
	rings := map[string][]core.PlanarPoint{
		"triangle": {{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}},
		"square":   {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		"pentagon": {{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 5, Y: 3}, {X: 2, Y: 5}, {X: -1, Y: 3}},
		"concave": {
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 2, Y: 1}, {X: 0, Y: 4},
		},
	}
	for name, ring := range rings {
		t.Run(name, func(t *testing.T) {
			n := len(ring)
			m := Extrude(ring, 5)

			assert.Equal(t, 2*n, m.VertexCount())
			assert.Equal(t, 2*(n-2)+2*n, m.FaceCount())

			// closed manifold: every edge shared by exactly two faces
			for edge, count := range edgeUses(m) {
				assert.Equal(t, 2, count, "edge %v", edge)
			}
		})
	}
}

func TestExtrude_ClockwiseInputNormalized(t *testing.T) {
	// same square given clockwise; winding is fixed up so the invariants
	// still hold
	ring := []core.PlanarPoint{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}
	m := Extrude(ring, 2)

	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
	for _, count := range edgeUses(m) {
		assert.Equal(t, 2, count)
	}
}

func TestExtrude_DegenerateRingAccepted(t *testing.T) {
	// collinear ring: documented limitation, yields a zero-volume mesh
	// rather than an error
	ring := []core.PlanarPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	m := Extrude(ring, 5)

	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, 8, m.FaceCount())
}

func TestMerge_OffsetsFaces(t *testing.T) {
	a := Extrude([]core.PlanarPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, 1)
	b := Extrude([]core.PlanarPoint{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}, 2)

	merged := Merge([]*core.Mesh{a, b})
	require.Equal(t, a.VertexCount()+b.VertexCount(), merged.VertexCount())
	require.Equal(t, a.FaceCount()+b.FaceCount(), merged.FaceCount())

	// faces from b reference vertices after a's block
	offset := a.VertexCount()
	for _, f := range merged.Faces[a.FaceCount():] {
		for _, idx := range f {
			assert.GreaterOrEqual(t, idx, offset)
			assert.Less(t, idx, merged.VertexCount())
		}
	}
	// no vertex sharing across inputs: still two closed components
	for _, count := range edgeUses(merged) {
		assert.Equal(t, 2, count)
	}
}

func TestMerge_Empty(t *testing.T) {
	m := Merge(nil)
	assert.True(t, m.IsEmpty())
}

func TestGroundPlane(t *testing.T) {
	m := GroundPlane(256, -0.1)

	require.Equal(t, 4, m.VertexCount())
	require.Equal(t, 2, m.FaceCount())
	for _, v := range m.Vertices {
		assert.Equal(t, -0.1, v.Z)
		assert.GreaterOrEqual(t, v.X, 0.0)
		assert.LessOrEqual(t, v.X, 256.0)
		assert.GreaterOrEqual(t, v.Y, 0.0)
		assert.LessOrEqual(t, v.Y, 256.0)
	}
}
