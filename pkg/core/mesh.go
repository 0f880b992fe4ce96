// pkg/core/mesh.go
package core

// Vertex3 is a 3D mesh vertex in meters.
type Vertex3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Face is a triangle described by three vertex indices.
type Face [3]int

// Mesh is a triangular mesh. Faces index into Vertices.
type Mesh struct {
	Vertices []Vertex3 `json:"vertices"`
	Faces    []Face    `json:"faces"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty reports whether the mesh carries no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 || len(m.Faces) == 0 }
