package mesh

import "github.com/radiomesh/scenesynth/pkg/core"

// Merge concatenates meshes into one, offsetting face indices by the running
// vertex count. No geometry is deduplicated; vertex order follows input
// order.
func Merge(meshes []*core.Mesh) *core.Mesh {
	var nv, nf int
	for _, m := range meshes {
		nv += len(m.Vertices)
		nf += len(m.Faces)
	}

	out := &core.Mesh{
		Vertices: make([]core.Vertex3, 0, nv),
		Faces:    make([]core.Face, 0, nf),
	}
	for _, m := range meshes {
		offset := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, core.Face{f[0] + offset, f[1] + offset, f[2] + offset})
		}
	}
	return out
}

// GroundPlane builds the flat two-triangle plane covering [0,size]^2 at the
// given z offset (slightly below grade so building floors do not coincide
// with it).
func GroundPlane(size, z float64) *core.Mesh {
	return &core.Mesh{
		Vertices: []core.Vertex3{
			{X: 0, Y: 0, Z: z},
			{X: size, Y: 0, Z: z},
			{X: size, Y: size, Z: z},
			{X: 0, Y: size, Z: z},
		},
		// counter-clockwise, normals up
		Faces: []core.Face{{0, 1, 2}, {0, 2, 3}},
	}
}
