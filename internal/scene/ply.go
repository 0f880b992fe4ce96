// Package scene exports mesh assets and the declarative scene document the
// external ray-tracing solver consumes.
package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// WritePLY encodes a mesh as ASCII PLY with float vertex positions and
// triangular faces.
func WritePLY(w io.Writer, m *core.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintln(bw, "comment generated by scenesynth")
	fmt.Fprintf(bw, "element vertex %d\n", m.VertexCount())
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	fmt.Fprintf(bw, "element face %d\n", m.FaceCount())
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")

	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "%g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2])
	}
	return bw.Flush()
}

// WritePLYFile writes the mesh to path, creating or truncating it.
func WritePLYFile(path string, m *core.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mesh file: %w", err)
	}
	defer f.Close()

	if err := WritePLY(f, m); err != nil {
		return fmt.Errorf("failed to write mesh file %s: %w", path, err)
	}
	return nil
}
