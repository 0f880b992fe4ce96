package radio

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeNPY builds a v1.0 npy file the way np.save does.
func writeNPY(t *testing.T, descr string, shape []int, values []float64) []byte {
	t.Helper()

	shapeStr := ""
	for _, d := range shape {
		shapeStr += fmt.Sprintf("%d, ", d)
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, shapeStr)
	// pad so magic + version + length + header is a multiple of 64, ending in \n
	total := 8 + 2 + len(header) + 1
	pad := (64 - total%64) % 64
	for i := 0; i < pad; i++ {
		header += " "
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)

	for _, v := range values {
		switch descr {
		case "<f4":
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, float32(v)))
		case "<f8":
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		default:
			t.Fatalf("unsupported test descr %q", descr)
		}
	}
	return buf.Bytes()
}

func writeNPZ(t *testing.T, members map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.npz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestReadGrid_2D(t *testing.T) {
	raw := writeNPY(t, "<f8", []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	grid, err := ReadGrid(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, 1, grid.Tx)
	assert.Equal(t, 2, grid.Rows)
	assert.Equal(t, 3, grid.Cols)
	assert.Equal(t, 6.0, grid.At(0, 1, 2))
}

func TestReadGrid_3DFloat32(t *testing.T) {
	values := []float64{0, 1e-9, 2e-9, 3e-9, 4e-9, 5e-9, 6e-9, 7e-9}
	raw := writeNPY(t, "<f4", []int{2, 2, 2}, values)
	grid, err := ReadGrid(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, 2, grid.Tx)
	assert.Equal(t, 2, grid.Rows)
	assert.Equal(t, 2, grid.Cols)
	assert.InDelta(t, 5e-9, grid.At(1, 0, 1), 1e-15)
}

func TestReadGrid_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"not npy", []byte("PKGARBAGEPKGARBAGE")},
		{"1-dim", writeNPY(t, "<f8", []int{4}, []float64{1, 2, 3, 4})},
		{"negative power", writeNPY(t, "<f8", []int{2, 2}, []float64{1, -2, 3, 4})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGrid(bytes.NewReader(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestReadGrid_FortranOrderRejected(t *testing.T) {
	raw := writeNPY(t, "<f8", []int{2, 2}, []float64{1, 2, 3, 4})
	raw = bytes.Replace(raw, []byte("'fortran_order': False"), []byte("'fortran_order': True "), 1)
	_, err := ReadGrid(bytes.NewReader(raw))
	assert.ErrorContains(t, err, "fortran")
}

func TestReadPowerGrid_NPZ(t *testing.T) {
	grid := writeNPY(t, "<f8", []int{2, 2, 2}, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	txs := writeNPY(t, "<f8", []int{2, 3}, []float64{10, 20, 30, 40, 50, 60})
	path := writeNPZ(t, map[string][]byte{"rss.npy": grid, "tx_positions.npy": txs})

	g, tx, err := ReadPowerGrid(path)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Tx)
	require.Len(t, tx, 2)
	assert.Equal(t, 40.0, tx[1].X)
	assert.Equal(t, 60.0, tx[1].Z)
}

func TestReadPowerGrid_NPZSoleMember(t *testing.T) {
	grid := writeNPY(t, "<f8", []int{2, 2}, []float64{1, 2, 3, 4})
	path := writeNPZ(t, map[string][]byte{"arr_0.npy": grid})

	g, tx, err := ReadPowerGrid(path)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Tx)
	assert.Nil(t, tx)
}

func TestReadPowerGrid_NPZCountMismatch(t *testing.T) {
	grid := writeNPY(t, "<f8", []int{2, 2, 2}, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	txs := writeNPY(t, "<f8", []int{3, 3}, make([]float64, 9))
	path := writeNPZ(t, map[string][]byte{"rss.npy": grid, "tx_positions.npy": txs})

	_, _, err := ReadPowerGrid(path)
	assert.ErrorContains(t, err, "mismatch")
}

func TestReadPowerGrid_NPY(t *testing.T) {
	raw := writeNPY(t, "<f8", []int{2, 2}, []float64{0, math.SmallestNonzeroFloat64, 1e-6, 1})
	path := filepath.Join(t.TempDir(), "grid.npy")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	g, tx, err := ReadPowerGrid(path)
	require.NoError(t, err)
	assert.Nil(t, tx)
	assert.Equal(t, 0.0, g.At(0, 0, 0))
}
