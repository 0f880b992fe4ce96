package radio

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// rssMember is the archive member name np.savez gives the rss keyword.
const (
	rssMember = "rss.npy"
	txMember  = "tx_positions.npy"
)

// ReadPowerGrid loads a solver output file. A .npy file holds the grid
// alone; a .npz archive holds an "rss" member plus an optional
// "tx_positions" member with one (x, y, z) row per transmitter.
func ReadPowerGrid(path string) (*core.PowerGrid, []core.Transmitter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npz":
		return readNPZ(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open grid file: %w", err)
		}
		defer f.Close()

		grid, err := ReadGrid(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return grid, nil, nil
	}
}

// ReadGrid decodes a single npy array into a power grid. 2-dim arrays are
// treated as one transmitter; 3-dim arrays are (tx, rows, cols).
func ReadGrid(r io.Reader) (*core.PowerGrid, error) {
	shape, data, err := readArray(r)
	if err != nil {
		return nil, err
	}

	var tx, rows, cols int
	switch len(shape) {
	case 2:
		tx, rows, cols = 1, shape[0], shape[1]
	case 3:
		tx, rows, cols = shape[0], shape[1], shape[2]
	default:
		return nil, fmt.Errorf("grid must be 2- or 3-dimensional, got shape %v", shape)
	}

	grid := &core.PowerGrid{Tx: tx, Rows: rows, Cols: cols, Data: data}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return grid, nil
}

func readNPZ(path string) (*core.PowerGrid, []core.Transmitter, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open grid archive: %w", err)
	}
	defer zr.Close()

	var grid *core.PowerGrid
	var txs []core.Transmitter

	for _, f := range zr.File {
		switch f.Name {
		case rssMember:
			rc, err := f.Open()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
			}
			grid, err = ReadGrid(rc)
			rc.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", f.Name, err)
			}
		case txMember:
			rc, err := f.Open()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
			}
			txs, err = readTransmitters(rc)
			rc.Close()
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", f.Name, err)
			}
		}
	}

	if grid == nil {
		// fall back to the sole npy member for archives saved without
		// keyword arguments
		var sole *zip.File
		for _, f := range zr.File {
			if strings.HasSuffix(f.Name, ".npy") && f.Name != txMember {
				if sole != nil {
					return nil, nil, fmt.Errorf("archive has no %s member and multiple candidates", rssMember)
				}
				sole = f
			}
		}
		if sole == nil {
			return nil, nil, fmt.Errorf("archive has no %s member", rssMember)
		}
		rc, err := sole.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", sole.Name, err)
		}
		defer rc.Close()
		grid, err = ReadGrid(rc)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", sole.Name, err)
		}
	}

	if txs != nil && len(txs) != grid.Tx {
		return nil, nil, fmt.Errorf("transmitter count mismatch: grid has %d, positions list %d", grid.Tx, len(txs))
	}
	return grid, txs, nil
}

// readTransmitters decodes an (n, 3) array of transmitter positions.
func readTransmitters(r io.Reader) ([]core.Transmitter, error) {
	shape, data, err := readArray(r)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 || shape[1] != 3 {
		return nil, fmt.Errorf("transmitter positions must have shape (n, 3), got %v", shape)
	}

	txs := make([]core.Transmitter, shape[0])
	for i := range txs {
		txs[i] = core.Transmitter{X: data[i*3], Y: data[i*3+1], Z: data[i*3+2]}
	}
	return txs, nil
}
