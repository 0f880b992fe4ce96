// pkg/core/grid.go
package core

import "fmt"

// PowerGrid is a per-transmitter grid of non-negative linear power samples
// in watts, produced by the external solver. Data is laid out C-order:
// [transmitter][row][col].
type PowerGrid struct {
	Tx   int       `json:"tx"`
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// NewPowerGrid allocates a zeroed grid.
func NewPowerGrid(tx, rows, cols int) *PowerGrid {
	return &PowerGrid{
		Tx:   tx,
		Rows: rows,
		Cols: cols,
		Data: make([]float64, tx*rows*cols),
	}
}

// At returns the sample for transmitter t at (row, col).
func (g *PowerGrid) At(t, row, col int) float64 {
	return g.Data[(t*g.Rows+row)*g.Cols+col]
}

// Set stores the sample for transmitter t at (row, col).
func (g *PowerGrid) Set(t, row, col int, v float64) {
	g.Data[(t*g.Rows+row)*g.Cols+col] = v
}

// Validate checks the layout and that all samples are non-negative.
func (g *PowerGrid) Validate() error {
	if g.Tx <= 0 || g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("power grid has invalid shape (%d, %d, %d)", g.Tx, g.Rows, g.Cols)
	}
	if len(g.Data) != g.Tx*g.Rows*g.Cols {
		return fmt.Errorf("power grid data length %d does not match shape (%d, %d, %d)",
			len(g.Data), g.Tx, g.Rows, g.Cols)
	}
	for i, v := range g.Data {
		if v < 0 {
			return fmt.Errorf("power grid sample %d is negative (%g)", i, v)
		}
	}
	return nil
}

// OccupancyMask is a binary grid marking cells covered by solid structure.
// Data is row-major, true = structure.
type OccupancyMask struct {
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
	Data []bool `json:"data"`
}

// NewOccupancyMask allocates an all-free mask.
func NewOccupancyMask(rows, cols int) *OccupancyMask {
	return &OccupancyMask{Rows: rows, Cols: cols, Data: make([]bool, rows*cols)}
}

// At reports whether (row, col) is structure.
func (m *OccupancyMask) At(row, col int) bool { return m.Data[row*m.Cols+col] }

// Set marks (row, col).
func (m *OccupancyMask) Set(row, col int, v bool) { m.Data[row*m.Cols+col] = v }

// CompositeMap is the rendered merge of signal intensity and structure
// occupancy. Pixels are row-major grayscale values.
type CompositeMap struct {
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Pixels []uint8 `json:"pixels"`
}

// NewCompositeMap allocates a zeroed map.
func NewCompositeMap(rows, cols int) *CompositeMap {
	return &CompositeMap{Rows: rows, Cols: cols, Pixels: make([]uint8, rows*cols)}
}

// At returns the pixel at (row, col).
func (c *CompositeMap) At(row, col int) uint8 { return c.Pixels[row*c.Cols+col] }

// Set stores the pixel at (row, col).
func (c *CompositeMap) Set(row, col int, v uint8) { c.Pixels[row*c.Cols+col] = v }
