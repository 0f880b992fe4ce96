// Package composite turns a multi-transmitter power grid into the grayscale
// signal map, overlaid with the structure mask.
package composite

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// powerFloor substitutes for zero-power cells so the log is defined.
const powerFloor = 1e-30

// Fit modes for reconciling grid and mask dimensions.
const (
	FitCrop     = "crop"
	FitResample = "resample"
)

// Params controls the dBm-to-pixel mapping.
type Params struct {
	VMin float64 // dBm mapped to Lo
	VMax float64 // dBm mapped to Hi
	Lo   uint8
	Hi   uint8
	Fit  string
	Size int // region size S; in crop mode the mask must be exactly S x S
}

// Compositor reduces a power grid to pixels and applies the overlay policy.
type Compositor struct {
	Params Params
	Policy Policy
	Logger zerolog.Logger
}

// Compose sums the per-transmitter grids, fits the result to the mask
// dimensions, maps linear watts to clamped dBm pixels, and hands the result
// to the overlay policy.
func (c *Compositor) Compose(grid *core.PowerGrid, mask *core.OccupancyMask) (*core.CompositeMap, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if c.Params.VMax <= c.Params.VMin {
		return nil, fmt.Errorf("invalid dBm range [%g, %g]", c.Params.VMin, c.Params.VMax)
	}
	if c.Params.Hi <= c.Params.Lo {
		return nil, fmt.Errorf("invalid pixel range [%d, %d]", c.Params.Lo, c.Params.Hi)
	}
	// Resampling adapts to any mask; cropping does not, so the mask has to
	// be the region raster itself.
	if c.Params.Size > 0 && (c.Params.Fit == FitCrop || c.Params.Fit == "") {
		if mask.Rows != c.Params.Size || mask.Cols != c.Params.Size {
			return nil, fmt.Errorf("mask %dx%d does not match region size %d in crop mode",
				mask.Rows, mask.Cols, c.Params.Size)
		}
	}

	total := sumTx(grid)

	fitted, err := fit(total, grid.Rows, grid.Cols, mask.Rows, mask.Cols, c.Params.Fit)
	if err != nil {
		return nil, err
	}

	signal := core.NewCompositeMap(mask.Rows, mask.Cols)
	for i, watts := range fitted {
		signal.Pixels[i] = c.toPixel(watts)
	}

	c.Logger.Debug().
		Int("tx", grid.Tx).
		Str("policy", c.Policy.Name()).
		Msg("composited signal map")
	return c.Policy.Overlay(signal, mask), nil
}

// toPixel maps linear watts to a pixel through dBm, clamping to the
// configured range.
func (c *Compositor) toPixel(watts float64) uint8 {
	if watts <= 0 {
		watts = powerFloor
	}
	dbm := 10 * math.Log10(watts/1e-3)
	if dbm < c.Params.VMin {
		dbm = c.Params.VMin
	}
	if dbm > c.Params.VMax {
		dbm = c.Params.VMax
	}
	span := c.Params.VMax - c.Params.VMin
	scale := float64(c.Params.Hi-c.Params.Lo) / span
	return c.Params.Lo + uint8(math.Round((dbm-c.Params.VMin)*scale))
}

// sumTx collapses the transmitter axis by summing linear power per cell.
func sumTx(grid *core.PowerGrid) []float64 {
	total := make([]float64, grid.Rows*grid.Cols)
	for t := 0; t < grid.Tx; t++ {
		base := t * grid.Rows * grid.Cols
		for i := range total {
			total[i] += grid.Data[base+i]
		}
	}
	return total
}

// fit reconciles the summed grid with the target dimensions. Crop takes the
// top-left corner and requires the grid to be at least as large as the
// target; resample interpolates bilinearly in either direction.
func fit(data []float64, rows, cols, targetRows, targetCols int, mode string) ([]float64, error) {
	if rows == targetRows && cols == targetCols {
		return data, nil
	}
	switch mode {
	case FitCrop, "":
		if rows < targetRows || cols < targetCols {
			return nil, fmt.Errorf("grid %dx%d smaller than target %dx%d, cannot crop", rows, cols, targetRows, targetCols)
		}
		out := make([]float64, targetRows*targetCols)
		for r := 0; r < targetRows; r++ {
			copy(out[r*targetCols:(r+1)*targetCols], data[r*cols:r*cols+targetCols])
		}
		return out, nil
	case FitResample:
		return resample(data, rows, cols, targetRows, targetCols), nil
	default:
		return nil, fmt.Errorf("unknown fit mode %q", mode)
	}
}

// resample interpolates the grid bilinearly onto the target lattice.
func resample(data []float64, rows, cols, targetRows, targetCols int) []float64 {
	out := make([]float64, targetRows*targetCols)
	for r := 0; r < targetRows; r++ {
		srcY := float64(r) * float64(rows-1) / float64(max(targetRows-1, 1))
		y0 := int(srcY)
		y1 := min(y0+1, rows-1)
		fy := srcY - float64(y0)
		for c := 0; c < targetCols; c++ {
			srcX := float64(c) * float64(cols-1) / float64(max(targetCols-1, 1))
			x0 := int(srcX)
			x1 := min(x0+1, cols-1)
			fx := srcX - float64(x0)

			top := data[y0*cols+x0]*(1-fx) + data[y0*cols+x1]*fx
			bot := data[y1*cols+x0]*(1-fx) + data[y1*cols+x1]*fx
			out[r*targetCols+c] = top*(1-fy) + bot*fy
		}
	}
	return out
}
