package composite

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// txDotRadius is the marker radius, in cells, for transmitter positions.
const txDotRadius = 2

// ToImage renders the composite map as a grayscale image.
func ToImage(m *core.CompositeMap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			img.SetGray(col, row, color.Gray{Y: m.At(row, col)})
		}
	}
	return img
}

// ToAnnotatedImage renders the composite map in color with a red dot at
// every transmitter position. Positions are in the region's planar frame,
// y increasing northward.
func ToAnnotatedImage(m *core.CompositeMap, txs []core.Transmitter) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Cols, m.Rows))
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			v := m.At(row, col)
			img.SetRGBA(col, row, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	red := color.RGBA{R: 255, A: 255}
	for _, tx := range txs {
		col := int(tx.X)
		row := m.Rows - 1 - int(tx.Y)
		for dy := -txDotRadius; dy <= txDotRadius; dy++ {
			for dx := -txDotRadius; dx <= txDotRadius; dx++ {
				if dx*dx+dy*dy > txDotRadius*txDotRadius {
					continue
				}
				x, y := col+dx, row+dy
				if x >= 0 && x < m.Cols && y >= 0 && y < m.Rows {
					img.SetRGBA(x, y, red)
				}
			}
		}
	}
	return img
}

// SavePNG writes the composite map as a PNG, annotated with transmitter
// markers when any are given.
func SavePNG(path string, m *core.CompositeMap, txs []core.Transmitter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create composite file: %w", err)
	}
	defer f.Close()

	var img image.Image
	if len(txs) > 0 {
		img = ToAnnotatedImage(m, txs)
	} else {
		img = ToImage(m)
	}
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode composite png: %w", err)
	}
	return nil
}

// LoadPNG reads a PNG back into a composite map, converting to grayscale.
func LoadPNG(path string) (*core.CompositeMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open composite file: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode composite png: %w", err)
	}

	b := img.Bounds()
	m := core.NewCompositeMap(b.Dy(), b.Dx())
	for row := 0; row < b.Dy(); row++ {
		for col := 0; col < b.Dx(); col++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.Gray)
			m.Set(row, col, c.Y)
		}
	}
	return m, nil
}
