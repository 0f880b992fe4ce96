package mask

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// structureValue is the grayscale value marking structure cells; the
// compositor's mask check is an exact match against it.
const structureValue = 255

// ToImage renders the mask as a grayscale image: white structure on black.
func ToImage(m *core.OccupancyMask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			if m.At(row, col) {
				img.SetGray(col, row, color.Gray{Y: structureValue})
			}
		}
	}
	return img
}

// FromImage converts a grayscale image back to an occupancy mask. Only
// pixels at exactly the structure value count as structure.
func FromImage(img image.Image) *core.OccupancyMask {
	b := img.Bounds()
	m := core.NewOccupancyMask(b.Dy(), b.Dx())
	for row := 0; row < b.Dy(); row++ {
		for col := 0; col < b.Dx(); col++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+col, b.Min.Y+row)).(color.Gray)
			if c.Y == structureValue {
				m.Set(row, col, true)
			}
		}
	}
	return m
}

// SavePNG writes the mask as a grayscale PNG.
func SavePNG(path string, m *core.OccupancyMask) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mask file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, ToImage(m)); err != nil {
		return fmt.Errorf("failed to encode mask png: %w", err)
	}
	return nil
}

// LoadPNG reads a grayscale PNG into an occupancy mask.
func LoadPNG(path string) (*core.OccupancyMask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mask file: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask png: %w", err)
	}
	return FromImage(img), nil
}
