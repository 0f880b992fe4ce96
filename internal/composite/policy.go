package composite

import (
	"fmt"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// structureSentinel marks structure cells in the priority policy output.
// Readers rely on it being below the lowest signal pixel.
const structureSentinel = 0

// maskIntensity is the blend-policy brightness of a structure cell.
const maskIntensity = 255

// Policy decides how the structure mask combines with the signal pixels.
type Policy interface {
	Name() string
	Overlay(signal *core.CompositeMap, mask *core.OccupancyMask) *core.CompositeMap
}

// NewPolicy resolves a policy by its configured name.
func NewPolicy(name string) (Policy, error) {
	switch name {
	case "priority", "":
		return PriorityPolicy{}, nil
	case "blend":
		return BlendPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown composite policy %q", name)
	}
}

// PriorityPolicy gives structure cells absolute priority: any cell the mask
// marks is forced to the sentinel value regardless of signal strength.
type PriorityPolicy struct{}

func (PriorityPolicy) Name() string { return "priority" }

func (PriorityPolicy) Overlay(signal *core.CompositeMap, mask *core.OccupancyMask) *core.CompositeMap {
	out := core.NewCompositeMap(signal.Rows, signal.Cols)
	copy(out.Pixels, signal.Pixels)
	for row := 0; row < mask.Rows; row++ {
		for col := 0; col < mask.Cols; col++ {
			if mask.At(row, col) {
				out.Set(row, col, structureSentinel)
			}
		}
	}
	return out
}

// BlendPolicy keeps whichever is brighter per cell, so strong signal stays
// visible across structure footprints.
type BlendPolicy struct{}

func (BlendPolicy) Name() string { return "blend" }

func (BlendPolicy) Overlay(signal *core.CompositeMap, mask *core.OccupancyMask) *core.CompositeMap {
	out := core.NewCompositeMap(signal.Rows, signal.Cols)
	copy(out.Pixels, signal.Pixels)
	for row := 0; row < mask.Rows; row++ {
		for col := 0; col < mask.Cols; col++ {
			if mask.At(row, col) && out.At(row, col) < maskIntensity {
				out.Set(row, col, maskIntensity)
			}
		}
	}
	return out
}
