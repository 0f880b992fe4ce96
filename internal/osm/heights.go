package osm

import "strconv"

// HeightResolver turns a feature's tag map into a building height, applying
// the ordered fallback rules: explicit height tag, level count times the
// configured floor height, then the configured default. Parse failures and
// non-positive values fall through to the next rule.
type HeightResolver struct {
	FloorHeight   float64
	DefaultHeight float64
}

// Resolve returns the height in meters for the given tags. It never fails;
// the default rule always applies.
func (hr HeightResolver) Resolve(tags map[string]string) float64 {
	if raw, ok := tags["height"]; ok {
		if h, err := strconv.ParseFloat(raw, 64); err == nil && h > 0 {
			return h
		}
	}
	if raw, ok := tags["building:levels"]; ok {
		if levels, err := strconv.ParseFloat(raw, 64); err == nil && levels > 0 {
			return levels * hr.FloorHeight
		}
	}
	return hr.DefaultHeight
}
