// pkg/core/geometry.go
package core

// GeoPoint is a geographic coordinate in degrees (WGS84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is inside the geographic domain.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// PlanarPoint is a projected coordinate in meters relative to a chosen origin.
type PlanarPoint struct {
	X float64 `json:"x"` // easting
	Y float64 `json:"y"` // northing
}

// Footprint is a building's ground outline with its resolved height.
// The ring is open (the closing vertex is not duplicated) and keeps the
// source winding order.
type Footprint struct {
	Ring   []PlanarPoint     `json:"ring"`
	Height float64           `json:"height"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// ClippedFootprint is one simple polygon produced by clipping a Footprint
// against the region of interest. A single input footprint may yield zero,
// one, or several of these.
type ClippedFootprint struct {
	Ring   []PlanarPoint `json:"ring"`
	Height float64       `json:"height"`
}
