// Package geo converts geographic coordinates to planar meters relative to
// a per-area origin point.
package geo

import (
	"fmt"
	"math"

	"github.com/wroge/wgs84"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// EarthRadius is the WGS84 semi-major axis in meters.
const EarthRadius = 6378137.0

// Projector maps a geographic coordinate to origin-relative planar meters.
type Projector interface {
	Project(lat, lon float64) core.PlanarPoint
}

// TangentPlane is an equirectangular local tangent-plane approximation
// anchored at an origin point. It is valid for regions small enough that
// curvature distortion is negligible (tens of kilometers); no error is
// produced for larger regions.
type TangentPlane struct {
	originLat float64
	originLon float64
	scale     float64 // meters per degree along a meridian
}

// NewTangentPlane creates a projector anchored at the given origin.
func NewTangentPlane(origin core.GeoPoint) *TangentPlane {
	return &TangentPlane{
		originLat: origin.Lat,
		originLon: origin.Lon,
		scale:     math.Pi / 180 * EarthRadius,
	}
}

// Project is a pure function of the origin and the input coordinate.
func (p *TangentPlane) Project(lat, lon float64) core.PlanarPoint {
	return core.PlanarPoint{
		X: (lon - p.originLon) * p.scale * math.Cos(p.originLat*math.Pi/180),
		Y: (lat - p.originLat) * p.scale,
	}
}

// WebMercator projects through EPSG 4326 -> 3857 and subtracts the origin's
// projected coordinates, so its output is origin-relative meters like
// TangentPlane's.
type WebMercator struct {
	transform func(x, y, z float64) (float64, float64, float64)
	originX   float64
	originY   float64
}

// NewWebMercator creates a web-mercator projector anchored at the given origin.
func NewWebMercator(origin core.GeoPoint) *WebMercator {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	ox, oy, _ := f(origin.Lon, origin.Lat, 0)
	return &WebMercator{transform: f, originX: ox, originY: oy}
}

// Project maps lat/lon to origin-relative web-mercator meters.
func (p *WebMercator) Project(lat, lon float64) core.PlanarPoint {
	x, y, _ := p.transform(lon, lat, 0)
	return core.PlanarPoint{X: x - p.originX, Y: y - p.originY}
}

// New returns the projector named by mode ("tangent" or "webmercator").
func New(mode string, origin core.GeoPoint) (Projector, error) {
	switch mode {
	case "", "tangent":
		return NewTangentPlane(origin), nil
	case "webmercator":
		return NewWebMercator(origin), nil
	default:
		return nil, fmt.Errorf("unknown projection mode: %s", mode)
	}
}
