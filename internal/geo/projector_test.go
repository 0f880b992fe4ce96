package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiomesh/scenesynth/pkg/core"
)

func TestTangentPlane_OriginProjectsToZero(t *testing.T) {
	origin := core.GeoPoint{Lat: 22.2824, Lon: 114.1584}
	p := NewTangentPlane(origin)

	pt := p.Project(origin.Lat, origin.Lon)
	assert.Equal(t, 0.0, pt.X)
	assert.Equal(t, 0.0, pt.Y)
}

func TestTangentPlane_KnownOffsets(t *testing.T) {
	// At the equator one degree of latitude and longitude are both
	// pi/180 * R meters.
	p := NewTangentPlane(core.GeoPoint{Lat: 0, Lon: 0})
	pt := p.Project(1, 1)

	degMeters := math.Pi / 180 * EarthRadius
	assert.InDelta(t, degMeters, pt.X, 1e-6)
	assert.InDelta(t, degMeters, pt.Y, 1e-6)

	// Away from the equator, easting shrinks by cos(lat0).
	lat0 := 60.0
	p60 := NewTangentPlane(core.GeoPoint{Lat: lat0, Lon: 0})
	pt60 := p60.Project(lat0, 1)
	assert.InDelta(t, degMeters*math.Cos(lat0*math.Pi/180), pt60.X, 1e-6)
	assert.InDelta(t, 0.0, pt60.Y, 1e-6)
}

func TestTangentPlane_ReanchoringInvariance(t *testing.T) {
	// Projecting from a different origin and re-translating to a common
	// frame yields identical planar coordinates up to floating point
	// tolerance, because the projection is linear in lat/lon.
	coords := []core.GeoPoint{
		{Lat: 22.2824, Lon: 114.1584},
		{Lat: 22.2830, Lon: 114.1590},
		{Lat: 22.2841, Lon: 114.1601},
	}
	originA := coords[0]
	originB := core.GeoPoint{Lat: 22.2815, Lon: 114.1570}

	pa := NewTangentPlane(originA)
	pb := NewTangentPlane(originB)

	// Both projectors use their own origin latitude for the easting
	// scale, so compare after removing each frame's first point.
	refA := pa.Project(coords[0].Lat, coords[0].Lon)
	refB := pb.Project(coords[0].Lat, coords[0].Lon)

	// cos(latA)/cos(latB) differs at the 1e-5 level over ~100 m; allow
	// a small metric tolerance rather than exact equality.
	for _, c := range coords {
		a := pa.Project(c.Lat, c.Lon)
		b := pb.Project(c.Lat, c.Lon)
		assert.InDelta(t, a.X-refA.X, b.X-refB.X, 0.01)
		assert.InDelta(t, a.Y-refA.Y, b.Y-refB.Y, 0.01)
	}
}

func TestWebMercator_OriginRelative(t *testing.T) {
	origin := core.GeoPoint{Lat: 22.2824, Lon: 114.1584}
	p := NewWebMercator(origin)

	pt := p.Project(origin.Lat, origin.Lon)
	assert.InDelta(t, 0.0, pt.X, 1e-9)
	assert.InDelta(t, 0.0, pt.Y, 1e-9)

	// Web mercator easting grows with longitude, northing with latitude.
	east := p.Project(origin.Lat, origin.Lon+0.001)
	north := p.Project(origin.Lat+0.001, origin.Lon)
	assert.Greater(t, east.X, 0.0)
	assert.Greater(t, north.Y, 0.0)
}

func TestNew_ModeSelection(t *testing.T) {
	origin := core.GeoPoint{Lat: 1, Lon: 2}

	p, err := New("tangent", origin)
	require.NoError(t, err)
	assert.IsType(t, &TangentPlane{}, p)

	p, err = New("", origin)
	require.NoError(t, err)
	assert.IsType(t, &TangentPlane{}, p)

	p, err = New("webmercator", origin)
	require.NoError(t, err)
	assert.IsType(t, &WebMercator{}, p)

	_, err = New("utm", origin)
	assert.Error(t, err)
}
