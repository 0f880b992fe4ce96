package osm

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiomesh/scenesynth/internal/geo"
	"github.com/radiomesh/scenesynth/pkg/core"
)

const fixtureXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="0.0000" lon="0.0000"/>
  <node id="2" lat="0.0000" lon="0.0001"/>
  <node id="3" lat="0.0001" lon="0.0001"/>
  <node id="4" lat="0.0001" lon="0.0000"/>
  <node id="5" lat="0.0002" lon="0.0002"/>
  <node id="6"/>
  <way id="100">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/><nd ref="4"/><nd ref="1"/>
    <tag k="building" v="yes"/>
    <tag k="height" v="30"/>
  </way>
  <way id="101">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/>
    <tag k="building" v="yes"/>
  </way>
  <way id="102">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/><nd ref="1"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="103">
    <nd ref="1"/><nd ref="2"/><nd ref="6"/><nd ref="99"/><nd ref="1"/>
    <tag k="building" v="yes"/>
  </way>
  <way id="104">
    <nd ref="1"/><nd ref="2"/><nd ref="5"/><nd ref="1"/>
    <tag k="building" v="yes"/>
    <tag k="building:levels" v="4"/>
  </way>
</osm>`

func parseFixture(t *testing.T) *Map {
	t.Helper()
	m, err := Parse(strings.NewReader(fixtureXML))
	require.NoError(t, err)
	return m
}

func TestParse(t *testing.T) {
	m := parseFixture(t)

	// node 6 has no coordinates and must not enter the node table
	assert.Len(t, m.Nodes, 5)
	assert.NotContains(t, m.Nodes, int64(6))
	assert.Len(t, m.Ways, 5)

	assert.True(t, m.Ways[0].Closed())
	assert.False(t, m.Ways[1].Closed())
	assert.Equal(t, "yes", m.Ways[0].Tags["building"])
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("not xml at all"))
	assert.Error(t, err)
}

func TestFirstValidLocation(t *testing.T) {
	m := parseFixture(t)

	origin, ok := m.FirstValidLocation()
	require.True(t, ok)
	assert.Equal(t, core.GeoPoint{Lat: 0, Lon: 0}, origin)
}

func TestFirstValidLocation_Empty(t *testing.T) {
	m, err := Parse(strings.NewReader(`<osm version="0.6"></osm>`))
	require.NoError(t, err)

	_, ok := m.FirstValidLocation()
	assert.False(t, ok)
}

func TestExtract(t *testing.T) {
	m := parseFixture(t)
	origin, ok := m.FirstValidLocation()
	require.True(t, ok)

	e := &Extractor{
		Projector: geo.NewTangentPlane(origin),
		Heights:   HeightResolver{FloorHeight: 3, DefaultHeight: 20},
		Logger:    zerolog.Nop(),
	}
	footprints := e.Extract(m)

	// way 100 (square, height tag) and way 104 (triangle, levels tag)
	// survive; 101 is open, 102 is not a building, 103 resolves only
	// two points.
	require.Len(t, footprints, 2)

	assert.Len(t, footprints[0].Ring, 4)
	assert.Equal(t, 30.0, footprints[0].Height)
	assert.Equal(t, core.PlanarPoint{X: 0, Y: 0}, footprints[0].Ring[0])

	assert.Len(t, footprints[1].Ring, 3)
	assert.Equal(t, 12.0, footprints[1].Height)
}

func TestExtract_InsertionOrder(t *testing.T) {
	m := parseFixture(t)
	origin, _ := m.FirstValidLocation()

	e := &Extractor{
		Projector: geo.NewTangentPlane(origin),
		Heights:   HeightResolver{FloorHeight: 3, DefaultHeight: 20},
		Logger:    zerolog.Nop(),
	}
	footprints := e.Extract(m)

	require.Len(t, footprints, 2)
	// the square (way 100) precedes the triangle (way 104)
	assert.Equal(t, 30.0, footprints[0].Height)
	assert.Equal(t, 12.0, footprints[1].Height)
}
