// Package osm decodes the OpenStreetMap XML subset needed for building
// extraction: nodes with locations, and ways with ordered node refs and tags.
package osm

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// Way is a linear feature: an ordered list of node refs plus its tag map.
type Way struct {
	ID   int64
	Refs []int64
	Tags map[string]string
}

// Closed reports whether the way's first and last refs coincide.
func (w Way) Closed() bool {
	return len(w.Refs) >= 2 && w.Refs[0] == w.Refs[len(w.Refs)-1]
}

// Map holds a decoded OSM extract. Node order follows the document.
type Map struct {
	NodeOrder []int64
	Nodes     map[int64]core.GeoPoint
	Ways      []Way
}

// FirstValidLocation returns the first node in document order with a valid
// geographic position. It anchors the projection origin.
func (m *Map) FirstValidLocation() (core.GeoPoint, bool) {
	for _, id := range m.NodeOrder {
		if p, ok := m.Nodes[id]; ok && p.Valid() {
			return p, true
		}
	}
	return core.GeoPoint{}, false
}

type xmlNode struct {
	ID  int64    `xml:"id,attr"`
	Lat *float64 `xml:"lat,attr"`
	Lon *float64 `xml:"lon,attr"`
}

type xmlRef struct {
	Ref int64 `xml:"ref,attr"`
}

type xmlTag struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

type xmlWay struct {
	ID   int64    `xml:"id,attr"`
	Refs []xmlRef `xml:"nd"`
	Tags []xmlTag `xml:"tag"`
}

type xmlFile struct {
	XMLName xml.Name  `xml:"osm"`
	Nodes   []xmlNode `xml:"node"`
	Ways    []xmlWay  `xml:"way"`
}

// Parse decodes an OSM XML document. Nodes without coordinates are kept out
// of the node table so that refs to them resolve as missing.
func Parse(r io.Reader) (*Map, error) {
	var doc xmlFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode osm xml: %w", err)
	}

	m := &Map{
		NodeOrder: make([]int64, 0, len(doc.Nodes)),
		Nodes:     make(map[int64]core.GeoPoint, len(doc.Nodes)),
		Ways:      make([]Way, 0, len(doc.Ways)),
	}
	for _, n := range doc.Nodes {
		if n.Lat == nil || n.Lon == nil {
			continue
		}
		m.NodeOrder = append(m.NodeOrder, n.ID)
		m.Nodes[n.ID] = core.GeoPoint{Lat: *n.Lat, Lon: *n.Lon}
	}
	for _, w := range doc.Ways {
		way := Way{ID: w.ID, Refs: make([]int64, 0, len(w.Refs)), Tags: make(map[string]string, len(w.Tags))}
		for _, r := range w.Refs {
			way.Refs = append(way.Refs, r.Ref)
		}
		for _, t := range w.Tags {
			way.Tags[t.K] = t.V
		}
		m.Ways = append(m.Ways, way)
	}
	return m, nil
}
