package scene

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// Version is the scene description format version the solver expects.
const Version = "2.1.0"

// Default materials: a reflective concrete ground and brick buildings,
// using ITU-R P.2040 surface names the solver recognizes.
var (
	MaterialConcrete = core.Material{ID: "mat-itu_concrete", Reflectance: [3]float64{0.8, 0.8, 0.8}}
	MaterialBrick    = core.Material{ID: "mat-itu_brick", Reflectance: [3]float64{0.0738, 0.0738, 0.0738}}
)

// NewDocument builds the scene description binding the ground and building
// mesh assets to their materials.
func NewDocument(groundMeshPath, buildingMeshPath string) *core.SceneDocument {
	return &core.SceneDocument{
		Version:   Version,
		Materials: []core.Material{MaterialConcrete, MaterialBrick},
		Shapes: []core.Shape{
			{ID: "elm__ground", MeshPath: groundMeshPath, MaterialID: MaterialConcrete.ID},
			{ID: "elm__buildings", MeshPath: buildingMeshPath, MaterialID: MaterialBrick.ID},
		},
	}
}

type xmlRGB struct {
	Value string `xml:"value,attr"`
	Name  string `xml:"name,attr"`
}

type xmlDiffuse struct {
	Type string `xml:"type,attr"`
	Name string `xml:"name,attr"`
	RGB  xmlRGB `xml:"rgb"`
}

type xmlBSDF struct {
	Type  string     `xml:"type,attr"`
	ID    string     `xml:"id,attr"`
	Name  string     `xml:"name,attr"`
	Inner xmlDiffuse `xml:"bsdf"`
}

type xmlString struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlBoolean struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlRef struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlShape struct {
	Type        string     `xml:"type,attr"`
	ID          string     `xml:"id,attr"`
	Name        string     `xml:"name,attr"`
	Filename    xmlString  `xml:"string"`
	FaceNormals xmlBoolean `xml:"boolean"`
	Material    xmlRef     `xml:"ref"`
}

type xmlScene struct {
	XMLName xml.Name   `xml:"scene"`
	Version string     `xml:"version,attr"`
	BSDFs   []xmlBSDF  `xml:"bsdf"`
	Shapes  []xmlShape `xml:"shape"`
}

// WriteDocument marshals the scene document to the solver's XML dialect.
func WriteDocument(w io.Writer, doc *core.SceneDocument) error {
	out := xmlScene{Version: doc.Version}

	for _, m := range doc.Materials {
		out.BSDFs = append(out.BSDFs, xmlBSDF{
			Type: "twosided",
			ID:   m.ID,
			Name: m.ID,
			Inner: xmlDiffuse{
				Type: "diffuse",
				Name: "bsdf",
				RGB: xmlRGB{
					Value: fmt.Sprintf("%f %f %f", m.Reflectance[0], m.Reflectance[1], m.Reflectance[2]),
					Name:  "reflectance",
				},
			},
		})
	}
	for _, s := range doc.Shapes {
		out.Shapes = append(out.Shapes, xmlShape{
			Type:        "ply",
			ID:          s.ID,
			Name:        s.ID,
			Filename:    xmlString{Name: "filename", Value: s.MeshPath},
			FaceNormals: xmlBoolean{Name: "face_normals", Value: "true"},
			Material:    xmlRef{ID: s.MaterialID, Name: "bsdf"},
		})
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode scene document: %w", err)
	}
	// trailing newline after the closing tag
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteDocumentFile writes the scene document to path.
func WriteDocumentFile(path string, doc *core.SceneDocument) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scene file: %w", err)
	}
	defer f.Close()

	return WriteDocument(f, doc)
}
