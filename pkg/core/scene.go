// pkg/core/scene.go
package core

// Material is a named diffuse surface definition consumed by the external
// ray-tracing solver. Reflectance is an RGB triple in [0,1].
type Material struct {
	ID          string     `json:"id"`
	Reflectance [3]float64 `json:"reflectance"`
}

// Shape binds an exported mesh asset to a material.
type Shape struct {
	ID         string `json:"id"`
	MeshPath   string `json:"meshPath"` // relative to the scene document
	MaterialID string `json:"materialId"`
}

// SceneDocument is the declarative scene handed to the external solver.
// It carries no logic, only references.
type SceneDocument struct {
	Version   string     `json:"version"`
	Materials []Material `json:"materials"`
	Shapes    []Shape    `json:"shapes"`
}

// Transmitter is a signal source position with its transmit power.
type Transmitter struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	PowerDBm float64 `json:"powerDbm"`
}
