// pkg/core/report.go
package core

import "time"

// AreaStatus classifies the outcome of one input area.
type AreaStatus string

const (
	AreaStatusOK     AreaStatus = "ok"
	AreaStatusEmpty  AreaStatus = "empty"  // no valid geometry, nothing written
	AreaStatusFailed AreaStatus = "failed" // unexpected error
)

// AreaReport summarizes one area's synthesis pass for the run ledger.
type AreaReport struct {
	Area              string            `json:"area"` // input basename
	Status            AreaStatus        `json:"status"`
	Error             string            `json:"error,omitempty"`
	FootprintsTotal   int               `json:"footprintsTotal"`
	FootprintsClipped int               `json:"footprintsClipped"`
	FootprintsDropped int               `json:"footprintsDropped"`
	BuildingVertices  int               `json:"buildingVertices"`
	BuildingFaces     int               `json:"buildingFaces"`
	Artifacts         map[string]string `json:"artifacts,omitempty"` // kind -> path
	Duration          time.Duration     `json:"duration"`
	ProcessedAt       time.Time         `json:"processedAt"`
}
