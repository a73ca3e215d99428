package mode

import (
	"github.com/airtrace/core/internal/sensor"
	"github.com/airtrace/core/internal/state"
)

// SensorSnapshot is the per-tick input for one sensor (spec.md §4.1
// "Inputs per tick"): an ordered sequence of these is passed to Decide.
// Snapshots are passed by value (spec.md §3 "Lifecycle").
type SensorSnapshot struct {
	Name                  string
	Healthy               bool
	TimeSinceLastValid    float64
	Confidence            float64
	HasMeasurement        bool
	MeasurementPosition   *state.Vec3
	MeasurementProvenance sensor.Provenance
}
