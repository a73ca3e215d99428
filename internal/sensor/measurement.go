// Package sensor implements rate-gated sensor sampling with dropout,
// false-positive injection, and health bookkeeping (spec.md §2 component C,
// §3 "Measurement"/"SensorStatus"/"SensorConfig").
package sensor

import "github.com/airtrace/core/internal/state"

// Provenance attributes a measurement's origin (spec.md §3, GLOSSARY).
type Provenance string

const (
	ProvenanceOperational Provenance = "Operational"
	ProvenanceSimulation  Provenance = "Simulation"
	ProvenanceTest        Provenance = "Test"
	ProvenanceUnknown     Provenance = "Unknown"
)

// Measurement is an optional sensor reading (spec.md §3).
type Measurement struct {
	Position   *state.Vec3
	Velocity   *state.Vec3
	Range      float64
	Bearing    float64
	Valid      bool
	Note       string
	Provenance Provenance
}
