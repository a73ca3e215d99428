package mode

import "github.com/airtrace/core/internal/sensor"

// sensorState is the private, per-sensor bookkeeping carried across Decide
// calls (spec.md §4.1 "Per-sensor bookkeeping (private state across calls)").
// It is mutated only by Decide (spec.md §3 "Lifecycle").
type sensorState struct {
	healthyCount      int
	staleCount        int
	lowConfCount      int
	lockoutRemaining  int
	disagreementCount int

	lastProvenance sensor.Provenance
}

// update applies one tick's snapshot to the bookkeeping counters per the
// rules in spec.md §4.1.
func (s *sensorState) update(snap SensorSnapshot, cfg Config) {
	if snap.Healthy && snap.TimeSinceLastValid <= cfg.MaxDataAgeSeconds && snap.Confidence >= cfg.MinConfidence {
		s.healthyCount++
	} else {
		s.healthyCount = 0
	}

	if snap.TimeSinceLastValid > cfg.MaxDataAgeSeconds {
		s.staleCount++
	} else {
		s.staleCount = 0
	}

	if snap.Confidence < cfg.MinConfidence {
		s.lowConfCount++
	} else {
		s.lowConfCount = 0
	}

	if s.lockoutRemaining == 0 && (s.staleCount >= cfg.MaxStaleCount || s.lowConfCount >= cfg.MaxLowConfidenceCount) {
		s.lockoutRemaining = cfg.LockoutSteps
	}

	if snap.HasMeasurement {
		s.lastProvenance = snap.MeasurementProvenance
	}
}

// consumeLockout reports whether the sensor is locked out this tick and
// decrements the remaining lockout duration (spec.md §4.1: "decremented
// each tick until zero; while non-zero the sensor is ineligible").
func (s *sensorState) consumeLockout() (lockedOut bool, stepsRemaining int) {
	if s.lockoutRemaining > 0 {
		lockedOut = true
		stepsRemaining = s.lockoutRemaining
		s.lockoutRemaining--
	}
	return
}
