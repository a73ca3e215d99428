package sensor

import (
	"math"
	"math/rand"

	"github.com/airtrace/core/internal/state"
)

// Sensor is a single rate-gated sampling sensor: it accumulates elapsed
// time, fires at most once per Config.Period, and rolls dropout /
// false-positive outcomes per tick it fires on. All randomness is drawn
// from the caller-supplied *rand.Rand so the draw order stays part of the
// deterministic simulation contract (spec.md §5).
type Sensor struct {
	Name       string
	Config     Config
	Provenance Provenance

	status        Status
	sinceLastFire float64
}

// New constructs a Sensor starting in an available, unhealthy (no
// measurement yet taken) state.
func New(name string, cfg Config, provenance Provenance) *Sensor {
	return &Sensor{
		Name:       name,
		Config:     cfg,
		Provenance: provenance,
		status:     Status{Available: true},
	}
}

// Status returns the sensor's current bookkeeping snapshot (by value —
// spec.md §3 "Lifecycle": snapshots passed downstream are by-value).
func (s *Sensor) Status() Status {
	return s.status
}

// Sample advances the sensor's rate gate by dt and, if due, samples truth
// from st, applying dropout / false-positive / range gating and noise.
// Returns the Measurement taken this call (Valid=false if the sensor did
// not fire or dropped the update).
func (s *Sensor) Sample(st state.State9, dt float64, rng *rand.Rand) Measurement {
	s.sinceLastFire += dt

	if s.sinceLastFire < s.Config.Period() {
		s.status.TimeSinceLastValid += dt
		s.status.HasMeasurement = false
		return Measurement{Valid: false, Provenance: s.Provenance}
	}
	s.sinceLastFire -= s.Config.Period()

	if s.Config.MaxRange > 0 {
		rng3 := math.Sqrt(st.Position.X*st.Position.X + st.Position.Y*st.Position.Y + st.Position.Z*st.Position.Z)
		if rng3 > s.Config.MaxRange {
			s.status.Available = false
			s.status.Healthy = false
			s.status.HasMeasurement = false
			s.status.TimeSinceLastValid += dt
			s.status.MissedUpdates++
			return Measurement{Valid: false, Provenance: s.Provenance, Note: "out_of_range"}
		}
	}
	s.status.Available = true

	if rng.Float64() < s.Config.DropoutP {
		s.status.Healthy = false
		s.status.HasMeasurement = false
		s.status.TimeSinceLastValid += dt
		s.status.MissedUpdates++
		s.status.LastError = "dropout"
		return Measurement{Valid: false, Provenance: s.Provenance, Note: "dropout"}
	}

	falsePositive := rng.Float64() < s.Config.FalsePositiveP

	noisyPos := state.Vec3{
		X: st.Position.X + rng.NormFloat64()*s.Config.NoiseStd,
		Y: st.Position.Y + rng.NormFloat64()*s.Config.NoiseStd,
		Z: st.Position.Z + rng.NormFloat64()*s.Config.NoiseStd,
	}
	if falsePositive {
		// A false positive fabricates an independent, larger-noise position
		// rather than tracking truth, simulating a spurious detection.
		noisyPos = state.Vec3{
			X: st.Position.X + rng.NormFloat64()*s.Config.NoiseStd*10,
			Y: st.Position.Y + rng.NormFloat64()*s.Config.NoiseStd*10,
			Z: st.Position.Z + rng.NormFloat64()*s.Config.NoiseStd*10,
		}
	}
	noisyVel := state.Vec3{
		X: st.Velocity.X + rng.NormFloat64()*s.Config.NoiseStd,
		Y: st.Velocity.Y + rng.NormFloat64()*s.Config.NoiseStd,
		Z: st.Velocity.Z + rng.NormFloat64()*s.Config.NoiseStd,
	}

	m := Measurement{
		Position:   &noisyPos,
		Velocity:   &noisyVel,
		Range:      noisyPos.Norm(),
		Valid:      true,
		Provenance: s.Provenance,
	}
	if falsePositive {
		m.Note = "false_positive"
	}

	s.status.Healthy = true
	s.status.MissedUpdates = 0
	s.status.LastError = ""
	s.status.TimeSinceLastValid = 0
	s.status.HasMeasurement = true
	s.status.LastMeasurement = m
	s.status.LastMeasurementTime = st.Time

	// Confidence decays with noise-to-signal and recovers to 1 for a clean
	// sensor; false positives are reported with reduced confidence so
	// downstream mode-ladder gating can discount them.
	conf := 1.0 / (1.0 + s.Config.NoiseStd)
	if falsePositive {
		conf *= 0.25
	}
	s.status.Confidence = conf

	return m
}
