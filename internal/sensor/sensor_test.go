package sensor

import (
	"math/rand"
	"testing"

	"github.com/airtrace/core/internal/state"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{RateHz: 10, NoiseStd: 0.1, DropoutP: 0.01, FalsePositiveP: 0.01, MaxRange: 0}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	invalid := valid
	invalid.RateHz = 0
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected error for rate_hz <= 0")
	}

	invalid = valid
	invalid.DropoutP = 1.5
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected error for dropout_p out of range")
	}
}

func TestSensorRateGating(t *testing.T) {
	cfg := Config{RateHz: 1, NoiseStd: 0, DropoutP: 0, FalsePositiveP: 0}
	s := New("gps", cfg, ProvenanceSimulation)
	rng := rand.New(rand.NewSource(1))
	st := state.State9{}

	// First half-second tick should not be due yet.
	m := s.Sample(st, 0.5, rng)
	if m.Valid {
		t.Fatal("expected no measurement before the sensor period elapses")
	}

	// Second half-second tick crosses the 1Hz period.
	m = s.Sample(st, 0.5, rng)
	if !m.Valid {
		t.Fatal("expected a measurement once the sensor period elapses")
	}
}

func TestSensorDropoutMarksUnhealthy(t *testing.T) {
	cfg := Config{RateHz: 1, NoiseStd: 0, DropoutP: 1, FalsePositiveP: 0}
	s := New("gps", cfg, ProvenanceSimulation)
	rng := rand.New(rand.NewSource(1))

	m := s.Sample(state.State9{}, 1, rng)
	if m.Valid {
		t.Fatal("expected dropout to suppress the measurement")
	}
	st := s.Status()
	if st.Healthy {
		t.Fatal("expected Healthy=false after a dropout")
	}
	if st.MissedUpdates != 1 {
		t.Fatalf("expected MissedUpdates=1, got %d", st.MissedUpdates)
	}
}

func TestSensorMaxRangeGating(t *testing.T) {
	cfg := Config{RateHz: 1, NoiseStd: 0, DropoutP: 0, FalsePositiveP: 0, MaxRange: 10}
	s := New("radar", cfg, ProvenanceSimulation)
	rng := rand.New(rand.NewSource(1))

	far := state.State9{Position: state.Vec3{X: 1000}}
	m := s.Sample(far, 1, rng)
	if m.Valid {
		t.Fatal("expected out-of-range target to suppress the measurement")
	}
	if s.Status().Available {
		t.Fatal("expected Available=false when target exceeds max_range")
	}
}

func TestSensorHealthyResetsTimeSinceLastValid(t *testing.T) {
	cfg := Config{RateHz: 1, NoiseStd: 0.01, DropoutP: 0, FalsePositiveP: 0}
	s := New("gps", cfg, ProvenanceOperational)
	rng := rand.New(rand.NewSource(42))

	s.Sample(state.State9{}, 1, rng)
	if s.Status().TimeSinceLastValid != 0 {
		t.Fatalf("expected TimeSinceLastValid=0 after a valid sample, got %v", s.Status().TimeSinceLastValid)
	}
	if s.Status().Confidence <= 0 || s.Status().Confidence > 1 {
		t.Fatalf("expected confidence in (0,1], got %v", s.Status().Confidence)
	}
}
