package sensor

import "fmt"

// Config holds per-sensor sampling parameters (spec.md §3 "SensorConfig").
// Invariant: RateHz > 0; probabilities in [0,1]; non-range sensors may have
// MaxRange == 0.
type Config struct {
	RateHz         float64
	NoiseStd       float64
	DropoutP       float64
	FalsePositiveP float64
	MaxRange       float64
}

// Validate checks Config's documented invariants.
func (c Config) Validate() error {
	if c.RateHz <= 0 {
		return fmt.Errorf("sensor config: rate_hz must be > 0, got %v", c.RateHz)
	}
	if c.DropoutP < 0 || c.DropoutP > 1 {
		return fmt.Errorf("sensor config: dropout_p must be in [0,1], got %v", c.DropoutP)
	}
	if c.FalsePositiveP < 0 || c.FalsePositiveP > 1 {
		return fmt.Errorf("sensor config: false_positive_p must be in [0,1], got %v", c.FalsePositiveP)
	}
	if c.MaxRange < 0 {
		return fmt.Errorf("sensor config: max_range must be >= 0, got %v", c.MaxRange)
	}
	return nil
}

// Period is the sampling interval implied by RateHz.
func (c Config) Period() float64 {
	return 1.0 / c.RateHz
}
