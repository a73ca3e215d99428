package mode

import "github.com/airtrace/core/internal/sensor"

// ProvenanceUnknownAction governs how an Unknown-provenance measurement is
// treated by the eligibility predicate (spec.md §4.1).
type ProvenanceUnknownAction string

const (
	ProvenanceUnknownDeny ProvenanceUnknownAction = "deny"
	ProvenanceUnknownHold ProvenanceUnknownAction = "hold"
)

// Authorization gates mode selection against an allowlist of modes
// (spec.md §4.1 "authorization {required, verified, allowed_modes}").
type Authorization struct {
	Required     bool
	Verified     bool
	AllowedModes map[TrackingMode]bool
}

// Allows reports whether m may be selected under this authorization gate.
func (a Authorization) Allows(m TrackingMode) bool {
	if !a.Required {
		return true
	}
	if !a.Verified {
		return false
	}
	return a.AllowedModes[m]
}

// Config is the mode ladder's full configuration surface (spec.md §4.1
// "Inputs per tick" / "Configuration").
type Config struct {
	LadderOrder               []LadderEntry
	PermittedSensors          map[string]bool
	MinHealthyCount           int
	MinDwellSteps             int
	MaxDataAgeSeconds         float64
	MinConfidence             float64
	MaxStaleCount             int
	MaxLowConfidenceCount     int
	LockoutSteps              int
	MaxDisagreementCount      int
	DisagreementThreshold     float64
	HistoryWindow             int
	MaxResidualAgeSeconds     float64
	Authorization             Authorization
	AllowedProvenances        map[sensor.Provenance]bool
	ProvenanceAllowMixed      bool
	ProvenanceUnknownAction   ProvenanceUnknownAction
	CelestialAllowed          bool
	CelestialDatasetAvailable bool
}

// celestialGated reports whether m is subject to the celestial-dataset gate
// (spec.md §4.1 rule 4: "If M in {Celestial, GpsIns-with-celestial}...").
func (c Config) celestialGated(m TrackingMode) bool {
	return m == Celestial
}
