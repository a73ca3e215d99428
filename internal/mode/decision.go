package mode

// DisqualifiedSource records why a candidate mode's sensor failed
// eligibility (spec.md §4.1 "Outputs").
type DisqualifiedSource struct {
	Mode   TrackingMode
	Sensor string
	Cause  string
}

// LockoutStatus reports a sensor currently serving a lockout (spec.md
// §4.1 "Outputs").
type LockoutStatus struct {
	Sensor         string
	StepsRemaining int
	Cause          string
}

// ModeDecision is the ladder's per-tick output (spec.md §3 "ModeDecision",
// §4.1 "Outputs"). Never fails; always returned (spec.md §4.1 "Failure
// semantics").
type ModeDecision struct {
	Mode                TrackingMode
	Reason              string
	DowngradeReason     string
	Contributors        []string
	Confidence          float64
	DisqualifiedSources []DisqualifiedSource
	Lockouts            []LockoutStatus
}

// Denial reasons (spec.md §4.1 "Failure semantics", §7 "ModeDenial").
const (
	ReasonNoSensors        = "no_sensors"
	ReasonProvenanceDenied = "provenance_denied"
	ReasonAuthDenied       = "auth_denied"
)
