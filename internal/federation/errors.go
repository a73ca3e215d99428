package federation

// BridgeError is the typed, sentinel-free error returned by publish and
// publish_fanout (spec.md §7 "sentinel-free typed errors").
type BridgeError struct {
	Reason  string
	Message string
}

func (e *BridgeError) Error() string {
	return "federation: " + e.Reason + ": " + e.Message
}

// Reasons is the closed set of BridgeError.Reason values (spec.md §4.4).
// tick_step_invalid and key_window_invalid are returned by
// Config.Validate; every other name corresponds to a check in the publish
// or fanout pipeline.
const (
	ReasonMetadataMissing          = "metadata_missing"
	ReasonNonDeterministic         = "non_deterministic"
	ReasonSourceNotAllowed         = "source_not_allowed"
	ReasonSourceTimestampMissing   = "source_timestamp_missing"
	ReasonSourceTimestampRegressed = "source_timestamp_regressed"
	ReasonTimestampOverflow        = "timestamp_overflow"
	ReasonLatencyBudgetExceeded    = "latency_budget_exceeded"
	ReasonFutureSkewExceeded       = "future_skew_exceeded"
	ReasonKeyWindowInvalid         = "key_window_invalid"
	ReasonKeyExpired               = "key_expired"
	ReasonUntrustedKey             = "untrusted_key"
	ReasonAttestationMissing       = "attestation_missing"
	ReasonUnsupportedFormat        = "unsupported_format"
	ReasonTickStepInvalid          = "tick_step_invalid"
)
