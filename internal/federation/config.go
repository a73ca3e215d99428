// Package federation implements the federation bridge (spec.md §2
// component H, §4.4): monotonic logical-tick assignment, per-route
// sequencing, latency-budget enforcement, endpoint-scoped key trust, and
// fanout to configured endpoints.
package federation

// Endpoint is one fanout target (spec.md §4.4 config: "endpoints[]").
type Endpoint struct {
	EndpointID         string
	OutputFormatName   string
	Enabled            bool
	RequireAttestation bool
	TrustedKeyIDs      []string
}

// Config is the federation bridge's static configuration (spec.md §4.4).
type Config struct {
	StartLogicalTick   uint64
	TickStep           uint64
	StartTimestampMs   uint64
	TickDurationMs     uint64
	MaxLatencyBudgetMs uint64

	RequireDeterministic bool
	OutputFormatName     string

	FederateID  string
	RouteDomain string

	RequireSourceTimestamp          bool
	RequireMonotonicSourceTimestamp bool
	MaxFutureSkewMs                 uint64

	AllowedSourceIDs []string // empty = all allowed

	FederateKeyID                    string
	FederateKeyEpoch                 uint64
	FederateKeyValidFromTimestampMs  uint64
	FederateKeyValidUntilTimestampMs uint64

	RequireFederateAttestation bool
	FederateAttestationTag     string

	Endpoints []Endpoint
}

// Validate checks the invariants enforced on every call (spec.md §4.4
// "Invariants enforced on every call").
func (c Config) Validate(supportedFormat func(string) bool) error {
	if c.TickStep == 0 {
		return &BridgeError{Reason: ReasonTickStepInvalid, Message: "tick_step must be > 0"}
	}
	if c.TickDurationMs == 0 {
		return &BridgeError{Reason: ReasonTickStepInvalid, Message: "tick_duration_ms must be > 0"}
	}
	if c.FederateKeyValidFromTimestampMs > c.FederateKeyValidUntilTimestampMs {
		return &BridgeError{Reason: ReasonKeyWindowInvalid, Message: "federate_key_valid_from must be <= federate_key_valid_until"}
	}
	if supportedFormat != nil {
		if !supportedFormat(c.OutputFormatName) {
			return &BridgeError{Reason: ReasonUnsupportedFormat, Message: "default output_format_name not supported: " + c.OutputFormatName}
		}
		for _, ep := range c.Endpoints {
			if !supportedFormat(ep.OutputFormatName) {
				return &BridgeError{Reason: ReasonUnsupportedFormat, Message: "endpoint " + ep.EndpointID + " output_format_name not supported: " + ep.OutputFormatName}
			}
		}
	}
	return nil
}
