package federation

// FederationEventFrame is the unit of fanout (spec.md §4.4 step 10, §6
// "Federation frame JSON").
type FederationEventFrame struct {
	SchemaVersion string
	InterfaceID   string

	EndpointID string

	RouteKey      string
	RouteSequence uint64

	LogicalTick     uint64
	EventTimestampMs  uint64
	SourceTimestampMs uint64
	SourceLatencyMs   uint64
	LatencyBudgetMs   uint64

	SourceID      string
	PayloadFormat string
	Payload       string

	Seed          int64
	Deterministic bool

	FederateID                       string
	FederateKeyID                    string
	FederateKeyEpoch                 uint64
	FederateKeyValidUntilTimestampMs uint64
	FederateAttestationTag           string
}
