package federation

import (
	"github.com/airtrace/core/internal/envelope"
)

// routeCounterKey scopes the per-(route_key, endpoint_id) sequence
// counter (spec.md §4.4 step 10, GLOSSARY "Route key").
type routeCounterKey struct {
	routeKey   string
	endpointID string
}

// Bridge is the federation bridge's mutable state. All mutation happens
// inside Publish/PublishFanout; no other path touches next_logical_tick,
// the per-route sequence counters, or last_seen.
type Bridge struct {
	cfg Config

	nextLogicalTick uint64
	sequences       map[routeCounterKey]uint64
	lastSeen        map[string]uint64
}

// New constructs a Bridge starting from cfg.StartLogicalTick.
func New(cfg Config) *Bridge {
	return &Bridge{
		cfg:             cfg,
		nextLogicalTick: cfg.StartLogicalTick,
		sequences:       make(map[routeCounterKey]uint64),
		lastSeen:        make(map[string]uint64),
	}
}

// checkResult carries the values computed by steps 1-9 of the publish
// pipeline so Publish and PublishFanout can share them without mutating
// state until every check has passed.
type checkResult struct {
	sourceID   string
	sourceTs   uint64
	eventTs    uint64
	latency    uint64
	routeKey   string
	serialized string
}

// runChecks performs spec.md §4.4 publish steps 1-8 and the step 9
// serialization with formatName. It mutates nothing;
// callers apply the resulting state changes only after this succeeds.
func (b *Bridge) runChecks(e envelope.Envelope, formatName string) (checkResult, error) {
	// 1. Envelope presence checks.
	if e.SchemaVersion == "" || e.InterfaceID == "" || e.Mode.Active == "" {
		return checkResult{}, &BridgeError{Reason: ReasonMetadataMissing, Message: "schema_version, interface_id, and mode.active must all be non-empty"}
	}

	// 2. Determinism requirement.
	if b.cfg.RequireDeterministic && !e.Metadata.Deterministic {
		return checkResult{}, &BridgeError{Reason: ReasonNonDeterministic, Message: "require_deterministic is set but envelope is not deterministic"}
	}

	// 3. Source allowlist.
	sourceID := e.FrontView.SourceID
	if sourceID == "" {
		sourceID = e.Mode.Active
	}
	if len(b.cfg.AllowedSourceIDs) > 0 && !containsString(b.cfg.AllowedSourceIDs, sourceID) {
		return checkResult{}, &BridgeError{Reason: ReasonSourceNotAllowed, Message: "source_id not in allowed_source_ids: " + sourceID}
	}

	routeKey := b.cfg.RouteDomain + "/" + e.Metadata.PlatformProfile + "/" + sourceID

	// 4. Source timestamp checks.
	sourceTs := uint64(0)
	if e.FrontView.TimestampMs > 0 {
		sourceTs = uint64(e.FrontView.TimestampMs)
	}
	if b.cfg.RequireSourceTimestamp && sourceTs == 0 {
		return checkResult{}, &BridgeError{Reason: ReasonSourceTimestampMissing, Message: "front_view.timestamp_ms is required and missing"}
	}
	if b.cfg.RequireMonotonicSourceTimestamp {
		if last, ok := b.lastSeen[routeKey]; ok && sourceTs < last {
			return checkResult{}, &BridgeError{Reason: ReasonSourceTimestampRegressed, Message: "source timestamp regressed for route"}
		}
	}

	// 5. Compute event_ts with overflow checking.
	step, err := mulOverflowU64(b.nextLogicalTick, b.cfg.TickDurationMs)
	if err != nil {
		return checkResult{}, &BridgeError{Reason: ReasonTimestampOverflow, Message: "logical_tick * tick_duration_ms overflowed"}
	}
	eventTs, err := addOverflowU64(b.cfg.StartTimestampMs, step)
	if err != nil {
		return checkResult{}, &BridgeError{Reason: ReasonTimestampOverflow, Message: "start_timestamp_ms + tick offset overflowed"}
	}

	// 6. Latency budget.
	var latency uint64
	if eventTs > sourceTs {
		latency = eventTs - sourceTs
	}
	if latency > b.cfg.MaxLatencyBudgetMs {
		return checkResult{}, &BridgeError{Reason: ReasonLatencyBudgetExceeded, Message: "latency exceeds max_latency_budget_ms"}
	}

	// 7. Future skew.
	skewBound, err := addOverflowU64(eventTs, b.cfg.MaxFutureSkewMs)
	if err == nil && sourceTs > skewBound {
		return checkResult{}, &BridgeError{Reason: ReasonFutureSkewExceeded, Message: "source_timestamp_ms exceeds event_ts + max_future_skew_ms"}
	}

	// 8. Key trust window.
	if eventTs < b.cfg.FederateKeyValidFromTimestampMs || eventTs > b.cfg.FederateKeyValidUntilTimestampMs {
		return checkResult{}, &BridgeError{Reason: ReasonKeyExpired, Message: "event_ts outside federate key validity window"}
	}

	// 9. Serialize with the requested codec.
	serialized, serr := envelope.Serialize(formatName, e)
	if serr != nil {
		return checkResult{}, &BridgeError{Reason: ReasonUnsupportedFormat, Message: serr.Error()}
	}

	return checkResult{
		sourceID:   sourceID,
		sourceTs:   sourceTs,
		eventTs:    eventTs,
		latency:    latency,
		routeKey:   routeKey,
		serialized: serialized,
	}, nil
}

// Publish implements spec.md §4.4 "publish(envelope)": runs checks 1-8,
// serializes with the default output_format_name, assembles a single frame for
// the implicit "endpoint_default" endpoint, and advances logical-tick and
// sequence state only on success.
func (b *Bridge) Publish(e envelope.Envelope) (FederationEventFrame, error) {
	res, err := b.runChecks(e, b.cfg.OutputFormatName)
	if err != nil {
		return FederationEventFrame{}, err
	}

	key := routeCounterKey{routeKey: res.routeKey, endpointID: "endpoint_default"}
	seq := b.sequences[key]

	frame := FederationEventFrame{
		SchemaVersion:                    e.SchemaVersion,
		InterfaceID:                      e.InterfaceID,
		EndpointID:                       "endpoint_default",
		RouteKey:                         res.routeKey,
		RouteSequence:                    seq,
		LogicalTick:                      b.nextLogicalTick,
		EventTimestampMs:                 res.eventTs,
		SourceTimestampMs:                res.sourceTs,
		SourceLatencyMs:                  res.latency,
		LatencyBudgetMs:                  b.cfg.MaxLatencyBudgetMs,
		SourceID:                         res.sourceID,
		PayloadFormat:                    b.cfg.OutputFormatName,
		Payload:                          res.serialized,
		Seed:                             e.Metadata.Seed,
		Deterministic:                    e.Metadata.Deterministic,
		FederateID:                       b.cfg.FederateID,
		FederateKeyID:                    b.cfg.FederateKeyID,
		FederateKeyEpoch:                 b.cfg.FederateKeyEpoch,
		FederateKeyValidUntilTimestampMs: b.cfg.FederateKeyValidUntilTimestampMs,
		FederateAttestationTag:           b.cfg.FederateAttestationTag,
	}

	// 11. Advance state, overflow-checked, only now that the frame exists.
	nextTick, err := addOverflowU64(b.nextLogicalTick, b.cfg.TickStep)
	if err != nil {
		return FederationEventFrame{}, &BridgeError{Reason: ReasonTimestampOverflow, Message: "next_logical_tick overflowed"}
	}

	b.sequences[key] = seq + 1
	b.lastSeen[res.routeKey] = res.sourceTs
	b.nextLogicalTick = nextTick

	return frame, nil
}

// PublishFanout implements spec.md §4.4 "publish_fanout(envelope)": steps
// 1-8 run once, then each enabled endpoint is checked and serialized in
// configured order. Fanout is atomic — on any endpoint failure no bridge
// state is mutated.
func (b *Bridge) PublishFanout(e envelope.Envelope) ([]FederationEventFrame, error) {
	res, err := b.runChecks(e, b.cfg.OutputFormatName)
	if err != nil {
		return nil, err
	}

	type pending struct {
		key        routeCounterKey
		seq        uint64
		serialized string
		endpoint   Endpoint
	}

	var prepared []pending
	for _, ep := range b.cfg.Endpoints {
		if !ep.Enabled {
			continue
		}

		// (a) trusted_key_ids ∩ federate_key_id must be non-empty.
		if !containsString(ep.TrustedKeyIDs, b.cfg.FederateKeyID) {
			return nil, &BridgeError{Reason: ReasonUntrustedKey, Message: "endpoint " + ep.EndpointID + " does not trust federate_key_id"}
		}

		// (b) attestation requirement.
		if (b.cfg.RequireFederateAttestation || ep.RequireAttestation) && b.cfg.FederateAttestationTag == "" {
			return nil, &BridgeError{Reason: ReasonAttestationMissing, Message: "endpoint " + ep.EndpointID + " requires a non-empty federate_attestation_tag"}
		}

		// (c) serialize with the endpoint's codec.
		serialized, serr := envelope.Serialize(ep.OutputFormatName, e)
		if serr != nil {
			return nil, &BridgeError{Reason: ReasonUnsupportedFormat, Message: serr.Error()}
		}

		key := routeCounterKey{routeKey: res.routeKey, endpointID: ep.EndpointID}
		prepared = append(prepared, pending{key: key, seq: b.sequences[key], serialized: serialized, endpoint: ep})
	}

	nextTick, err := addOverflowU64(b.nextLogicalTick, b.cfg.TickStep)
	if err != nil {
		return nil, &BridgeError{Reason: ReasonTimestampOverflow, Message: "next_logical_tick overflowed"}
	}

	frames := make([]FederationEventFrame, 0, len(prepared))
	for _, p := range prepared {
		frames = append(frames, FederationEventFrame{
			SchemaVersion:                    e.SchemaVersion,
			InterfaceID:                      e.InterfaceID,
			EndpointID:                       p.endpoint.EndpointID,
			RouteKey:                         res.routeKey,
			RouteSequence:                    p.seq,
			LogicalTick:                      b.nextLogicalTick,
			EventTimestampMs:                 res.eventTs,
			SourceTimestampMs:                res.sourceTs,
			SourceLatencyMs:                  res.latency,
			LatencyBudgetMs:                  b.cfg.MaxLatencyBudgetMs,
			SourceID:                         res.sourceID,
			PayloadFormat:                    p.endpoint.OutputFormatName,
			Payload:                          p.serialized,
			Seed:                             e.Metadata.Seed,
			Deterministic:                    e.Metadata.Deterministic,
			FederateID:                       b.cfg.FederateID,
			FederateKeyID:                    b.cfg.FederateKeyID,
			FederateKeyEpoch:                 b.cfg.FederateKeyEpoch,
			FederateKeyValidUntilTimestampMs: b.cfg.FederateKeyValidUntilTimestampMs,
			FederateAttestationTag:           b.cfg.FederateAttestationTag,
		})
	}

	// All checks passed for every endpoint: commit state once, atomically.
	for _, p := range prepared {
		b.sequences[p.key] = p.seq + 1
	}
	b.lastSeen[res.routeKey] = res.sourceTs
	b.nextLogicalTick = nextTick

	return frames, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func addOverflowU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errOverflow
	}
	return sum, nil
}

func mulOverflowU64(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, errOverflow
	}
	return product, nil
}

var errOverflow = &BridgeError{Reason: ReasonTimestampOverflow, Message: "u64 overflow"}
