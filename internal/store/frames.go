package store

import (
	"fmt"

	"github.com/airtrace/core/internal/federation"
)

// FrameRecorder is the narrow interface internal/federation's callers
// depend on to persist emitted frames, so the bridge package itself
// never imports database/sql (spec.md §0.7's "small store.FrameRecorder
// interface").
type FrameRecorder interface {
	RecordFrame(federation.FederationEventFrame) error
}

// RecordFrame persists one federation frame, keyed by (route_key,
// endpoint_id, route_sequence) per the federation_frames schema. A
// frame already recorded under the same key is silently ignored rather
// than erroring, since a crash-restart fanout retry can legitimately
// reattempt a sequence number it already committed.
func (db *DB) RecordFrame(f federation.FederationEventFrame) error {
	_, err := db.Exec(`
		INSERT INTO federation_frames (
			schema_version, interface_id, endpoint_id, federate_id, federate_key_id,
			federate_key_epoch, federate_key_valid_until_timestamp_ms, federate_attestation_tag,
			route_key, route_sequence, logical_tick, event_timestamp_ms, source_timestamp_ms,
			source_latency_ms, latency_budget_ms, source_id, payload_format, seed,
			deterministic, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (route_key, endpoint_id, route_sequence) DO NOTHING`,
		f.SchemaVersion, f.InterfaceID, f.EndpointID, f.FederateID, f.FederateKeyID,
		f.FederateKeyEpoch, f.FederateKeyValidUntilTimestampMs, f.FederateAttestationTag,
		f.RouteKey, f.RouteSequence, f.LogicalTick, f.EventTimestampMs, f.SourceTimestampMs,
		f.SourceLatencyMs, f.LatencyBudgetMs, f.SourceID, f.PayloadFormat, f.Seed,
		f.Deterministic, f.Payload)
	if err != nil {
		return fmt.Errorf("store: record frame %s/%s#%d: %w", f.RouteKey, f.EndpointID, f.RouteSequence, err)
	}
	return nil
}

var _ FrameRecorder = (*DB)(nil)
