package federation

import (
	"sort"
	"strings"
	"testing"

	"github.com/airtrace/core/internal/envelope"
)

func scenarioConfig() Config {
	return Config{
		StartLogicalTick:                 100,
		TickStep:                         5,
		StartTimestampMs:                 1000,
		TickDurationMs:                   20,
		MaxLatencyBudgetMs:               2500,
		OutputFormatName:                 "ie_kv_v1",
		RouteDomain:                      "airtrace",
		FederateID:                       "fed-1",
		FederateKeyID:                    "key-1",
		FederateKeyValidFromTimestampMs:  0,
		FederateKeyValidUntilTimestampMs: 1 << 62,
	}
}

func scenarioEnvelope() envelope.Envelope {
	return envelope.Envelope{
		SchemaVersion: "1.0",
		InterfaceID:   "airtrace.io.v1",
		Metadata:      envelope.Metadata{PlatformProfile: "air"},
		Mode:          envelope.ModeInfo{Active: "gps_ins"},
		FrontView:     envelope.FrontView{SourceID: "front_sensor", TimestampMs: 1100},
	}
}

func TestPublishHappyPath(t *testing.T) {
	b := New(scenarioConfig())
	e := scenarioEnvelope()

	f1, err := b.Publish(e)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if f1.LogicalTick != 100 || f1.EventTimestampMs != 3000 || f1.SourceLatencyMs != 1900 || f1.RouteSequence != 0 {
		t.Fatalf("unexpected frame 1: %+v", f1)
	}

	f2, err := b.Publish(e)
	if err != nil {
		t.Fatalf("publish second: %v", err)
	}
	if f2.LogicalTick != 105 || f2.EventTimestampMs != 3100 || f2.RouteSequence != 1 {
		t.Fatalf("unexpected frame 2: %+v", f2)
	}
}

func TestPublishDenialNoStateMutation(t *testing.T) {
	cfg := scenarioConfig()
	cfg.AllowedSourceIDs = []string{"other"}
	b := New(cfg)
	e := scenarioEnvelope()

	_, err := b.Publish(e)
	berr, ok := err.(*BridgeError)
	if !ok || berr.Reason != ReasonSourceNotAllowed {
		t.Fatalf("expected source_not_allowed, got %v", err)
	}

	cfg2 := scenarioConfig()
	b2 := New(cfg2)
	f, err := b2.Publish(e)
	if err != nil {
		t.Fatalf("publish on fresh bridge: %v", err)
	}
	if f.RouteSequence != 0 {
		t.Fatalf("expected route_sequence 0 on fresh bridge, got %d", f.RouteSequence)
	}
}

func TestPublishFanoutAtomicOnEndpointFailure(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Endpoints = []Endpoint{
		{EndpointID: "ep-a", OutputFormatName: "ie_kv_v1", Enabled: true, TrustedKeyIDs: []string{"key-1"}},
		{EndpointID: "ep-b", OutputFormatName: "ie_kv_v1", Enabled: true, RequireAttestation: true, TrustedKeyIDs: []string{"key-1"}},
	}
	b := New(cfg)
	e := scenarioEnvelope()

	_, err := b.PublishFanout(e)
	berr, ok := err.(*BridgeError)
	if !ok || berr.Reason != ReasonAttestationMissing {
		t.Fatalf("expected attestation_missing, got %v", err)
	}

	cfg.FederateAttestationTag = "tag-1"
	b2 := New(cfg)
	frames, err := b2.PublishFanout(e)
	if err != nil {
		t.Fatalf("publish_fanout: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	for _, f := range frames {
		if f.RouteSequence != 0 {
			t.Fatalf("expected route_sequence 0 on first fanout, got %+v", f)
		}
	}
}

func TestLatencyBudgetExceeded(t *testing.T) {
	cfg := scenarioConfig()
	cfg.MaxLatencyBudgetMs = 100
	b := New(cfg)
	e := scenarioEnvelope()

	_, err := b.Publish(e)
	berr, ok := err.(*BridgeError)
	if !ok || berr.Reason != ReasonLatencyBudgetExceeded {
		t.Fatalf("expected latency_budget_exceeded, got %v", err)
	}
}

func TestFrameJSONKeysAscending(t *testing.T) {
	b := New(scenarioConfig())
	f, err := b.Publish(scenarioEnvelope())
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	js := f.ToJSON()
	if js == "" || js[0] != '{' {
		t.Fatalf("unexpected json: %s", js)
	}
	keys := make([]string, 0)
	for k := range f.ToFlatMap() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	prev := -1
	for _, k := range keys {
		i := strings.Index(js, `"`+k+`":`)
		if i <= prev {
			t.Fatalf("key %q missing or out of ascending order in %s", k, js)
		}
		prev = i
	}
}
