package envelope

import (
	"strings"
	"testing"
)

func sampleEnvelope() Envelope {
	return Envelope{
		SchemaVersion: "1.0",
		InterfaceID:   "airtrace.io.v1",
		Metadata: Metadata{
			PlatformProfile: "air",
			AdapterID:       "airtrace_reference",
			AdapterVersion:  "1.2.0",
			UISurface:       "cockpit",
			Seed:            42,
			Deterministic:   true,
		},
		Mode: ModeInfo{
			Active:         "gps_ins",
			Confidence:     0.93,
			DecisionReason: "maintain_gps_ins",
			LadderStatus:   "nominal",
			Contributors:   []string{"gps", "ins"},
		},
		Sensors: []SensorEntry{
			{
				ID:               "gps",
				Available:        true,
				Healthy:          true,
				HasMeasurement:   true,
				FreshnessSeconds: 0.05,
				Confidence:       0.97,
			},
		},
		FrontView: FrontView{
			ActiveMode:  "gps_ins",
			ViewState:   "streaming",
			FrameID:     "f-001",
			SourceID:    "cam0",
			SensorType:  "thermal",
			Sequence:    7,
			TimestampMs: 1000,
			Confidence:  0.88,
			Provenance:  "operational",
			AuthStatus:  "authorized",
			StreamID:    "s0",
			StreamIndex: 0,
			StreamCount: 1,
		},
		FrontViewStreams: []FrontViewStream{
			{
				StreamID:   "s0",
				ActiveMode: "gps_ins",
				FrameID:    "f-001",
				SensorType: "thermal",
				Sequence:   7,
				Confidence: 0.88,
			},
		},
		Status: Status{
			LockoutStatus:    "none",
			AuthStatus:       "authorized",
			ProvenanceStatus: "operational",
			LoggingStatus:    "ok",
		},
	}
}

func TestKVRoundTrip(t *testing.T) {
	e := sampleEnvelope()
	payload, err := Serialize("ie_kv_v1", e)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	res := Parse("kv", payload)
	if !res.OK {
		t.Fatalf("parse: %v", res.Error)
	}
	if res.Envelope.Mode.Active != e.Mode.Active || res.Envelope.Sensors[0].ID != "gps" {
		t.Fatalf("round-trip mismatch: %+v", res.Envelope)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	e := sampleEnvelope()
	payload, err := Serialize("ie_json_v1", e)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	res := Parse("json", payload)
	if !res.OK {
		t.Fatalf("parse: %v", res.Error)
	}
	if res.Envelope.FrontView.StreamID != "s0" {
		t.Fatalf("round-trip mismatch: %+v", res.Envelope)
	}
}

func TestJSONKeysAscendingLexicographic(t *testing.T) {
	e := sampleEnvelope()
	payload, err := Serialize("ie_json_v1", e)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	m, err := parseJSON(payload)
	if err != nil {
		t.Fatalf("parseJSON: %v", err)
	}
	rebuilt := serializeJSONObject(m)
	keys := sortedKeys(m)
	prev := -1
	for _, k := range keys {
		i := strings.Index(payload, `"`+k+`":`)
		if i <= prev {
			t.Fatalf("key %q missing or out of ascending order in payload", k)
		}
		prev = i
	}
	if !strings.HasPrefix(rebuilt, `{"front_view.`) && !strings.HasPrefix(rebuilt, `{"`) {
		t.Fatalf("unexpected json shape: %s", rebuilt[:40])
	}
}

func TestCrossCodecEquivalence(t *testing.T) {
	e := sampleEnvelope()
	jsonPayload, err := Serialize("ie_json_v1", e)
	if err != nil {
		t.Fatalf("serialize json: %v", err)
	}
	kvPayload, err := Convert("ie_json_v1", "ie_kv_v1", jsonPayload)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	res := Parse("ie_kv_v1", kvPayload)
	if !res.OK {
		t.Fatalf("parse converted kv: %v", res.Error)
	}
	if res.Envelope.Mode.Active != e.Mode.Active {
		t.Fatalf("cross-codec mismatch: got %q want %q", res.Envelope.Mode.Active, e.Mode.Active)
	}
	if res.Envelope.Sensors[0].Confidence != e.Sensors[0].Confidence {
		t.Fatalf("cross-codec float mismatch: got %v want %v", res.Envelope.Sensors[0].Confidence, e.Sensors[0].Confidence)
	}
}

func TestKVDuplicateKeyRejected(t *testing.T) {
	payload := "a=1\na=2\n"
	if _, err := parseKV(payload); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestJSONNestedRejected(t *testing.T) {
	if _, err := parseJSONObject(`{"a":{"b":1}}`); err == nil {
		t.Fatal("expected nested rejection")
	}
}

func TestJSONArrayRejected(t *testing.T) {
	if _, err := parseJSONObject(`{"a":[1,2]}`); err == nil {
		t.Fatal("expected nested array rejection")
	}
}

func TestJSONNullRejected(t *testing.T) {
	if _, err := parseJSONObject(`{"a":null}`); err == nil {
		t.Fatal("expected null rejection")
	}
}

func TestJSONDuplicateKeyRejected(t *testing.T) {
	if _, err := parseJSONObject(`{"a":"1","a":"2"}`); err == nil {
		t.Fatal("expected duplicate key rejection")
	}
}

func TestKVUnknownEscapeRejected(t *testing.T) {
	if _, err := parseKV("a=\\x\n"); err == nil {
		t.Fatal("expected unknown escape rejection")
	}
}

func TestParseUnknownFormatRejected(t *testing.T) {
	res := Parse("bogus", "a=1")
	if res.OK {
		t.Fatal("expected unknown format rejection")
	}
}
