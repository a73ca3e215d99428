package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/airtrace/core/internal/store"
)

func seedStore(t *testing.T, dbPath string) {
	t.Helper()
	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer db.Close()

	ticks := []struct {
		mode, reason string
		confidence   float64
		tick         int
	}{
		{"hold", "no_sensors", 0, 0},
		{"gps", "enter_gps", 0.9, 1},
		{"gps", "maintain_gps", 0.91, 2},
	}
	for i, tr := range ticks {
		message := "mode=" + tr.mode + " reason=" + tr.reason + " confidence=0.9"
		detail := "tick=" + strconv.Itoa(tr.tick)
		if _, err := db.Exec(`INSERT INTO audit_log (ts, event, message, detail, build_id, config_id, role, prev_hash, entry_hash) VALUES (?, 'tick', ?, ?, 'test', 'test', 'test', '', ?)`,
			i, message, detail, strconv.Itoa(i)); err != nil {
			t.Fatalf("seeding audit_log: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		if _, err := db.Exec(`INSERT INTO federation_frames (
			schema_version, interface_id, endpoint_id, federate_id, federate_key_id,
			federate_key_epoch, federate_key_valid_until_timestamp_ms, federate_attestation_tag,
			route_key, route_sequence, logical_tick, event_timestamp_ms, source_timestamp_ms,
			source_latency_ms, latency_budget_ms, source_id, payload_format, seed,
			deterministic, payload
		) VALUES ('1.0', 'airtrace.sim', 'endpoint_default', 'fed1', 'key1', 0, 999999999999, '',
			'route_a', ?, ?, ?, ?, ?, 200, 'gps', 'ie_json_v1', 1, 1, '{}')`,
			i, i, i*100, i*100-10, 20+i); err != nil {
			t.Fatalf("seeding federation_frames: %v", err)
		}
	}
}

func TestRunRendersModePlotAndLatencyChart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "run.db")
	seedStore(t, dbPath)

	outDir := filepath.Join(t.TempDir(), "report")
	code := run([]string{"-db", dbPath, "-out-dir", outDir})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	if _, err := os.Stat(filepath.Join(outDir, "mode_transitions.png")); err != nil {
		t.Fatalf("expected mode_transitions.png: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "latency.html")); err != nil {
		t.Fatalf("expected latency.html: %v", err)
	}
}

func TestRunRequiresDBFlag(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Fatalf("run(nil) = %d, want 2", code)
	}
}

func TestParseTickRecord(t *testing.T) {
	rec, ok := parseTickRecord("mode=gps reason=enter_gps confidence=0.8500", "tick=7")
	if !ok {
		t.Fatal("expected parseTickRecord to succeed")
	}
	if rec.Mode != "gps" || rec.Reason != "enter_gps" || rec.Tick != 7 {
		t.Fatalf("unexpected parse result: %+v", rec)
	}
	if rec.Confidence < 0.84 || rec.Confidence > 0.86 {
		t.Fatalf("unexpected confidence: %v", rec.Confidence)
	}
}
