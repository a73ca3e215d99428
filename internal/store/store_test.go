package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/airtrace/core/internal/federation"
	"github.com/airtrace/core/internal/timeutil"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "airtrace.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"audit_log", "federation_frames"} {
		row := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		var name string
		if err := row.Scan(&name); err != nil {
			t.Fatalf("table %s missing after migration: %v", table, err)
		}
	}
}

func TestSQLSinkChainsAndResumes(t *testing.T) {
	db := openTestDB(t)
	clock := timeutil.NewMockClock(time.Unix(1000, 0))

	sink, err := NewSQLSink(db, "cfg-1", "sim", clock)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	sink.Log("tick", "first", "{}")
	clock.Advance(time.Second)
	sink.Log("tick", "second", "{}")

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}

	var firstHash, secondHash, secondPrev string
	if err := db.QueryRow(`SELECT entry_hash FROM audit_log WHERE message = 'first'`).Scan(&firstHash); err != nil {
		t.Fatalf("first hash: %v", err)
	}
	if err := db.QueryRow(`SELECT entry_hash, prev_hash FROM audit_log WHERE message = 'second'`).Scan(&secondHash, &secondPrev); err != nil {
		t.Fatalf("second row: %v", err)
	}
	if firstHash != secondPrev {
		t.Fatalf("chain broken: first hash %s, second prev_hash %s", firstHash, secondPrev)
	}

	resumed, err := NewSQLSink(db, "cfg-1", "sim", clock)
	if err != nil {
		t.Fatalf("resume sink: %v", err)
	}
	if resumed.prevHash != secondHash {
		t.Fatalf("resumed sink should continue from second hash, got prevHash %s want %s", resumed.prevHash, secondHash)
	}
}

func TestRecordFrameUniqueness(t *testing.T) {
	db := openTestDB(t)

	f := federation.FederationEventFrame{
		SchemaVersion:     "1.0",
		InterfaceID:       "airtrace.io.v1",
		EndpointID:        "ep-1",
		RouteKey:          "airtrace.front",
		RouteSequence:     0,
		LogicalTick:       100,
		EventTimestampMs:  3000,
		SourceTimestampMs: 1100,
		SourceLatencyMs:   1900,
		LatencyBudgetMs:   2500,
		SourceID:          "front_sensor",
		PayloadFormat:     "ie_kv_v1",
		Payload:           "a=1\n",
		FederateID:        "fed-1",
		FederateKeyID:     "key-1",
	}
	if err := db.RecordFrame(f); err != nil {
		t.Fatalf("record frame: %v", err)
	}
	// Re-recording the same (route_key, endpoint_id, route_sequence) must
	// not error and must not duplicate the row.
	if err := db.RecordFrame(f); err != nil {
		t.Fatalf("record duplicate frame: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM federation_frames`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after duplicate insert, got %d", count)
	}

	f.RouteSequence = 1
	if err := db.RecordFrame(f); err != nil {
		t.Fatalf("record next sequence: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM federation_frames`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows after second sequence, got %d", count)
	}
}
