package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/airtrace/core/internal/timeutil"
)

func TestFileSinkChainsHashes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	clock := timeutil.NewMockClock(time.Unix(1000, 0))

	sink, err := NewFileSink(path, "cfg-1", "primary", clock)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	sink.Log("mode_decision", "entered gps", "{}")
	clock.Advance(time.Second)
	sink.Log("mode_decision", "switched thermal", "{}")
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		records = append(records, r)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].PrevHash != "" {
		t.Fatalf("expected empty prev_hash for first record, got %q", records[0].PrevHash)
	}
	if records[1].PrevHash != records[0].EntryHash {
		t.Fatalf("expected record 2 prev_hash to chain to record 1 entry_hash")
	}
	if records[0].EntryHash != ComputeEntryHash(records[0]) {
		t.Fatalf("entry_hash does not match recomputed hash")
	}
}

func TestNopSinkDiscards(t *testing.T) {
	var s Sink = NopSink{}
	s.Log("x", "y", "z") // must not panic
}
