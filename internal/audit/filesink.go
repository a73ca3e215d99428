package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/airtrace/core/internal/timeutil"
	"github.com/airtrace/core/internal/version"
)

// FileSink appends hash-chained JSONL audit records to a file, opened in
// append mode so a restarted process resumes the same chain (grounded on
// cmd/radar/radar.go's O_CREATE|O_APPEND log-file handling).
type FileSink struct {
	mu       sync.Mutex
	f        *os.File
	clock    timeutil.Clock
	configID string
	role     string
	prevHash string
}

// NewFileSink opens (or creates) path for append and returns a FileSink
// that chains every record to the last one written. configID and role are
// stamped on every record (spec.md §6).
func NewFileSink(path, configID, role string, clock timeutil.Clock) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit: create directory for %s: %w", path, err)
	}
	var prevHash string
	if data, err := os.ReadFile(path); err == nil {
		lines := bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n"))
		var last struct {
			EntryHash string `json:"entry_hash"`
		}
		if json.Unmarshal(lines[len(lines)-1], &last) == nil {
			prevHash = last.EntryHash
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &FileSink{f: f, clock: clock, configID: configID, role: role, prevHash: prevHash}, nil
}

// Log implements Sink, chaining entry_hash to the previous record's hash.
func (s *FileSink) Log(eventType, message, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := Record{
		TimestampMs: s.clock.Now().UnixMilli(),
		Event:       eventType,
		Message:     message,
		Detail:      detail,
		BuildID:     version.BuildID(),
		ConfigID:    s.configID,
		Role:        s.role,
		PrevHash:    s.prevHash,
	}
	r.EntryHash = ComputeEntryHash(r)

	line, err := r.MarshalJSONL()
	if err != nil {
		return
	}
	line = append(line, '\n')
	if _, err := s.f.Write(line); err != nil {
		return
	}
	s.prevHash = r.EntryHash
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

var _ Sink = (*FileSink)(nil)
