package audit

import (
	"encoding/json"
	"strconv"

	"github.com/airtrace/core/internal/hash"
)

// Record is one hash-chained JSONL audit entry (spec.md §6: "JSONL with
// keys ts, event, message, detail, build_id, config_id, role, prev_hash,
// entry_hash").
type Record struct {
	TimestampMs int64  `json:"ts"`
	Event       string `json:"event"`
	Message     string `json:"message"`
	Detail      string `json:"detail"`
	BuildID     string `json:"build_id"`
	ConfigID    string `json:"config_id"`
	Role        string `json:"role"`
	PrevHash    string `json:"prev_hash"`
	EntryHash   string `json:"entry_hash"`
}

// ComputeEntryHash computes entry_hash = sha256(event|message|detail|ts|
// build_id|config_id|role|prev_hash), chaining each entry to the one
// before it. Exported so collaborator Sinks outside this package (e.g.
// a SQLite-backed sink) can chain records the same way FileSink does.
func ComputeEntryHash(r Record) string {
	payload := r.Event + "|" + r.Message + "|" + r.Detail + "|" +
		strconv.FormatInt(r.TimestampMs, 10) + "|" + r.BuildID + "|" +
		r.ConfigID + "|" + r.Role + "|" + r.PrevHash
	return hash.SHA256Hex([]byte(payload))
}

// MarshalJSONL renders r as a single JSONL line (no trailing newline).
func (r Record) MarshalJSONL() ([]byte, error) {
	return json.Marshal(r)
}
