package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/airtrace/core/internal/audit"
	"github.com/airtrace/core/internal/timeutil"
	"github.com/airtrace/core/internal/version"
)

// SQLSink is an audit.Sink that persists hash-chained records into the
// audit_log table instead of a flat file, so the chain survives process
// restarts and is queryable through AttachAdminRoutes. It resumes the
// chain from the last row already in the table (mirrors audit.FileSink
// resuming from the tail of its append-only file).
type SQLSink struct {
	mu       sync.Mutex
	db       *DB
	clock    timeutil.Clock
	configID string
	role     string
	prevHash string
}

// NewSQLSink returns a SQLSink bound to db, seeding prevHash from the
// most recently written audit_log row (if any).
func NewSQLSink(db *DB, configID, role string, clock timeutil.Clock) (*SQLSink, error) {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	s := &SQLSink{db: db, clock: clock, configID: configID, role: role}

	var prevHash sql.NullString
	row := db.QueryRow(`SELECT entry_hash FROM audit_log ORDER BY id DESC LIMIT 1`)
	if err := row.Scan(&prevHash); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("store: load last audit entry: %w", err)
	}
	s.prevHash = prevHash.String
	return s, nil
}

// Log implements audit.Sink.
func (s *SQLSink) Log(eventType, message, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := audit.Record{
		TimestampMs: s.clock.Now().UnixMilli(),
		Event:       eventType,
		Message:     message,
		Detail:      detail,
		BuildID:     version.BuildID(),
		ConfigID:    s.configID,
		Role:        s.role,
		PrevHash:    s.prevHash,
	}
	r.EntryHash = audit.ComputeEntryHash(r)

	_, err := s.db.Exec(`
		INSERT INTO audit_log (ts, event, message, detail, build_id, config_id, role, prev_hash, entry_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TimestampMs, r.Event, r.Message, r.Detail, r.BuildID, r.ConfigID, r.Role, r.PrevHash, r.EntryHash)
	if err != nil {
		return
	}
	s.prevHash = r.EntryHash
}

var _ audit.Sink = (*SQLSink)(nil)
