// Package store provides SQLite-backed persistence for the audit log and
// federation frame history (SPEC_FULL.md §0.7 DOMAIN). Neither
// internal/audit nor internal/federation imports this package directly;
// they depend only on the narrow Sink / FrameRecorder interfaces, and a
// composition root wires a *DB into both.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	airtracedb "github.com/airtrace/core/db"
)

// DB wraps a SQLite connection holding the audit_log and
// federation_frames tables (grounded on db/db.go's `type DB struct {
// *sql.DB }` from the teacher's top-level db package).
type DB struct {
	*sql.DB
}

// Open opens path (creating it if absent), applies the essential
// concurrency PRAGMAs, and runs every pending migration from
// db/migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db := &DB{sqlDB}

	if err := db.applyPragmas(); err != nil {
		return nil, err
	}
	if err := db.migrateUp(); err != nil {
		return nil, err
	}
	return db, nil
}

// applyPragmas sets the same WAL/synchronous/busy_timeout PRAGMAs the
// teacher applies to every database regardless of how it was created
// (db/db.go applyPragmas).
func (db *DB) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}
	return nil
}

func (db *DB) migrationsFS() (fs.FS, error) {
	return fs.Sub(airtracedb.MigrationsFS, "migrations")
}

// newMigrate returns a migrate instance bound to db's existing
// connection. Do not call its Close(): the sqlite driver's Close()
// closes the underlying *sql.DB too, which this DB still owns.
func (db *DB) newMigrate() (*migrate.Migrate, error) {
	migrationsFS, err := db.migrationsFS()
	if err != nil {
		return nil, fmt.Errorf("store: sub-filesystem for embedded migrations: %w", err)
	}
	sourceDriver, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("store: iofs source driver: %w", err)
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("store: sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("store: migrate instance: %w", err)
	}
	return m, nil
}

// migrateUp applies every migration in db/migrations that has not yet
// run (grounded on db/migrate.go's MigrateUp).
func (db *DB) migrateUp() error {
	m, err := db.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: migration up failed: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
