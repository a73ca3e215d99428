package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
config.version=1.0
platform.profile=air
platform.permitted_sensors=gps,ins
provenance.run_mode=simulation
provenance.allowed_inputs=simulation
mode.ladder_order=gps_ins,gps,hold
mode.min_healthy_count=1
mode.min_dwell_steps=0
fusion.max_data_age_seconds=5
fusion.min_confidence=0
bounds.min.x=-100000
bounds.min.y=-100000
bounds.min.z=0
bounds.max.x=100000
bounds.max.y=100000
bounds.max.z=20000
sim.dt=0.1
sim.steps=5
sim.seed=42
scheduler.primary_budget_ms=50
scheduler.aux_budget_ms=50
scheduler.max_aux_pipelines=1
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "airtrace.conf")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestRunCompletesAndPersistsAuditTrail(t *testing.T) {
	configPath := writeTempConfig(t, testConfig)
	dbPath := filepath.Join(t.TempDir(), "run.db")

	code := run([]string{"-config", configPath, "-db", dbPath, "-steps", "3"})
	if code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening resulting db: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&count); err != nil {
		t.Fatalf("counting audit_log rows: %v", err)
	}
	if count == 0 {
		t.Fatal("expected at least one audit_log row after a run")
	}
}

func TestRunRejectsMissingConfigFlag(t *testing.T) {
	code := run([]string{"-db", filepath.Join(t.TempDir(), "run.db")})
	if code != 2 {
		t.Fatalf("run() without -config = %d, want 2", code)
	}
}

func TestRunRejectsUnknownMotionModel(t *testing.T) {
	configPath := writeTempConfig(t, testConfig)
	code := run([]string{"-config", configPath, "-db", filepath.Join(t.TempDir(), "run.db"), "-motion-model", "bogus"})
	if code != 2 {
		t.Fatalf("run() with bad -motion-model = %d, want 2", code)
	}
}
