// Command airtrace-sim is the composition root that wires a simulated
// target's kinematic state through the sensor/mode/envelope/federation
// pipeline, one tick at a time (SPEC_FULL.md §3: "wires B to C to D to G
// to H per tick").
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/airtrace/core/internal/audit"
	"github.com/airtrace/core/internal/config"
	"github.com/airtrace/core/internal/diag"
	"github.com/airtrace/core/internal/envelope"
	"github.com/airtrace/core/internal/federation"
	"github.com/airtrace/core/internal/mode"
	"github.com/airtrace/core/internal/motion"
	"github.com/airtrace/core/internal/scheduler"
	"github.com/airtrace/core/internal/sensor"
	"github.com/airtrace/core/internal/state"
	"github.com/airtrace/core/internal/store"
)

// Sensible physical ceilings for the simulated platform. spec.md's
// bounds.{min,max} config surface only covers position; velocity/
// acceleration/turn-rate caps aren't a documented config key, so the
// composition root picks conservative airframe-scale defaults rather
// than leaving state.MotionBounds invalid.
const (
	defaultMaxSpeed       = 250.0 // m/s
	defaultMaxAccel       = 50.0  // m/s^2
	defaultMaxTurnRateDeg = 30.0  // deg/s
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("airtrace-sim", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the airtrace key=value config file")
	federationConfigPath := fs.String("federation-config", "", "path to the federation bridge key=value config file (omit to disable fanout)")
	steps := fs.Int("steps", 0, "override sim.steps from the config file (0 = use config value)")
	dbPath := fs.String("db", "airtrace.db", "path to the sqlite store")
	auditLogPath := fs.String("audit-log", "", "optional append-only JSONL audit log, in addition to the SQLite audit_log table")
	motionModelFlag := fs.String("motion-model", "constant_velocity", "one of constant_velocity, constant_acceleration, coordinated_turn, weaving")
	turnRateFlag := fs.Float64("turn-rate-deg-s", 0, "turn rate passed to coordinated_turn/weaving models")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *configPath == "" {
		diag.Logf("airtrace-sim: -config is required")
		return 2
	}

	result, err := config.Load(*configPath)
	if err != nil {
		diag.Logf("airtrace-sim: loading config: %v", err)
		return 1
	}
	if !result.OK {
		for _, issue := range result.Issues {
			diag.Logf("airtrace-sim: config issue: %s: %s", issue.Key, issue.Message)
		}
		diag.Logf("airtrace-sim: config failed validation")
		return 1
	}
	cfg := result.Config

	model, err := parseMotionModel(*motionModelFlag)
	if err != nil {
		diag.Logf("%v", err)
		return 2
	}

	numSteps := cfg.Sim.Steps
	if *steps > 0 {
		numSteps = *steps
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		diag.Logf("airtrace-sim: opening store: %v", err)
		return 1
	}
	defer db.Close()

	configID := cfg.Version + "/" + string(cfg.Platform.Profile)
	sink, closeSink, err := buildAuditSink(db, configID, string(cfg.Provenance.RunMode), *auditLogPath)
	if err != nil {
		diag.Logf("airtrace-sim: opening audit sink: %v", err)
		return 1
	}
	defer closeSink()

	ladder := mode.NewLadder(cfg.BuildModeConfig())
	bounds := cfg.BuildMotionBounds(defaultMaxSpeed, defaultMaxAccel, defaultMaxTurnRateDeg)
	sensors := buildSensors(cfg)

	bridge, err := buildBridge(*federationConfigPath)
	if err != nil {
		diag.Logf("airtrace-sim: %v", err)
		return 1
	}

	sched := scheduler.New(scheduler.Budget{
		PrimaryBudget:   msDuration(cfg.Scheduler.PrimaryBudgetMs),
		AuxBudget:       msDuration(cfg.Scheduler.AuxBudgetMs),
		MaxAuxPipelines: cfg.Scheduler.MaxAuxPipelines,
	}, 3, 3)

	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	st := state.State9{}
	sink.Log("sim_start", fmt.Sprintf("steps=%d model=%s", numSteps, model), "")

	for i := 0; i < numSteps; i++ {
		var decision mode.ModeDecision
		var statuses map[string]sensor.Status

		primary := func() time.Duration {
			start := time.Now()
			st = motion.Step(model, st, cfg.Sim.Dt, bounds, *turnRateFlag)
			snapshots, ss := sampleSensors(sensors, st, cfg.Sim.Dt, rng)
			statuses = ss
			decision = ladder.Decide(snapshots)
			return time.Since(start)
		}

		tick := i
		aux := []func() time.Duration{
			func() time.Duration {
				start := time.Now()
				publishTick(cfg, decision, statuses, st, bridge, db, sink, tick)
				return time.Since(start)
			},
		}

		d := sched.Tick(primary, aux)
		if !d.PrimaryOK {
			sink.Log("scheduler_overrun", fmt.Sprintf("tick=%d", i), "")
		}

		sink.Log("tick", fmt.Sprintf("mode=%s reason=%s confidence=%.4f", decision.Mode, decision.Reason, decision.Confidence), fmt.Sprintf("tick=%d", i))
		diag.Logf("tick=%d mode=%s reason=%s confidence=%.3f", i, decision.Mode, decision.Reason, decision.Confidence)
	}

	sink.Log("sim_end", fmt.Sprintf("steps=%d", numSteps), "")
	return 0
}

// buildAuditSink always opens the SQLite-backed sink (it shares db's
// connection and needs no separate lifecycle); when -audit-log is also
// set, both sinks receive every record via multiSink.
func buildAuditSink(db *store.DB, configID, role, fileLogPath string) (audit.Sink, func() error, error) {
	sqlSink, err := store.NewSQLSink(db, configID, role, nil)
	if err != nil {
		return nil, nil, err
	}
	if fileLogPath == "" {
		return sqlSink, func() error { return nil }, nil
	}
	fileSink, err := audit.NewFileSink(fileLogPath, configID, role, nil)
	if err != nil {
		return nil, nil, err
	}
	return multiSink{sqlSink, fileSink}, fileSink.Close, nil
}

func buildBridge(federationConfigPath string) (*federation.Bridge, error) {
	if federationConfigPath == "" {
		return nil, nil
	}
	fedCfg, err := federation.LoadConfig(federationConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading federation config: %w", err)
	}
	supported := func(name string) bool {
		_, err := envelope.ResolveFormat(name)
		return err == nil
	}
	if err := fedCfg.Validate(supported); err != nil {
		return nil, fmt.Errorf("federation config: %w", err)
	}
	return federation.New(fedCfg), nil
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func parseMotionModel(name string) (motion.Model, error) {
	switch name {
	case "constant_velocity":
		return motion.ConstantVelocity, nil
	case "constant_acceleration":
		return motion.ConstantAcceleration, nil
	case "coordinated_turn":
		return motion.CoordinatedTurn, nil
	case "weaving":
		return motion.Weaving, nil
	default:
		return 0, fmt.Errorf("airtrace-sim: unknown -motion-model %q", name)
	}
}

// multiSink fans Log out to every underlying Sink, used when both the
// SQLite-backed and file-backed audit sinks are configured together.
type multiSink []audit.Sink

func (m multiSink) Log(eventType, message, detail string) {
	for _, s := range m {
		s.Log(eventType, message, detail)
	}
}

var _ audit.Sink = multiSink(nil)
