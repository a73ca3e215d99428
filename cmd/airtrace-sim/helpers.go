package main

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/airtrace/core/internal/config"
	"github.com/airtrace/core/internal/envelope"
	"github.com/airtrace/core/internal/federation"
	"github.com/airtrace/core/internal/mode"
	"github.com/airtrace/core/internal/sensor"
	"github.com/airtrace/core/internal/state"
	"github.com/airtrace/core/internal/store"
	"github.com/airtrace/core/internal/version"
)

// defaultSensorConfigs gives every sensor name the mode ladder knows about
// a plausible sampling rate, noise floor, and dropout rate. spec.md's
// config surface scopes sensor tuning to platform.permitted_sensors
// (which sensors exist) but not their numeric characteristics, so the
// composition root supplies these the way cmd/radar wires concrete
// hardware parameters for its receiver chain.
func defaultSensorConfigs() map[string]sensor.Config {
	return map[string]sensor.Config{
		"gps":            {RateHz: 5, NoiseStd: 2.5, DropoutP: 0.01, FalsePositiveP: 0.001},
		"ins":            {RateHz: 100, NoiseStd: 0.5, DropoutP: 0.001, FalsePositiveP: 0},
		"vio":            {RateHz: 30, NoiseStd: 0.3, DropoutP: 0.02, FalsePositiveP: 0.005},
		"lio":            {RateHz: 10, NoiseStd: 0.4, DropoutP: 0.02, FalsePositiveP: 0.005, MaxRange: 200},
		"radar":          {RateHz: 20, NoiseStd: 3.0, DropoutP: 0.03, FalsePositiveP: 0.01, MaxRange: 50000},
		"thermal":        {RateHz: 15, NoiseStd: 1.5, DropoutP: 0.02, FalsePositiveP: 0.01, MaxRange: 8000},
		"vision":         {RateHz: 30, NoiseStd: 1.0, DropoutP: 0.02, FalsePositiveP: 0.02, MaxRange: 5000},
		"lidar":          {RateHz: 10, NoiseStd: 0.2, DropoutP: 0.01, FalsePositiveP: 0.001, MaxRange: 300},
		"magnetometer":   {RateHz: 10, NoiseStd: 0.1, DropoutP: 0.005, FalsePositiveP: 0},
		"baro":           {RateHz: 10, NoiseStd: 0.2, DropoutP: 0.005, FalsePositiveP: 0},
		"celestial":      {RateHz: 0.2, NoiseStd: 5.0, DropoutP: 0.1, FalsePositiveP: 0},
		"dead_reckoning": {RateHz: 1, NoiseStd: 10.0, DropoutP: 0, FalsePositiveP: 0},
	}
}

// buildSensors constructs one sensor.Sensor per name in
// cfg.Platform.PermittedSensors, skipping any name without a known
// default configuration.
func buildSensors(cfg config.Config) map[string]*sensor.Sensor {
	defaults := defaultSensorConfigs()
	provenance := sensorProvenance(cfg.Provenance.RunMode)

	sensors := make(map[string]*sensor.Sensor, len(cfg.Platform.PermittedSensors))
	for _, name := range cfg.Platform.PermittedSensors {
		sc, ok := defaults[name]
		if !ok {
			continue
		}
		sensors[name] = sensor.New(name, sc, provenance)
	}
	return sensors
}

func sensorProvenance(runMode config.RunMode) sensor.Provenance {
	switch runMode {
	case config.RunModeOperational:
		return sensor.ProvenanceOperational
	case config.RunModeTest:
		return sensor.ProvenanceTest
	default:
		return sensor.ProvenanceSimulation
	}
}

// sampleSensors advances every sensor by one tick and returns both the
// mode-ladder snapshots (C to D in SPEC_FULL.md's per-tick pipeline) and
// the raw statuses the envelope needs for its sensor.<id>.* leaves.
// Sensors are sampled in ascending name order so the PRNG draw order is
// the same on every run.
func sampleSensors(sensors map[string]*sensor.Sensor, st state.State9, dt float64, rng *rand.Rand) ([]mode.SensorSnapshot, map[string]sensor.Status) {
	snapshots := make([]mode.SensorSnapshot, 0, len(sensors))
	statuses := make(map[string]sensor.Status, len(sensors))

	names := make([]string, 0, len(sensors))
	for name := range sensors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := sensors[name]
		s.Sample(st, dt, rng)
		status := s.Status()
		statuses[name] = status

		snap := mode.SensorSnapshot{
			Name:               name,
			Healthy:            status.Healthy,
			TimeSinceLastValid: status.TimeSinceLastValid,
			Confidence:         status.Confidence,
			HasMeasurement:     status.HasMeasurement,
		}
		if status.HasMeasurement {
			snap.MeasurementPosition = status.LastMeasurement.Position
			snap.MeasurementProvenance = status.LastMeasurement.Provenance
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, statuses
}

// buildEnvelope assembles the ExternalIoEnvelope for one tick from the
// mode decision, sensor statuses, and target state (spec.md §4.3's flat
// envelope surface).
func buildEnvelope(cfg config.Config, decision mode.ModeDecision, statuses map[string]sensor.Status, st state.State9, tick int) envelope.Envelope {
	e := envelope.Envelope{
		SchemaVersion: "1.0",
		InterfaceID:   "airtrace.sim",
		Metadata: envelope.Metadata{
			PlatformProfile: string(cfg.Platform.Profile),
			AdapterID:       cfg.Adapter.ID,
			AdapterVersion:  cfg.Adapter.Version,
			UISurface:       string(cfg.UI.Surface),
			Seed:            cfg.Sim.Seed,
			Deterministic:   true,
		},
		Mode: envelope.ModeInfo{
			Active:         string(decision.Mode),
			Confidence:     decision.Confidence,
			DecisionReason: decision.Reason,
			DenialReason:   decision.DowngradeReason,
			LadderStatus:   lockoutSummary(decision),
			Contributors:   decision.Contributors,
		},
		FrontView: envelope.FrontView{
			ActiveMode:  string(decision.Mode),
			ViewState:   "tracking",
			FrameID:     fmt.Sprintf("%s-%d", cfg.Platform.Profile, tick),
			SourceID:    string(decision.Mode),
			Sequence:    int64(tick),
			TimestampMs: int64(st.Time * 1000),
			Confidence:  decision.Confidence,
			Provenance:  string(sensorProvenance(cfg.Provenance.RunMode)),
		},
		Status: envelope.Status{
			DisqualifiedSources: disqualifiedSummary(decision),
			LockoutStatus:       lockoutSummary(decision),
		},
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		status := statuses[name]
		e.Sensors = append(e.Sensors, envelope.SensorEntry{
			ID:               name,
			Available:        status.Available,
			Healthy:          status.Healthy,
			HasMeasurement:   status.HasMeasurement,
			FreshnessSeconds: status.TimeSinceLastValid,
			Confidence:       status.Confidence,
			LastError:        status.LastError,
		})
	}
	return e
}

func disqualifiedSummary(d mode.ModeDecision) string {
	if len(d.DisqualifiedSources) == 0 {
		return ""
	}
	out := ""
	for i, dq := range d.DisqualifiedSources {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%s:%s:%s", dq.Mode, dq.Sensor, dq.Cause)
	}
	return out
}

func lockoutSummary(d mode.ModeDecision) string {
	if len(d.Lockouts) == 0 {
		return ""
	}
	out := ""
	for i, l := range d.Lockouts {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%s:%d", l.Sensor, l.StepsRemaining)
	}
	return out
}

// publishTick runs the federation/store phase of one tick: build the
// envelope, hand it to the bridge if federation is enabled, and persist
// any emitted frames. Bridge denials are recorded as audit events rather
// than treated as a run failure (spec.md §4.4 "Failure semantics").
func publishTick(cfg config.Config, decision mode.ModeDecision, statuses map[string]sensor.Status, st state.State9, bridge *federation.Bridge, db *store.DB, sink sinkLogger, tick int) {
	if bridge == nil {
		return
	}
	e := buildEnvelope(cfg, decision, statuses, st, tick)
	e.Metadata.AdapterID = version.BuildID()

	frames, err := publishViaBridge(bridge, e)
	if err != nil {
		sink.Log("federation_denied", err.Error(), fmt.Sprintf("tick=%d", tick))
		return
	}
	for _, f := range frames {
		if err := db.RecordFrame(f); err != nil {
			sink.Log("frame_record_failed", err.Error(), fmt.Sprintf("tick=%d route=%s", tick, f.RouteKey))
		}
	}
}

// publishViaBridge always fans out: an enabled Bridge may have zero or
// many endpoints configured, and publish_fanout handles both (spec.md
// §4.4 "publish_fanout"), so the composition root never needs to choose
// between it and the single-endpoint publish.
func publishViaBridge(bridge *federation.Bridge, e envelope.Envelope) ([]federation.FederationEventFrame, error) {
	return bridge.PublishFanout(e)
}

// sinkLogger is the narrow slice of audit.Sink publishTick needs, kept
// local so this file doesn't have to import internal/audit just for the
// interface name.
type sinkLogger interface {
	Log(eventType, message, detail string)
}
