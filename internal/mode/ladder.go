package mode

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/airtrace/core/internal/sensor"
)

// Ladder is the stateful mode-selection machine (spec.md §3 "Ladder",
// §4.1). Zero value is not usable; construct with NewLadder.
type Ladder struct {
	cfg Config

	sensors map[string]*sensorState

	currentMode  TrackingMode
	dwellSteps   int
	hasLeftHold  bool
	contributors []string

	positions map[TrackingMode]int
}

// NewLadder builds a Ladder starting in Hold, per spec.md §4.1 "Initial
// state is Hold".
func NewLadder(cfg Config) *Ladder {
	l := &Ladder{
		cfg:         cfg,
		sensors:     make(map[string]*sensorState),
		currentMode: Hold,
	}
	l.positions = make(map[TrackingMode]int, len(cfg.LadderOrder)+1)
	for i, e := range cfg.LadderOrder {
		l.positions[e.Mode] = i
	}
	if _, ok := l.positions[Hold]; !ok {
		l.positions[Hold] = len(cfg.LadderOrder)
	}
	return l
}

func (l *Ladder) position(m TrackingMode) int {
	if p, ok := l.positions[m]; ok {
		return p
	}
	return len(l.cfg.LadderOrder)
}

func (l *Ladder) stateFor(name string) *sensorState {
	s, ok := l.sensors[name]
	if !ok {
		s = &sensorState{}
		l.sensors[name] = s
	}
	return s
}

// Decide consumes one tick's sensor snapshots and returns the resulting
// ModeDecision. Never fails (spec.md §4.1 "Failure semantics"): in the
// absence of any eligible sensor, it returns Hold with a denial reason.
func (l *Ladder) Decide(snapshots []SensorSnapshot) ModeDecision {
	byName := make(map[string]SensorSnapshot, len(snapshots))
	for _, s := range snapshots {
		byName[s.Name] = s
	}

	sawUnknownHold := false
	for _, snap := range snapshots {
		st := l.stateFor(snap.Name)
		st.update(snap, l.cfg)
		if snap.HasMeasurement && snap.MeasurementProvenance == sensor.ProvenanceUnknown && l.cfg.ProvenanceUnknownAction == ProvenanceUnknownHold {
			sawUnknownHold = true
		}
	}

	l.updateDisagreement(byName)

	var disqualified []DisqualifiedSource
	eligible := make(map[TrackingMode]bool, len(l.cfg.LadderOrder))
	for _, entry := range l.cfg.LadderOrder {
		ok, dq := l.evaluate(entry, byName)
		eligible[entry.Mode] = ok
		disqualified = append(disqualified, dq...)
	}
	eligible[Hold] = true

	lockouts := l.consumeLockouts()

	target, targetEntry := l.scan(eligible)

	if sawUnknownHold {
		target = Hold
		targetEntry = LadderEntry{Mode: Hold}
	}

	decision := l.transition(target, targetEntry, eligible, disqualified, lockouts, byName)
	return decision
}

// scan picks the first eligible ladder entry in configured order, falling
// back to Hold (spec.md §4.1 "Selection": "first eligible entry in
// ladder_order wins; Hold is always eligible").
func (l *Ladder) scan(eligible map[TrackingMode]bool) (TrackingMode, LadderEntry) {
	for _, entry := range l.cfg.LadderOrder {
		if entry.Mode == Hold {
			continue
		}
		if eligible[entry.Mode] {
			return entry.Mode, entry
		}
	}
	return Hold, LadderEntry{Mode: Hold}
}

// evaluate applies the five-rule eligibility predicate of spec.md §4.1 to
// one ladder entry.
func (l *Ladder) evaluate(entry LadderEntry, byName map[string]SensorSnapshot) (bool, []DisqualifiedSource) {
	if entry.Mode == Hold {
		return true, nil
	}

	var dq []DisqualifiedSource
	ok := true

	provenances := make(map[sensor.Provenance]bool)

	for _, name := range entry.RequiredSensors {
		st := l.stateFor(name)
		snap, present := byName[name]

		cause := ""
		switch {
		case !present:
			cause = "no_sensors"
		case !l.cfg.PermittedSensors[name]:
			cause = "not_permitted"
		case st.lockoutRemaining > 0:
			cause = "lockout"
		case st.healthyCount < l.cfg.MinHealthyCount:
			cause = "unhealthy"
		case st.disagreementCount > l.cfg.MaxDisagreementCount:
			cause = "disagreement"
		}

		if cause == "" && snap.HasMeasurement {
			prov := snap.MeasurementProvenance
			if prov == sensor.ProvenanceUnknown {
				if l.cfg.ProvenanceUnknownAction == ProvenanceUnknownDeny {
					cause = "provenance_unknown"
				}
			} else if !l.cfg.AllowedProvenances[prov] {
				cause = "provenance_denied"
			}
			if cause == "" {
				provenances[prov] = true
			}
		}

		if cause != "" {
			ok = false
			dq = append(dq, DisqualifiedSource{Mode: entry.Mode, Sensor: name, Cause: cause})
		}
	}

	if ok && len(provenances) > 1 && !l.cfg.ProvenanceAllowMixed {
		ok = false
		dq = append(dq, DisqualifiedSource{Mode: entry.Mode, Sensor: "", Cause: "provenance_mixed"})
	}

	if ok && !l.cfg.Authorization.Allows(entry.Mode) {
		ok = false
		dq = append(dq, DisqualifiedSource{Mode: entry.Mode, Sensor: "", Cause: "auth_denied"})
	}

	if ok && l.cfg.celestialGated(entry.Mode) && !(l.cfg.CelestialAllowed && l.cfg.CelestialDatasetAvailable) {
		ok = false
		dq = append(dq, DisqualifiedSource{Mode: entry.Mode, Sensor: "", Cause: "celestial_unavailable"})
	}

	return ok, dq
}

// consumeLockouts advances every tracked sensor's lockout countdown by one
// tick and reports those currently serving one.
func (l *Ladder) consumeLockouts() []LockoutStatus {
	var out []LockoutStatus
	for name, st := range l.sensors {
		if locked, remaining := st.consumeLockout(); locked {
			out = append(out, LockoutStatus{Sensor: name, StepsRemaining: remaining, Cause: "lockout"})
		}
	}
	return out
}

// updateDisagreement compares this tick's measurements from the previous
// decision's contributors and increments/resets their disagreement counts
// (spec.md §4.1 "disagreement_count: incremented when the pairwise position
// residual across contributing sensors exceeds disagreement_threshold").
func (l *Ladder) updateDisagreement(byName map[string]SensorSnapshot) {
	var positions []struct {
		name string
		pos  [3]float64
	}
	for _, name := range l.contributors {
		snap, ok := byName[name]
		if !ok || !snap.HasMeasurement || snap.MeasurementPosition == nil {
			continue
		}
		if snap.TimeSinceLastValid > l.cfg.MaxResidualAgeSeconds {
			continue
		}
		positions = append(positions, struct {
			name string
			pos  [3]float64
		}{name, [3]float64{snap.MeasurementPosition.X, snap.MeasurementPosition.Y, snap.MeasurementPosition.Z}})
	}

	if len(positions) < 2 {
		return
	}

	maxResidual := 0.0
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			d := floats.Distance(positions[i].pos[:], positions[j].pos[:], 2)
			if d > maxResidual {
				maxResidual = d
			}
		}
	}

	disagree := maxResidual > l.cfg.DisagreementThreshold
	for _, p := range positions {
		st := l.stateFor(p.name)
		if disagree {
			st.disagreementCount++
		} else {
			st.disagreementCount = 0
		}
	}
}

// transition applies the dwell/downgrade/switch state machine of spec.md
// §4.1 "Selection" given this tick's computed target mode.
func (l *Ladder) transition(target TrackingMode, targetEntry LadderEntry, eligible map[TrackingMode]bool, dq []DisqualifiedSource, lockouts []LockoutStatus, byName map[string]SensorSnapshot) ModeDecision {
	var reason, downgradeReason string
	modeChanged := false

	switch {
	case !l.hasLeftHold && l.currentMode == Hold:
		if target == Hold {
			reason = failureReason(dq)
		} else {
			reason = fmt.Sprintf("enter_%s", target)
			l.currentMode = target
			l.hasLeftHold = true
			modeChanged = true
		}

	case target == l.currentMode:
		reason = fmt.Sprintf("maintain_%s", l.currentMode)

	default:
		currentEligible := eligible[l.currentMode]
		currentPos := l.position(l.currentMode)
		targetPos := l.position(target)

		switch {
		case !currentEligible:
			reason = fmt.Sprintf("switch_unhealthy_%s", target)
			l.currentMode = target
			modeChanged = true
		case targetPos < currentPos:
			if l.dwellSteps >= l.cfg.MinDwellSteps {
				reason = fmt.Sprintf("switch_%s", target)
				l.currentMode = target
				modeChanged = true
			} else {
				reason = fmt.Sprintf("dwell_%s", l.currentMode)
			}
		default:
			downgradeReason = fmt.Sprintf("downgrade_%s", target)
			reason = downgradeReason
			l.currentMode = target
			modeChanged = true
		}
	}

	if modeChanged {
		l.dwellSteps = 0
	} else {
		l.dwellSteps++
	}

	contributors := l.contributorsFor(l.currentMode, byName)
	l.contributors = contributors

	return ModeDecision{
		Mode:                l.currentMode,
		Reason:              reason,
		DowngradeReason:     downgradeReason,
		Contributors:        contributors,
		Confidence:          l.confidenceFor(l.currentMode, byName),
		DisqualifiedSources: dq,
		Lockouts:            lockouts,
	}
}

// contributorsFor returns required_sensors ∪ optional_sensors (eligible
// subset) for m, in ladder-declared order (spec.md §4.1 "Outputs").
func (l *Ladder) contributorsFor(m TrackingMode, byName map[string]SensorSnapshot) []string {
	if m == Hold {
		return nil
	}
	var entry LadderEntry
	found := false
	for _, e := range l.cfg.LadderOrder {
		if e.Mode == m {
			entry = e
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	out := make([]string, 0, len(entry.RequiredSensors)+len(entry.OptionalSensors))
	for _, name := range entry.RequiredSensors {
		if _, ok := byName[name]; ok {
			out = append(out, name)
		}
	}
	for _, name := range entry.OptionalSensors {
		if l.optionalSensorEligible(name, byName) {
			out = append(out, name)
		}
	}
	return out
}

// optionalSensorEligible reports whether an optional sensor qualifies for
// the "eligible subset" spec.md §4.1 folds into contributors: present,
// permitted, healthy, not locked out, and provenance-acceptable. Unlike a
// required sensor, failing these checks excludes it from contributors
// rather than disqualifying the mode.
func (l *Ladder) optionalSensorEligible(name string, byName map[string]SensorSnapshot) bool {
	snap, present := byName[name]
	if !present || !l.cfg.PermittedSensors[name] {
		return false
	}
	st := l.stateFor(name)
	if st.lockoutRemaining > 0 || st.healthyCount < l.cfg.MinHealthyCount {
		return false
	}
	if snap.HasMeasurement {
		prov := snap.MeasurementProvenance
		if prov == sensor.ProvenanceUnknown {
			if l.cfg.ProvenanceUnknownAction == ProvenanceUnknownDeny {
				return false
			}
		} else if !l.cfg.AllowedProvenances[prov] {
			return false
		}
	}
	return true
}

// confidenceFor is the minimum confidence across contributors (spec.md
// §4.1 "confidence = min(contributor confidences)"): a single weak
// contributor caps the reported confidence rather than being averaged away.
func (l *Ladder) confidenceFor(m TrackingMode, byName map[string]SensorSnapshot) float64 {
	if m == Hold {
		return 0
	}
	contributors := l.contributorsFor(m, byName)
	if len(contributors) == 0 {
		return 0
	}
	c := byName[contributors[0]].Confidence
	for _, name := range contributors[1:] {
		if v := byName[name].Confidence; v < c {
			c = v
		}
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// failureReason classifies why no real mode was eligible, preferring the
// most specific cause observed (spec.md §4.1 "Failure semantics").
func failureReason(dq []DisqualifiedSource) string {
	hasAuth, hasProvenance := false, false
	for _, d := range dq {
		switch d.Cause {
		case "auth_denied":
			hasAuth = true
		case "provenance_denied", "provenance_mixed", "provenance_unknown":
			hasProvenance = true
		}
	}
	switch {
	case hasAuth:
		return ReasonAuthDenied
	case hasProvenance:
		return ReasonProvenanceDenied
	default:
		return ReasonNoSensors
	}
}
