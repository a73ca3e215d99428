package config

import (
	"github.com/airtrace/core/internal/mode"
	"github.com/airtrace/core/internal/sensor"
	"github.com/airtrace/core/internal/state"
)

// ladderEntryByName indexes the canonical ladder entries by TrackingMode
// name, letting BuildModeConfig resolve the string-keyed
// mode.ladder_order config value back into the typed mode.LadderEntry
// values mode.Ladder expects.
func ladderEntryByName() map[string]mode.LadderEntry {
	entries := mode.DefaultLadderOrder()
	byName := make(map[string]mode.LadderEntry, len(entries))
	for _, e := range entries {
		byName[string(e.Mode)] = e
	}
	return byName
}

// BuildModeConfig projects the loaded Config into a mode.Config ready to
// hand to mode.NewLadder (spec.md §4.2: mode.ladder_order and friends
// "projected into mode.Config by Build").
func (c Config) BuildModeConfig() mode.Config {
	byName := ladderEntryByName()
	order := make([]mode.LadderEntry, 0, len(c.Mode.LadderOrder))
	for _, name := range c.Mode.LadderOrder {
		e, ok := byName[name]
		if !ok {
			continue
		}
		if override, ok := c.Mode.LadderOptionalSensors[name]; ok {
			e.OptionalSensors = override
		}
		order = append(order, e)
	}

	permitted := make(map[string]bool, len(c.Platform.PermittedSensors))
	for _, s := range c.Platform.PermittedSensors {
		permitted[s] = true
	}

	allowedProvenances := make(map[sensor.Provenance]bool, len(c.Provenance.AllowedInputs))
	for _, p := range c.Provenance.AllowedInputs {
		allowedProvenances[p] = true
	}

	allowedModes := make(map[mode.TrackingMode]bool, len(c.Mode.AuthorizationAllowedModes))
	for _, m := range c.Mode.AuthorizationAllowedModes {
		allowedModes[mode.TrackingMode(m)] = true
	}

	return mode.Config{
		LadderOrder:           order,
		PermittedSensors:      permitted,
		MinHealthyCount:       c.Mode.MinHealthyCount,
		MinDwellSteps:         c.Mode.MinDwellSteps,
		MaxDataAgeSeconds:     c.Fusion.MaxDataAgeSeconds,
		MinConfidence:         c.Fusion.MinConfidence,
		MaxStaleCount:         c.Mode.MaxStaleCount,
		MaxLowConfidenceCount: c.Mode.MaxLowConfidenceCount,
		LockoutSteps:          c.Mode.LockoutSteps,
		MaxDisagreementCount:  c.Mode.MaxDisagreementCount,
		DisagreementThreshold: c.Fusion.DisagreementThreshold,
		HistoryWindow:         c.Mode.HistoryWindow,
		MaxResidualAgeSeconds: c.Mode.MaxResidualAgeSeconds,
		Authorization: mode.Authorization{
			Required:     c.Mode.AuthorizationRequired,
			Verified:     c.Mode.AuthorizationVerified,
			AllowedModes: allowedModes,
		},
		AllowedProvenances:        allowedProvenances,
		ProvenanceAllowMixed:      c.Provenance.AllowMixed,
		ProvenanceUnknownAction:   c.Provenance.UnknownAction,
		CelestialAllowed:          c.Mode.CelestialAllowed,
		CelestialDatasetAvailable: c.Mode.CelestialDatasetAvailable,
	}
}

// BuildMotionBounds projects Bounds into state.MotionBounds. MaxSpeed and
// MaxAccel are not part of the bounds.{min,max} config surface (spec.md
// only documents position bounds there); AirTrace derives generous
// defaults so a loaded config without explicit velocity/turn-rate caps
// still produces a Valid() MotionBounds.
func (c Config) BuildMotionBounds(maxSpeed, maxAccel, maxTurnRateDeg float64) state.MotionBounds {
	return state.MotionBounds{
		MinPos:         c.Bounds.Min,
		MaxPos:         c.Bounds.Max,
		MaxSpeed:       maxSpeed,
		MaxAccel:       maxAccel,
		MaxTurnRateDeg: maxTurnRateDeg,
	}
}
