// Package mode implements the mode ladder state machine (spec.md §4.1):
// ordered candidate-mode selection under health/freshness/confidence/
// disagreement/provenance/authorization gating, with dwell hysteresis.
package mode

// TrackingMode is the tagged variant of spec.md §3 "TrackingMode". Hold is
// terminal-safe: always admissible, never requires sensors.
type TrackingMode string

const (
	Gps           TrackingMode = "gps"
	GpsIns        TrackingMode = "gps_ins"
	Vio           TrackingMode = "vio"
	Lio           TrackingMode = "lio"
	RadarInertial TrackingMode = "radar_inertial"
	Thermal       TrackingMode = "thermal"
	Radar         TrackingMode = "radar"
	Vision        TrackingMode = "vision"
	Lidar         TrackingMode = "lidar"
	MagBaro       TrackingMode = "mag_baro"
	Magnetometer  TrackingMode = "magnetometer"
	Baro          TrackingMode = "baro"
	Celestial     TrackingMode = "celestial"
	DeadReckoning TrackingMode = "dead_reckoning"
	Inertial      TrackingMode = "inertial"
	Hold          TrackingMode = "hold"
)

// Kind classifies how a ladder entry participates in a tick (spec.md §4.1).
type Kind int

const (
	Primary Kind = iota
	Fused
	AuxSnapshot
)

// LadderEntry binds a TrackingMode to its sensor requirements (spec.md
// §4.1 "Eligibility predicate for mode M"): M is a tuple (required_sensors,
// optional_sensors, kind) looked up by ladder_order name.
type LadderEntry struct {
	Mode            TrackingMode
	RequiredSensors []string
	OptionalSensors []string
	Kind            Kind
}

// DefaultLadderOrder is the canonical default ladder (spec.md §4.2 "Missing
// mode.ladder_order is populated with the canonical default ladder"),
// ordered from most to least preferred.
func DefaultLadderOrder() []LadderEntry {
	return []LadderEntry{
		{Mode: GpsIns, RequiredSensors: []string{"gps", "ins"}, Kind: Fused},
		{Mode: Gps, RequiredSensors: []string{"gps"}, Kind: Primary},
		{Mode: Vio, RequiredSensors: []string{"vio"}, Kind: Primary},
		{Mode: Lio, RequiredSensors: []string{"lio"}, Kind: Primary},
		{Mode: RadarInertial, RequiredSensors: []string{"radar", "ins"}, Kind: Fused},
		{Mode: Thermal, RequiredSensors: []string{"thermal"}, OptionalSensors: []string{"ins"}, Kind: Primary},
		{Mode: Radar, RequiredSensors: []string{"radar"}, OptionalSensors: []string{"ins"}, Kind: Primary},
		{Mode: Vision, RequiredSensors: []string{"vision"}, OptionalSensors: []string{"ins"}, Kind: Primary},
		{Mode: Lidar, RequiredSensors: []string{"lidar"}, OptionalSensors: []string{"ins"}, Kind: Primary},
		{Mode: MagBaro, RequiredSensors: []string{"magnetometer", "baro"}, Kind: Fused},
		{Mode: Magnetometer, RequiredSensors: []string{"magnetometer"}, Kind: Primary},
		{Mode: Baro, RequiredSensors: []string{"baro"}, Kind: Primary},
		{Mode: Celestial, RequiredSensors: []string{"celestial"}, Kind: Primary},
		{Mode: DeadReckoning, RequiredSensors: []string{"dead_reckoning"}, Kind: AuxSnapshot},
		{Mode: Inertial, RequiredSensors: []string{"ins"}, Kind: Primary},
		{Mode: Hold, Kind: AuxSnapshot},
	}
}
