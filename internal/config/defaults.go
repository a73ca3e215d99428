package config

// profileDefaultSensors maps each platform profile to its default
// permitted-sensor set, used when platform.permitted_sensors is absent
// (spec.md §4.2: "missing platform.permitted_sensors is populated from a
// profile-derived default"). The spec names the profile set but not its
// sensor mapping; these defaults reflect each platform's typical sensor
// complement and are recorded here as the source of truth.
var profileDefaultSensors = map[Profile][]string{
	ProfileBase:      {"gps", "ins"},
	ProfileAir:       {"gps", "ins", "radar", "thermal", "vision"},
	ProfileGround:    {"gps", "ins", "lidar", "vision", "magnetometer"},
	ProfileMaritime:  {"gps", "ins", "radar", "baro"},
	ProfileSpace:     {"ins", "celestial", "dead_reckoning"},
	ProfileHandheld:  {"gps", "magnetometer", "baro"},
	ProfileFixedSite: {"gps", "ins", "radar", "thermal", "vision", "lidar"},
	ProfileSubsea:    {"ins", "dead_reckoning", "baro"},
}

// canonicalDefaultLadderOrder is the string-keyed mirror of
// mode.DefaultLadderOrder, used when mode.ladder_order is absent (spec.md
// §4.2: "Missing mode.ladder_order is populated with the canonical
// default ladder").
func canonicalDefaultLadderOrder() []string {
	return []string{
		"gps_ins", "gps", "vio", "lio", "radar_inertial", "thermal", "radar",
		"vision", "lidar", "mag_baro", "magnetometer", "baro", "celestial",
		"dead_reckoning", "inertial", "hold",
	}
}

// unionThenApply merges parent defaults with child-specified sensors in
// stable order: parent entries first (skipping duplicates), then any
// child entries not already present (spec.md §4.2: "parent defaults are
// unioned-then-child-applied in stable order").
func unionThenApply(parent, child []string) []string {
	seen := make(map[string]bool, len(parent)+len(child))
	out := make([]string, 0, len(parent)+len(child))
	for _, s := range parent {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range child {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
