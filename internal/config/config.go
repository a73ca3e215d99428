// Package config implements the key=value configuration loader and
// validator of spec.md §4.2: strict typed coercion, profile inheritance,
// cross-field validation, and adapter/plugin trust invocation.
package config

import (
	"github.com/airtrace/core/internal/mode"
	"github.com/airtrace/core/internal/sensor"
	"github.com/airtrace/core/internal/state"
	"github.com/airtrace/core/internal/trust"
)

// Profile is one of the platform profiles in the canonical closed set
// (spec.md §6 "platform.profile").
type Profile string

const (
	ProfileBase      Profile = "base"
	ProfileAir       Profile = "air"
	ProfileGround    Profile = "ground"
	ProfileMaritime  Profile = "maritime"
	ProfileSpace     Profile = "space"
	ProfileHandheld  Profile = "handheld"
	ProfileFixedSite Profile = "fixed_site"
	ProfileSubsea    Profile = "subsea"
)

// NetworkAidMode gates whether a network-assisted positioning source may
// be consulted (spec.md §6 "policy.network_aid.mode").
type NetworkAidMode string

const (
	NetworkAidDeny     NetworkAidMode = "deny"
	NetworkAidAllow    NetworkAidMode = "allow"
	NetworkAidTestOnly NetworkAidMode = "test_only"
)

// OverrideAuth is the credential class required to override network_aid
// policy (spec.md §6 "policy.network_aid.override_auth").
type OverrideAuth string

const (
	OverrideAuthCredential OverrideAuth = "credential"
	OverrideAuthKey        OverrideAuth = "key"
	OverrideAuthToken      OverrideAuth = "token"
)

// RunMode is the provenance run mode (spec.md §6 "provenance.run_mode").
type RunMode string

const (
	RunModeOperational RunMode = "operational"
	RunModeSimulation  RunMode = "simulation"
	RunModeTest        RunMode = "test"
)

// Platform carries platform identity and sensor/module scoping.
type Platform struct {
	Profile          Profile
	ProfileParent    Profile
	PermittedSensors []string
	ChildModules     []string
}

// Policy carries the role/permission and network-aid gating surface.
type Policy struct {
	ActiveRole             string
	Roles                  []string
	RolePermissions        map[string][]string
	NetworkAidMode         NetworkAidMode
	NetworkAidOverrideAuth OverrideAuth
}

// Provenance carries the run-mode and input-provenance gating surface.
type Provenance struct {
	RunMode       RunMode
	AllowedInputs []sensor.Provenance
	AllowMixed    bool
	UnknownAction mode.ProvenanceUnknownAction
}

// ModeSection carries the mode-ladder configuration (spec.md §4.1
// "Configuration", projected into mode.Config by Build).
type ModeSection struct {
	LadderOrder []string
	// LadderOptionalSensors overrides a ladder entry's optional sensors by
	// TrackingMode name, set via mode.ladder.<name>.optional_sensors
	// (spec.md §4.1 "M is a tuple (required_sensors, optional_sensors,
	// kind)"); entries absent here keep the canonical default.
	LadderOptionalSensors     map[string][]string
	MinHealthyCount           int
	MinDwellSteps             int
	MaxStaleCount             int
	MaxLowConfidenceCount     int
	LockoutSteps              int
	MaxDisagreementCount      int
	HistoryWindow             int
	MaxResidualAgeSeconds     float64
	AuthorizationRequired     bool
	AuthorizationVerified     bool
	AuthorizationAllowedModes []string
	CelestialAllowed          bool
	CelestialDatasetAvailable bool
}

// Fusion carries cross-sensor fusion thresholds.
type Fusion struct {
	MaxDataAgeSeconds     float64
	DisagreementThreshold float64
	MinConfidence         float64
}

// SchedulerSection carries scheduler budgets (spec.md §6 "scheduler.*").
type SchedulerSection struct {
	PrimaryBudgetMs int
	AuxBudgetMs     int
	MaxAuxPipelines int
}

// AdapterSection carries adapter identity, the manifest/allowlist files
// that vouch for it, and the running core's version context (spec.md
// §4.5). ManifestPath/AllowlistPath are two distinct files: the manifest
// is the adapter's own self-declared identity and capabilities, the
// allowlist is the operator-controlled record of which (id, version)
// pairs and surfaces are actually trusted; ContractVersion/CoreVersion/
// ToolsVersion/UIVersion describe the context the manifest is checked
// against, not the manifest itself.
type AdapterSection struct {
	ID              string
	Version         string
	ContractVersion string
	ManifestPath    string
	AllowlistPath   string
	CoreVersion     string
	ToolsVersion    string
	UIVersion       string
}

// UISection carries UI contract/surface selection.
type UISection struct {
	ContractVersion string
	Surface         trust.Surface
}

// PluginSection carries plugin identity and signature plus the
// operator-controlled allowlist entry it's checked against, all-or-
// nothing on each side independently.
type PluginSection struct {
	ID                          string
	Version                     string
	SignatureAlgorithm          string
	SignatureHash               string
	AuthorizationRequired       bool
	AuthorizationGranted        bool
	AllowlistID                 string
	AllowlistVersion            string
	AllowlistSignatureAlgorithm string
	AllowlistSignatureHash      string
}

// Bounds carries the motion bounds configuration (spec.md §3 "MotionBounds").
type Bounds struct {
	Min state.Vec3
	Max state.Vec3
}

// Sim carries simulation-run parameters.
type Sim struct {
	Dt    float64
	Steps int
	Seed  int64
}

// Config is the fully parsed and validated configuration surface
// (spec.md §4.2 "Output: ConfigResult {config, issues, ok}").
type Config struct {
	Version    string
	Platform   Platform
	Policy     Policy
	Provenance Provenance
	Mode       ModeSection
	Fusion     Fusion
	Scheduler  SchedulerSection
	Adapter    AdapterSection
	UI         UISection
	Plugin     PluginSection
	Bounds     Bounds
	Sim        Sim
}

// Issue is one validation failure (spec.md §4.2: key + message).
type Issue struct {
	Key     string
	Message string
}

// Result is the loader's output (spec.md §4.2 "ConfigResult").
type Result struct {
	Config Config
	Issues []Issue
	OK     bool
}
