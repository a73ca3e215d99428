package config

import (
	"os"

	"github.com/airtrace/core/internal/mode"
	"github.com/airtrace/core/internal/security"
	"github.com/airtrace/core/internal/sensor"
	"github.com/airtrace/core/internal/state"
	"github.com/airtrace/core/internal/trust"
)

// Load reads, parses, defaults, and validates the configuration file at
// path (spec.md §4.2). It never returns a Go error for malformed input;
// problems are reported as Result.Issues with Result.OK == false.
func Load(path string) (Result, error) {
	if err := security.ValidateExportPath(path); err != nil {
		return Result{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	entries, lineIssues := parseLines(f)
	fs := newFieldSet(entries)

	cfg := Config{}
	var issues []Issue
	issues = append(issues, lineIssues...)

	version, ok := fs.str("config.version")
	if !ok || version != "1.0" {
		issues = append(issues, Issue{Key: "config.version", Message: "config.version: unsupported version"})
	}
	cfg.Version = version

	parsePlatform(fs, &cfg)
	parsePolicy(fs, &cfg)
	parseProvenance(fs, &cfg)
	parseModeSection(fs, &cfg)
	parseFusion(fs, &cfg)
	parseScheduler(fs, &cfg)
	parseAdapterUIPlugin(fs, &cfg)
	parseBoundsAndSim(fs, &cfg)

	fs.remainingUnknown()
	issues = append(issues, fs.issues...)

	applyDefaults(&cfg)

	issues = append(issues, validateCrossField(&cfg)...)

	ok2 := len(issues) == 0
	if ok2 && cfg.Adapter.ID != "" {
		if reason := invokeAdapterTrust(cfg); reason != trust.AdapterOK {
			issues = append(issues, Issue{Key: "adapter.id", Message: reason})
			ok2 = false
		}
	}
	if ok2 && cfg.Plugin.ID != "" {
		if reason := invokePluginTrust(cfg); reason != trust.PluginOK {
			issues = append(issues, Issue{Key: "plugin.id", Message: reason})
			ok2 = false
		}
	}

	return Result{Config: cfg, Issues: issues, OK: ok2}, nil
}

func parsePlatform(fs *fieldSet, cfg *Config) {
	if v, ok := fs.str("platform.profile"); ok {
		cfg.Platform.Profile = Profile(v)
	}
	if v, ok := fs.str("platform.profile_parent"); ok {
		cfg.Platform.ProfileParent = Profile(v)
	}
	if v, ok := fs.list("platform.permitted_sensors"); ok {
		cfg.Platform.PermittedSensors = v
	}
	if v, ok := fs.list("platform.child_modules"); ok {
		cfg.Platform.ChildModules = v
	}
}

func parsePolicy(fs *fieldSet, cfg *Config) {
	if v, ok := fs.str("policy.active_role"); ok {
		cfg.Policy.ActiveRole = v
	}
	if v, ok := fs.list("policy.roles"); ok {
		cfg.Policy.Roles = v
	}
	cfg.Policy.RolePermissions = make(map[string][]string)
	for _, role := range cfg.Policy.Roles {
		if v, ok := fs.list("policy.role_permissions." + role); ok {
			cfg.Policy.RolePermissions[role] = v
		}
	}
	if v, ok := fs.str("policy.network_aid.mode"); ok {
		cfg.Policy.NetworkAidMode = NetworkAidMode(v)
	}
	if v, ok := fs.str("policy.network_aid.override_auth"); ok {
		cfg.Policy.NetworkAidOverrideAuth = OverrideAuth(v)
	}
}

func parseProvenance(fs *fieldSet, cfg *Config) {
	if v, ok := fs.str("provenance.run_mode"); ok {
		cfg.Provenance.RunMode = RunMode(v)
	}
	if v, ok := fs.list("provenance.allowed_inputs"); ok {
		for _, s := range v {
			cfg.Provenance.AllowedInputs = append(cfg.Provenance.AllowedInputs, provenanceFromKey(s))
		}
	}
	if v, ok := fs.boolean("provenance.allow_mixed"); ok {
		cfg.Provenance.AllowMixed = v
	}
	if v, ok := fs.str("provenance.unknown_action"); ok {
		cfg.Provenance.UnknownAction = mode.ProvenanceUnknownAction(v)
	}
}

func provenanceFromKey(s string) sensor.Provenance {
	switch s {
	case "operational":
		return sensor.ProvenanceOperational
	case "simulation":
		return sensor.ProvenanceSimulation
	case "test":
		return sensor.ProvenanceTest
	default:
		return sensor.ProvenanceUnknown
	}
}

func parseModeSection(fs *fieldSet, cfg *Config) {
	if v, ok := fs.list("mode.ladder_order"); ok {
		cfg.Mode.LadderOrder = v
	}
	cfg.Mode.LadderOptionalSensors = make(map[string][]string)
	for _, name := range canonicalDefaultLadderOrder() {
		if v, ok := fs.list("mode.ladder." + name + ".optional_sensors"); ok {
			cfg.Mode.LadderOptionalSensors[name] = v
		}
	}
	if v, ok := fs.integer("mode.min_healthy_count"); ok {
		cfg.Mode.MinHealthyCount = v
	}
	if v, ok := fs.integer("mode.min_dwell_steps"); ok {
		cfg.Mode.MinDwellSteps = v
	}
	if v, ok := fs.integer("mode.max_stale_count"); ok {
		cfg.Mode.MaxStaleCount = v
	}
	if v, ok := fs.integer("mode.max_low_confidence_count"); ok {
		cfg.Mode.MaxLowConfidenceCount = v
	}
	if v, ok := fs.integer("mode.lockout_steps"); ok {
		cfg.Mode.LockoutSteps = v
	}
	if v, ok := fs.integer("mode.max_disagreement_count"); ok {
		cfg.Mode.MaxDisagreementCount = v
	}
	if v, ok := fs.integer("mode.history_window"); ok {
		cfg.Mode.HistoryWindow = v
	}
	if v, ok := fs.float("mode.max_residual_age_seconds"); ok {
		cfg.Mode.MaxResidualAgeSeconds = v
	}
	if v, ok := fs.boolean("mode.authorization_required"); ok {
		cfg.Mode.AuthorizationRequired = v
	}
	if v, ok := fs.boolean("mode.authorization_verified"); ok {
		cfg.Mode.AuthorizationVerified = v
	}
	if v, ok := fs.list("mode.authorization_allowed_modes"); ok {
		cfg.Mode.AuthorizationAllowedModes = v
	}
	if v, ok := fs.boolean("mode.celestial_allowed"); ok {
		cfg.Mode.CelestialAllowed = v
	}
	if v, ok := fs.boolean("mode.celestial_dataset_available"); ok {
		cfg.Mode.CelestialDatasetAvailable = v
	}
}

func parseFusion(fs *fieldSet, cfg *Config) {
	if v, ok := fs.float("fusion.max_data_age_seconds"); ok {
		cfg.Fusion.MaxDataAgeSeconds = v
	}
	if v, ok := fs.float("fusion.disagreement_threshold"); ok {
		cfg.Fusion.DisagreementThreshold = v
	}
	if v, ok := fs.float("fusion.min_confidence"); ok {
		cfg.Fusion.MinConfidence = v
	}
}

func parseScheduler(fs *fieldSet, cfg *Config) {
	if v, ok := fs.integer("scheduler.primary_budget_ms"); ok {
		cfg.Scheduler.PrimaryBudgetMs = v
	}
	if v, ok := fs.integer("scheduler.aux_budget_ms"); ok {
		cfg.Scheduler.AuxBudgetMs = v
	}
	if v, ok := fs.integer("scheduler.max_aux_pipelines"); ok {
		cfg.Scheduler.MaxAuxPipelines = v
	}
}

func parseAdapterUIPlugin(fs *fieldSet, cfg *Config) {
	if v, ok := fs.str("adapter.id"); ok {
		cfg.Adapter.ID = v
	}
	if v, ok := fs.str("adapter.version"); ok {
		cfg.Adapter.Version = v
	}
	if v, ok := fs.str("adapter.contract_version"); ok {
		cfg.Adapter.ContractVersion = v
	}
	if v, ok := fs.str("adapter.manifest_path"); ok {
		cfg.Adapter.ManifestPath = v
	}
	if v, ok := fs.str("adapter.allowlist_path"); ok {
		cfg.Adapter.AllowlistPath = v
	}
	if v, ok := fs.str("adapter.core_version"); ok {
		cfg.Adapter.CoreVersion = v
	}
	if v, ok := fs.str("adapter.tools_version"); ok {
		cfg.Adapter.ToolsVersion = v
	}
	if v, ok := fs.str("adapter.ui_version"); ok {
		cfg.Adapter.UIVersion = v
	}
	if v, ok := fs.str("ui.contract_version"); ok {
		cfg.UI.ContractVersion = v
	}
	if v, ok := fs.str("ui.surface"); ok {
		cfg.UI.Surface = trust.Surface(v)
	}
	if v, ok := fs.str("plugin.id"); ok {
		cfg.Plugin.ID = v
	}
	if v, ok := fs.str("plugin.version"); ok {
		cfg.Plugin.Version = v
	}
	if v, ok := fs.str("plugin.signature_algorithm"); ok {
		cfg.Plugin.SignatureAlgorithm = v
	}
	if v, ok := fs.str("plugin.signature_hash"); ok {
		cfg.Plugin.SignatureHash = v
	}
	if v, ok := fs.boolean("plugin.authorization_required"); ok {
		cfg.Plugin.AuthorizationRequired = v
	}
	if v, ok := fs.boolean("plugin.authorization_granted"); ok {
		cfg.Plugin.AuthorizationGranted = v
	}
	if v, ok := fs.str("plugin.allowlist.id"); ok {
		cfg.Plugin.AllowlistID = v
	}
	if v, ok := fs.str("plugin.allowlist.version"); ok {
		cfg.Plugin.AllowlistVersion = v
	}
	if v, ok := fs.str("plugin.allowlist.signature_algorithm"); ok {
		cfg.Plugin.AllowlistSignatureAlgorithm = v
	}
	if v, ok := fs.str("plugin.allowlist.signature_hash"); ok {
		cfg.Plugin.AllowlistSignatureHash = v
	}
}

func parseBoundsAndSim(fs *fieldSet, cfg *Config) {
	cfg.Bounds.Min = vec3From(fs, "bounds.min")
	cfg.Bounds.Max = vec3From(fs, "bounds.max")
	if v, ok := fs.float("sim.dt"); ok {
		cfg.Sim.Dt = v
	}
	if v, ok := fs.integer("sim.steps"); ok {
		cfg.Sim.Steps = v
	}
	if v, ok := fs.integer64("sim.seed"); ok {
		cfg.Sim.Seed = v
	}
}

func vec3From(fs *fieldSet, prefix string) state.Vec3 {
	var v state.Vec3
	if x, ok := fs.float(prefix + ".x"); ok {
		v.X = x
	}
	if y, ok := fs.float(prefix + ".y"); ok {
		v.Y = y
	}
	if z, ok := fs.float(prefix + ".z"); ok {
		v.Z = z
	}
	return v
}

func applyDefaults(cfg *Config) {
	if len(cfg.Platform.PermittedSensors) == 0 {
		parentDefaults := profileDefaultSensors[cfg.Platform.ProfileParent]
		childDefaults := profileDefaultSensors[cfg.Platform.Profile]
		cfg.Platform.PermittedSensors = unionThenApply(parentDefaults, childDefaults)
	}
	if len(cfg.Mode.LadderOrder) == 0 {
		cfg.Mode.LadderOrder = canonicalDefaultLadderOrder()
	}
}

// Core version-context constants a running AirTrace core presents to the
// adapter trust pipeline (spec.md §4.5 rule 5), overridable per-config via
// adapter.core_version/adapter.tools_version/adapter.ui_version. Mirrors
// adapter_registry_loader.cpp's hardcoded kCoreVersion/kToolsVersion/
// kUiVersion/kAdapterContractVersion/kUiContractVersion.
const (
	defaultAdapterCoreVersion     = "1.0.0"
	defaultAdapterToolsVersion    = "1.0.0"
	defaultAdapterUIVersion       = "1.0.0"
	defaultAdapterContractVersion = "1.0.0"
	defaultUIContractVersion      = "1.0.0"
)

func versionOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// invokeAdapterTrust loads the adapter's manifest and allowlist from the
// two distinct files cfg.Adapter.ManifestPath/AllowlistPath name, checks
// the config's declared identity against the manifest's own, and runs
// the manifest through trust.RegisterAdapter against the allowlist entry
// matching that identity and the running core's version context.
func invokeAdapterTrust(cfg Config) string {
	manifest, err := loadAdapterManifest(cfg.Adapter.ManifestPath)
	if err != nil {
		return trust.AdapterSchemaInvalid
	}
	if manifest.AdapterID != cfg.Adapter.ID || manifest.AdapterVersion != cfg.Adapter.Version {
		return trust.AdapterSchemaInvalid
	}

	allow, err := loadAdapterAllowlistEntry(cfg.Adapter.AllowlistPath, manifest.AdapterID, manifest.AdapterVersion)
	if err != nil {
		return trust.AdapterNotAllowlisted
	}

	ctx := trust.RegistrationContext{
		AdapterContractVersion: versionOrDefault(cfg.Adapter.ContractVersion, defaultAdapterContractVersion),
		UIContractVersion:      versionOrDefault(cfg.UI.ContractVersion, defaultUIContractVersion),
		CoreVersion:            versionOrDefault(cfg.Adapter.CoreVersion, defaultAdapterCoreVersion),
		ToolsVersion:           versionOrDefault(cfg.Adapter.ToolsVersion, defaultAdapterToolsVersion),
		UIVersion:              versionOrDefault(cfg.Adapter.UIVersion, defaultAdapterUIVersion),
		RequestedSurface:       cfg.UI.Surface,
	}
	return trust.RegisterAdapter(manifest, allow, ctx)
}

// invokePluginTrust checks the plugin's identity/signature (plugin.*)
// against the operator's allowlist record (plugin.allowlist.*) — two
// independently-set config keys, not the same value compared to itself.
func invokePluginTrust(cfg Config) string {
	req := trust.PluginAuthRequest{
		ID:      cfg.Plugin.ID,
		Version: cfg.Plugin.Version,
		Signature: trust.PluginSignature{
			Algorithm: cfg.Plugin.SignatureAlgorithm,
			Hash:      cfg.Plugin.SignatureHash,
		},
		Authorization: trust.PluginAuthorization{
			Required: cfg.Plugin.AuthorizationRequired,
			Granted:  cfg.Plugin.AuthorizationGranted,
		},
	}
	allow := trust.PluginAllowlistEntry{
		ID:      cfg.Plugin.AllowlistID,
		Version: cfg.Plugin.AllowlistVersion,
		Signature: trust.PluginSignature{
			Algorithm: cfg.Plugin.AllowlistSignatureAlgorithm,
			Hash:      cfg.Plugin.AllowlistSignatureHash,
		},
	}
	return trust.ActivatePlugin(req, allow)
}
