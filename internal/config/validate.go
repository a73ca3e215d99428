package config

import (
	"regexp"
	"strings"

	"github.com/airtrace/core/internal/hash"
	"github.com/airtrace/core/internal/sensor"
	"github.com/airtrace/core/internal/semver"
	"github.com/airtrace/core/internal/trust"
)

var childModuleIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// officialAdapterPrefix marks an adapter id as first-party (spec.md §4.2:
// "non-official adapter id requires adapter.manifest_path"). The spec
// names the rule but not the official/non-official test; first-party
// adapters are namespaced under this prefix by convention.
const officialAdapterPrefix = "airtrace_"

// validateCrossField applies the non-exhaustive cross-field rules of
// spec.md §4.2.
func validateCrossField(cfg *Config) []Issue {
	var issues []Issue
	add := func(key, msg string) { issues = append(issues, Issue{Key: key, Message: msg}) }

	if cfg.Bounds.Min.X > cfg.Bounds.Max.X || cfg.Bounds.Min.Y > cfg.Bounds.Max.Y || cfg.Bounds.Min.Z > cfg.Bounds.Max.Z {
		add("bounds.min", "bounds.min.* must be <= bounds.max.*")
	}
	if cfg.Sim.Dt <= 0 {
		add("sim.dt", "sim.dt must be > 0")
	}
	if cfg.Sim.Steps < 1 {
		add("sim.steps", "sim.steps must be >= 1")
	}

	if cfg.Platform.ProfileParent != "" && cfg.Platform.ProfileParent == cfg.Platform.Profile {
		add("platform.profile_parent", "platform.profile_parent must differ from platform.profile")
	}

	seenModules := make(map[string]bool, len(cfg.Platform.ChildModules))
	for _, m := range cfg.Platform.ChildModules {
		if !childModuleIDPattern.MatchString(m) {
			add("platform.child_modules", "unknown or invalid value")
			break
		}
		if seenModules[m] {
			add("platform.child_modules", "platform.child_modules identifiers must be unique")
			break
		}
		seenModules[m] = true
	}

	if cfg.Policy.ActiveRole != "" && !containsStr(cfg.Policy.Roles, cfg.Policy.ActiveRole) {
		add("policy.active_role", "policy.active_role must be a member of policy.roles")
	}
	for role := range cfg.Policy.RolePermissions {
		if !containsStr(cfg.Policy.Roles, role) {
			add("policy.role_permissions", "every key in policy.role_permissions.* must be a defined role")
			break
		}
	}

	if cfg.Provenance.RunMode != "" && !runModeInAllowedInputs(cfg.Provenance.RunMode, cfg.Provenance.AllowedInputs) {
		add("provenance.run_mode", "provenance.run_mode must be a member of provenance.allowed_inputs")
	}
	if hasDuplicateProvenance(cfg.Provenance.AllowedInputs) {
		add("provenance.allowed_inputs", "provenance.allowed_inputs must be unique")
	}
	if !cfg.Provenance.AllowMixed && len(cfg.Provenance.AllowedInputs) > 1 {
		add("provenance.allowed_inputs", "provenance.allowed_inputs.len must be <= 1 when allow_mixed is false")
	}

	if cfg.Adapter.ID != "" && cfg.Adapter.Version == "" {
		add("adapter.version", "adapter id requires version")
	}
	if cfg.Adapter.ID != "" && !strings.HasPrefix(cfg.Adapter.ID, officialAdapterPrefix) && cfg.Adapter.ManifestPath == "" {
		add("adapter.manifest_path", "non-official adapter id requires adapter.manifest_path")
	}
	if cfg.Adapter.ID != "" && cfg.Adapter.AllowlistPath == "" {
		add("adapter.allowlist_path", "adapter id requires adapter.allowlist_path")
	}
	for _, kv := range []struct{ key, value string }{
		{"adapter.contract_version", cfg.Adapter.ContractVersion},
		{"ui.contract_version", cfg.UI.ContractVersion},
		{"adapter.version", cfg.Adapter.Version},
		{"adapter.core_version", cfg.Adapter.CoreVersion},
		{"adapter.tools_version", cfg.Adapter.ToolsVersion},
		{"adapter.ui_version", cfg.Adapter.UIVersion},
	} {
		if kv.value != "" && !semver.Valid(kv.value) {
			add(kv.key, "must be semver")
		}
	}
	if cfg.UI.Surface != "" && !validUISurface(cfg.UI.Surface) {
		add("ui.surface", "unknown or invalid value")
	}

	pluginFieldsSet := []bool{
		cfg.Plugin.ID != "", cfg.Plugin.Version != "", cfg.Plugin.SignatureAlgorithm != "", cfg.Plugin.SignatureHash != "",
		cfg.Plugin.AllowlistID != "", cfg.Plugin.AllowlistVersion != "", cfg.Plugin.AllowlistSignatureAlgorithm != "", cfg.Plugin.AllowlistSignatureHash != "",
	}
	anySet, allSet := false, true
	for _, s := range pluginFieldsSet {
		if s {
			anySet = true
		} else {
			allSet = false
		}
	}
	if anySet && !allSet {
		add("plugin", "plugin and plugin.allowlist fields are all-or-nothing: either none set, or all set")
	} else if anySet && allSet {
		if cfg.Plugin.SignatureAlgorithm != "sha256" {
			add("plugin.signature_algorithm", "signature_algorithm must be sha256")
		}
		if !hash.ValidHex64(cfg.Plugin.SignatureHash) {
			add("plugin.signature_hash", "hashes must be 64 hex characters")
		}
		if cfg.Plugin.AllowlistSignatureAlgorithm != "sha256" {
			add("plugin.allowlist.signature_algorithm", "signature_algorithm must be sha256")
		}
		if !hash.ValidHex64(cfg.Plugin.AllowlistSignatureHash) {
			add("plugin.allowlist.signature_hash", "hashes must be 64 hex characters")
		}
	}

	return issues
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func hasDuplicateProvenance(list []sensor.Provenance) bool {
	seen := make(map[sensor.Provenance]bool, len(list))
	for _, p := range list {
		if seen[p] {
			return true
		}
		seen[p] = true
	}
	return false
}

func runModeInAllowedInputs(mode RunMode, inputs []sensor.Provenance) bool {
	for _, p := range inputs {
		if string(mode) == strings.ToLower(string(p)) {
			return true
		}
	}
	return false
}

func validUISurface(s trust.Surface) bool {
	switch s {
	case trust.SurfaceTUI, trust.SurfaceCockpit, trust.SurfaceRemoteOperator, trust.SurfaceC2:
		return true
	default:
		return false
	}
}
