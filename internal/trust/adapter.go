package trust

import (
	"regexp"

	"github.com/airtrace/core/internal/semver"
)

// Adapter registration denial reasons (spec.md §4.5, closed set).
const (
	AdapterOK                  = "ok"
	AdapterSchemaInvalid       = "adapter_schema_invalid"
	AdapterNotAllowlisted      = "adapter_not_allowlisted"
	AdapterUIExtensionInvalid  = "adapter_ui_extension_invalid"
	AdapterSurfaceNotAllowed   = "adapter_surface_not_allowed"
	AdapterContractMismatch    = "adapter_contract_mismatch"
	AdapterVersionIncompatible = "adapter_version_incompatible"
	AdapterCapabilityInvalid   = "adapter_capability_invalid"
)

var identityPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// RegisterAdapter applies the six-step adapter registration predicate of
// spec.md §4.5 and returns the first failing reason, or AdapterOK.
func RegisterAdapter(m AdapterManifest, allow AdapterAllowlistEntry, ctx RegistrationContext) string {
	// 1. Identifiers match [a-z0-9_-]+; requested surface is one of the four.
	if !identityPattern.MatchString(m.AdapterID) || !validSurface(ctx.RequestedSurface) {
		return AdapterSchemaInvalid
	}

	// 2. Allowlist pair must equal manifest pair.
	if allow.AdapterID != m.AdapterID || allow.AdapterVersion != m.AdapterVersion {
		return AdapterNotAllowlisted
	}

	// 3. If allowed_surfaces is non-empty, requested surface must appear.
	if len(allow.AllowedSurfaces) > 0 && !allow.AllowedSurfaces[ctx.RequestedSurface] {
		return AdapterSurfaceNotAllowed
	}

	// 4. Contract versions must match the running context exactly.
	if m.AdapterContractVersion != ctx.AdapterContractVersion || m.UIContractVersion != ctx.UIContractVersion {
		return AdapterContractMismatch
	}

	// 5. Core/tools/ui compatibility ranges, component-wise semver.
	if !versionCompatible(ctx.CoreVersion, m.CoreCompatibilityMin, m.CoreCompatibilityMax) ||
		!versionCompatible(ctx.ToolsVersion, m.ToolsCompatibilityMin, m.ToolsCompatibilityMax) ||
		!versionCompatible(ctx.UIVersion, m.UICompatibilityMin, m.UICompatibilityMax) {
		return AdapterVersionIncompatible
	}

	// 6. Capabilities/UI-extensions structurally valid.
	for _, c := range m.Capabilities {
		if c.ID == "" || c.Description == "" || c.RangeMin > c.RangeMax {
			return AdapterCapabilityInvalid
		}
	}
	for _, e := range m.UIExtensions {
		if e.ID == "" || !validSurface(e.Surface) {
			return AdapterUIExtensionInvalid
		}
	}

	return AdapterOK
}

func validSurface(s Surface) bool {
	switch s {
	case SurfaceTUI, SurfaceCockpit, SurfaceRemoteOperator, SurfaceC2:
		return true
	default:
		return false
	}
}

func versionCompatible(version, min, max string) bool {
	v, err := semver.Parse(version)
	if err != nil {
		return false
	}
	lo, err := semver.Parse(min)
	if err != nil {
		return false
	}
	hi, err := semver.Parse(max)
	if err != nil {
		return false
	}
	return semver.InRange(v, lo, hi)
}
