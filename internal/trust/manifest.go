// Package trust implements the adapter/plugin trust pipeline (spec.md
// §4.5): adapter manifest validation against an allowlist, and plugin
// activation against an identity/signature pair.
package trust

// Surface is one of the UI surfaces an adapter may request (spec.md §4.5
// rule 1, §6 "ui.surface").
type Surface string

const (
	SurfaceTUI            Surface = "tui"
	SurfaceCockpit        Surface = "cockpit"
	SurfaceRemoteOperator Surface = "remote_operator"
	SurfaceC2             Surface = "c2"
)

// Capability is one capability entry carried on a manifest (spec.md §4.5
// rule 6: "non-empty ids/descriptions; range_min ≤ range_max").
type Capability struct {
	ID          string
	Description string
	RangeMin    float64
	RangeMax    float64
}

// UIExtension is one UI-surface extension entry (spec.md §4.5 rule 6:
// "every surface entry valid").
type UIExtension struct {
	ID      string
	Surface Surface
}

// AdapterManifest carries an adapter's declared identity, compatibility
// ranges, and capabilities (spec.md §3 "AdapterManifest").
type AdapterManifest struct {
	AdapterID              string
	AdapterVersion         string
	AdapterContractVersion string
	UIContractVersion      string
	CoreCompatibilityMin   string
	CoreCompatibilityMax   string
	ToolsCompatibilityMin  string
	ToolsCompatibilityMax  string
	UICompatibilityMin     string
	UICompatibilityMax     string
	Capabilities           []Capability
	UIExtensions           []UIExtension
}

// AdapterAllowlistEntry is the operator-controlled allowlist pairing
// (spec.md §3 "AdapterAllowlistEntry").
type AdapterAllowlistEntry struct {
	AdapterID       string
	AdapterVersion  string
	AllowedSurfaces map[Surface]bool
}

// RegistrationContext carries the runtime context the manifest is checked
// against (spec.md §4.5 rule 4-5).
type RegistrationContext struct {
	AdapterContractVersion string
	UIContractVersion      string
	CoreVersion            string
	ToolsVersion           string
	UIVersion              string
	RequestedSurface       Surface
}
