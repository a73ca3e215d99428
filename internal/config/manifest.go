package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/airtrace/core/internal/security"
	"github.com/airtrace/core/internal/trust"
)

// jsonCapability/jsonUIExtension/jsonManifest mirror the on-disk adapter
// manifest document (spec.md §4.5 "AdapterManifest"), grounded on
// adapter_registry_loader.cpp's parseManifest: a JSON object with
// dotted-string keys for identity/compatibility and array fields for
// capabilities/UI extensions.
type jsonCapability struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	RangeMin    float64 `json:"range_min"`
	RangeMax    float64 `json:"range_max"`
}

type jsonUIExtension struct {
	FieldID  string   `json:"field_id"`
	Surfaces []string `json:"surfaces"`
}

type jsonManifest struct {
	AdapterID              string            `json:"adapter.id"`
	AdapterVersion         string            `json:"adapter.version"`
	AdapterContractVersion string            `json:"adapter.contract_version"`
	UIContractVersion      string            `json:"ui.contract_version"`
	CoreCompatibilityMin   string            `json:"core.compatibility.min"`
	CoreCompatibilityMax   string            `json:"core.compatibility.max"`
	ToolsCompatibilityMin  string            `json:"tools.compatibility.min"`
	ToolsCompatibilityMax  string            `json:"tools.compatibility.max"`
	UICompatibilityMin     string            `json:"ui.compatibility.min"`
	UICompatibilityMax     string            `json:"ui.compatibility.max"`
	Capabilities           []jsonCapability  `json:"capabilities"`
	UIExtensions           []jsonUIExtension `json:"ui_extensions"`
}

// loadAdapterManifest reads and parses the adapter manifest file at path
// into a trust.AdapterManifest. The path is validated against the same
// cwd/temp-dir guard config.Load applies to the config file itself before
// it is ever opened.
func loadAdapterManifest(path string) (trust.AdapterManifest, error) {
	if path == "" {
		return trust.AdapterManifest{}, fmt.Errorf("adapter manifest path is empty")
	}
	if err := security.ValidateExportPath(path); err != nil {
		return trust.AdapterManifest{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return trust.AdapterManifest{}, err
	}

	var jm jsonManifest
	if err := json.Unmarshal(data, &jm); err != nil {
		return trust.AdapterManifest{}, err
	}

	m := trust.AdapterManifest{
		AdapterID:              jm.AdapterID,
		AdapterVersion:         jm.AdapterVersion,
		AdapterContractVersion: jm.AdapterContractVersion,
		UIContractVersion:      jm.UIContractVersion,
		CoreCompatibilityMin:   jm.CoreCompatibilityMin,
		CoreCompatibilityMax:   jm.CoreCompatibilityMax,
		ToolsCompatibilityMin:  jm.ToolsCompatibilityMin,
		ToolsCompatibilityMax:  jm.ToolsCompatibilityMax,
		UICompatibilityMin:     jm.UICompatibilityMin,
		UICompatibilityMax:     jm.UICompatibilityMax,
	}
	for _, c := range jm.Capabilities {
		m.Capabilities = append(m.Capabilities, trust.Capability{
			ID:          c.ID,
			Description: c.Description,
			RangeMin:    c.RangeMin,
			RangeMax:    c.RangeMax,
		})
	}
	for _, e := range jm.UIExtensions {
		for _, surface := range e.Surfaces {
			m.UIExtensions = append(m.UIExtensions, trust.UIExtension{
				ID:      e.FieldID,
				Surface: trust.Surface(surface),
			})
		}
	}
	return m, nil
}

// jsonAdapterAllowlistEntry/jsonAdapterAllowlist mirror the operator's
// allowlist document, grounded on adapter_registry_loader.cpp's
// parseAllowlist: a JSON object carrying an "entries" array, each paired
// to an (adapter.id, adapter.version) identity plus its allowed surfaces.
type jsonAdapterAllowlistEntry struct {
	AdapterID       string   `json:"adapter.id"`
	AdapterVersion  string   `json:"adapter.version"`
	AllowedSurfaces []string `json:"allowed_surfaces"`
}

type jsonAdapterAllowlist struct {
	Entries []jsonAdapterAllowlistEntry `json:"entries"`
}

// loadAdapterAllowlistEntry reads the allowlist file at path and returns
// the entry matching (adapterID, adapterVersion), the identity carried by
// the manifest rather than the raw config fields — an allowlist file the
// operator controls independently of what any single config declares.
func loadAdapterAllowlistEntry(path, adapterID, adapterVersion string) (trust.AdapterAllowlistEntry, error) {
	if path == "" {
		return trust.AdapterAllowlistEntry{}, fmt.Errorf("adapter allowlist path is empty")
	}
	if err := security.ValidateExportPath(path); err != nil {
		return trust.AdapterAllowlistEntry{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return trust.AdapterAllowlistEntry{}, err
	}

	var al jsonAdapterAllowlist
	if err := json.Unmarshal(data, &al); err != nil {
		return trust.AdapterAllowlistEntry{}, err
	}

	for _, entry := range al.Entries {
		if entry.AdapterID != adapterID || entry.AdapterVersion != adapterVersion {
			continue
		}
		allowed := make(map[trust.Surface]bool, len(entry.AllowedSurfaces))
		for _, s := range entry.AllowedSurfaces {
			allowed[trust.Surface(s)] = true
		}
		return trust.AdapterAllowlistEntry{
			AdapterID:       entry.AdapterID,
			AdapterVersion:  entry.AdapterVersion,
			AllowedSurfaces: allowed,
		}, nil
	}
	return trust.AdapterAllowlistEntry{}, fmt.Errorf("adapter %q version %q not present in allowlist %s", adapterID, adapterVersion, path)
}
