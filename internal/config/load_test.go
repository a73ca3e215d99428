package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "airtrace.conf")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalValidConfig = `
# minimal valid config
config.version = 1.0
platform.profile = air
sim.dt = 0.1
sim.steps = 100
sim.seed = 42
bounds.min.x = -100
bounds.max.x = 100
`

func TestLoadMinimalValidConfig(t *testing.T) {
	path := writeTempConfig(t, minimalValidConfig)
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("expected ok, got issues: %+v", res.Issues)
	}
	if res.Config.Platform.Profile != ProfileAir {
		t.Fatalf("want air profile, got %s", res.Config.Platform.Profile)
	}
	if len(res.Config.Platform.PermittedSensors) == 0 {
		t.Fatal("expected profile-derived default permitted sensors")
	}
	if len(res.Config.Mode.LadderOrder) != 16 {
		t.Fatalf("want canonical 16-entry default ladder, got %d", len(res.Config.Mode.LadderOrder))
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	path := writeTempConfig(t, "config.version = 2.0\nsim.dt = 0.1\nsim.steps = 1\n")
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected not ok for unsupported version")
	}
	foundVersionIssue := false
	for _, iss := range res.Issues {
		if iss.Message == "config.version: unsupported version" {
			foundVersionIssue = true
		}
	}
	if !foundVersionIssue {
		t.Fatalf("expected version issue, got %+v", res.Issues)
	}
}

func TestLoadRejectsMissingEquals(t *testing.T) {
	path := writeTempConfig(t, "config.version = 1.0\nsim.dt\nsim.steps = 1\n")
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected not ok for malformed line")
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeTempConfig(t, "config.version = 1.0\nsim.dt = 0.1\nsim.steps = 1\nbogus.key = nonsense\n")
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected not ok for unknown key")
	}
}

func TestLoadProfileParentInheritance(t *testing.T) {
	body := `
config.version = 1.0
platform.profile = air
platform.profile_parent = base
sim.dt = 0.1
sim.steps = 1
`
	path := writeTempConfig(t, body)
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("expected ok, got %+v", res.Issues)
	}
	sensors := res.Config.Platform.PermittedSensors
	if !containsStr(sensors, "gps") || !containsStr(sensors, "radar") {
		t.Fatalf("expected union of base+air defaults, got %v", sensors)
	}
}

func TestLoadRejectsSameProfileParent(t *testing.T) {
	body := `
config.version = 1.0
platform.profile = air
platform.profile_parent = air
sim.dt = 0.1
sim.steps = 1
`
	path := writeTempConfig(t, body)
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected not ok: profile_parent must differ from profile")
	}
}

func TestLoadPluginAllOrNothing(t *testing.T) {
	body := `
config.version = 1.0
sim.dt = 0.1
sim.steps = 1
plugin.id = acme
`
	path := writeTempConfig(t, body)
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected not ok: plugin fields are all-or-nothing")
	}
}

const adapterManifestJSON = `{
  "adapter.id": "widget_radar",
  "adapter.version": "2.1.0",
  "adapter.contract_version": "1.0.0",
  "ui.contract_version": "1.0.0",
  "core.compatibility.min": "1.0.0",
  "core.compatibility.max": "2.0.0",
  "tools.compatibility.min": "1.0.0",
  "tools.compatibility.max": "2.0.0",
  "ui.compatibility.min": "1.0.0",
  "ui.compatibility.max": "2.0.0"
}`

func writeAdapterFixtures(t *testing.T, allowedSurfaces string) (manifestPath, allowlistPath string) {
	t.Helper()
	dir := t.TempDir()
	manifestPath = filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(manifestPath, []byte(adapterManifestJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	allowlistPath = filepath.Join(dir, "allowlist.json")
	allowlistBody := `{"entries": [{"adapter.id": "widget_radar", "adapter.version": "2.1.0", "allowed_surfaces": [` + allowedSurfaces + `]}]}`
	if err := os.WriteFile(allowlistPath, []byte(allowlistBody), 0o644); err != nil {
		t.Fatal(err)
	}
	return manifestPath, allowlistPath
}

func adapterConfigBody(manifestPath, allowlistPath string) string {
	return `
config.version = 1.0
sim.dt = 0.1
sim.steps = 1
adapter.id = widget_radar
adapter.version = 2.1.0
adapter.manifest_path = ` + manifestPath + `
adapter.allowlist_path = ` + allowlistPath + `
ui.surface = tui
`
}

func TestLoadAdapterTrustAcceptsAllowlistedAdapter(t *testing.T) {
	manifestPath, allowlistPath := writeAdapterFixtures(t, `"tui"`)
	path := writeTempConfig(t, adapterConfigBody(manifestPath, allowlistPath))
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("expected ok, got issues: %+v", res.Issues)
	}
}

func TestLoadAdapterTrustRejectsSurfaceMissingFromAllowlist(t *testing.T) {
	manifestPath, allowlistPath := writeAdapterFixtures(t, `"cockpit"`)
	path := writeTempConfig(t, adapterConfigBody(manifestPath, allowlistPath))
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected not ok: tui surface not present in allowlist entry")
	}
	found := false
	for _, iss := range res.Issues {
		if iss.Message == "adapter_surface_not_allowed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected adapter_surface_not_allowed issue, got %+v", res.Issues)
	}
}

func TestLoadAdapterTrustRejectsUnlistedAdapterID(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(manifestPath, []byte(adapterManifestJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	allowlistPath := filepath.Join(dir, "allowlist.json")
	// Allowlist names a different adapter entirely: the identity side and
	// the allowlist side must be independently sourced, so this must fail
	// rather than trivially match.
	allowlistBody := `{"entries": [{"adapter.id": "other_vendor", "adapter.version": "9.9.9", "allowed_surfaces": ["tui"]}]}`
	if err := os.WriteFile(allowlistPath, []byte(allowlistBody), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeTempConfig(t, adapterConfigBody(manifestPath, allowlistPath))
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatal("expected not ok: allowlist names a different adapter")
	}
	found := false
	for _, iss := range res.Issues {
		if iss.Message == "adapter_not_allowlisted" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected adapter_not_allowlisted issue, got %+v", res.Issues)
	}
}

func TestLoadAdapterTrustUsesDefaultVersionContextWhenUnset(t *testing.T) {
	// Manifest's compatibility ranges bracket the hardcoded 1.0.0 default
	// context: with no adapter.core_version/tools_version/ui_version set,
	// registration must still succeed rather than unconditionally failing
	// on an empty RegistrationContext.
	manifestPath, allowlistPath := writeAdapterFixtures(t, `"tui"`)
	path := writeTempConfig(t, adapterConfigBody(manifestPath, allowlistPath))
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("expected ok with defaulted version context, got issues: %+v", res.Issues)
	}
	if res.Config.Adapter.CoreVersion != "" {
		t.Fatalf("expected raw config field to remain unset, got %q", res.Config.Adapter.CoreVersion)
	}
}

func TestLoadPluginTrustDistinguishesIdentityFromAllowlist(t *testing.T) {
	hash := "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"
	body := `
config.version = 1.0
sim.dt = 0.1
sim.steps = 1
plugin.id = acme_plugin
plugin.version = 1.0.0
plugin.signature_algorithm = sha256
plugin.signature_hash = ` + hash + `
plugin.allowlist.id = acme_plugin
plugin.allowlist.version = 1.0.0
plugin.allowlist.signature_algorithm = sha256
plugin.allowlist.signature_hash = ` + hash + `
`
	path := writeTempConfig(t, body)
	res, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("expected ok, got issues: %+v", res.Issues)
	}

	badBody := `
config.version = 1.0
sim.dt = 0.1
sim.steps = 1
plugin.id = acme_plugin
plugin.version = 1.0.0
plugin.signature_algorithm = sha256
plugin.signature_hash = ` + hash + `
plugin.allowlist.id = acme_plugin
plugin.allowlist.version = 2.0.0
plugin.allowlist.signature_algorithm = sha256
plugin.allowlist.signature_hash = ` + hash + `
`
	badPath := writeTempConfig(t, badBody)
	badRes, err := Load(badPath)
	if err != nil {
		t.Fatal(err)
	}
	if badRes.OK {
		t.Fatal("expected not ok: allowlist version differs from plugin version")
	}
}
