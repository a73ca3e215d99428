package trust

import (
	"strings"

	"github.com/airtrace/core/internal/hash"
	"github.com/airtrace/core/internal/semver"
)

// Plugin activation denial reasons (spec.md §4.5, closed set).
const (
	PluginOK               = "ok"
	PluginIDInvalid        = "plugin_id_invalid"
	PluginVersionInvalid   = "plugin_version_invalid"
	PluginNotAuthorized    = "plugin_not_authorized"
	PluginNotAllowlisted   = "plugin_not_allowlisted"
	PluginSignatureInvalid = "plugin_signature_invalid"
)

// PluginAuthorization gates plugin activation (spec.md §3 "PluginAuthRequest").
type PluginAuthorization struct {
	Required bool
	Granted  bool
}

// PluginSignature is a presented (algorithm, hash) pair.
type PluginSignature struct {
	Algorithm string
	Hash      string
}

// PluginAllowlistEntry is the operator-controlled allowlist pairing plus
// its trusted signature.
type PluginAllowlistEntry struct {
	ID        string
	Version   string
	Signature PluginSignature
}

// PluginAuthRequest binds a plugin's identity+version to a presented
// signature and an authorization gate (spec.md §3 "PluginAuthRequest").
type PluginAuthRequest struct {
	ID            string
	Version       string
	Signature     PluginSignature
	Authorization PluginAuthorization
}

// ActivatePlugin applies the three-step plugin activation predicate of
// spec.md §4.5 and returns the first failing reason, or PluginOK.
func ActivatePlugin(req PluginAuthRequest, allow PluginAllowlistEntry) string {
	// 1. Identity id matches [a-z0-9_-]+; version is semver;
	// authorization.required && authorization.granted.
	if !identityPattern.MatchString(req.ID) {
		return PluginIDInvalid
	}
	if !semver.Valid(req.Version) {
		return PluginVersionInvalid
	}
	if req.Authorization.Required && !req.Authorization.Granted {
		return PluginNotAuthorized
	}

	// 2. Allowlist (id, version) equals identity (id, version).
	if allow.ID != req.ID || allow.Version != req.Version {
		return PluginNotAllowlisted
	}

	// 3. Signature algorithm both sides "sha256" (case-insensitive); both
	// hashes are 64 hex characters; case-insensitive hex equality.
	if !strings.EqualFold(req.Signature.Algorithm, "sha256") || !strings.EqualFold(allow.Signature.Algorithm, "sha256") {
		return PluginSignatureInvalid
	}
	if !hash.ValidHex64(req.Signature.Hash) || !hash.ValidHex64(allow.Signature.Hash) {
		return PluginSignatureInvalid
	}
	if !hash.EqualHex(req.Signature.Hash, allow.Signature.Hash) {
		return PluginSignatureInvalid
	}

	return PluginOK
}
