// Package version holds build-time identity used to stamp audit records.
package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// BuildID combines the three build-time values into the audit record's
// build_id field (spec.md §6 "Audit sink").
func BuildID() string {
	return Version + "+" + GitSHA + "+" + BuildTime
}
