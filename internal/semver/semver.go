// Package semver implements the component-wise (major, minor, patch)
// version comparison required for adapter/plugin compatibility ranges
// (spec.md §4.5 rule 5: "Semver comparison is component-wise integer
// (major, minor, patch)"). It deliberately does not implement pre-release
// or build-metadata semantics: the example pack carries no semver library,
// and nothing in the spec's compatibility-range checks needs them.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed (major, minor, patch) triple.
type Version struct {
	Major, Minor, Patch int
}

// Parse accepts "MAJOR.MINOR.PATCH", optionally prefixed with "v".
func Parse(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("semver: %q is not MAJOR.MINOR.PATCH", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("semver: %q has a non-numeric component %q", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Valid reports whether s parses as a semver triple.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than b.
func Compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return sign(a.Major - b.Major)
	case a.Minor != b.Minor:
		return sign(a.Minor - b.Minor)
	default:
		return sign(a.Patch - b.Patch)
	}
}

// InRange reports whether v falls within [min, max] inclusive.
func InRange(v, min, max Version) bool {
	return Compare(v, min) >= 0 && Compare(v, max) <= 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
