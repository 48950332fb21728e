// pkg/pyversion/version.go
package pyversion

import (
	"fmt"
	"sort"
	"strings"

	version "github.com/hashicorp/go-version"
)

// ParseOutput extracts the version from `python --version` or
// `conda --version` output, e.g. "Python 3.11.4" or "conda 23.7.4".
func ParseOutput(out string) (string, error) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 2 {
		return "", fmt.Errorf("unexpected version output %q", strings.TrimSpace(out))
	}
	v := fields[1]
	if _, err := version.NewVersion(v); err != nil {
		return "", fmt.Errorf("unexpected version output %q: %w", strings.TrimSpace(out), err)
	}
	return v, nil
}

// MajorMinor returns "X.Y" for a version string
func MajorMinor(v string) (string, error) {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return "", err
	}
	seg := parsed.Segments()
	return fmt.Sprintf("%d.%d", seg[0], seg[1]), nil
}

// Major returns the major version number
func Major(v string) (int, error) {
	parsed, err := version.NewVersion(v)
	if err != nil {
		return 0, err
	}
	return parsed.Segments()[0], nil
}

// Compare returns -1, 0 or 1. Unparseable versions sort before parseable ones.
func Compare(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

// SortDescending returns a copy of versions, newest first
func SortDescending(versions []string) []string {
	out := append([]string(nil), versions...)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) > 0
	})
	return out
}

// MinorSublistWithGreaterPatch returns the versions that share current's
// major.minor and have a greater patch, newest first.
//
//	MinorSublistWithGreaterPatch([]string{"3.9.10", "3.9.13", "3.9.9"}, "3.9.10") == []string{"3.9.13"}
func MinorSublistWithGreaterPatch(versions []string, current string) ([]string, error) {
	cur, err := version.NewVersion(current)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", current, err)
	}
	cs := cur.Segments()

	var out []string
	for _, v := range versions {
		parsed, err := version.NewVersion(v)
		if err != nil {
			continue
		}
		s := parsed.Segments()
		if s[0] != cs[0] || s[1] != cs[1] {
			continue
		}
		if s[2] > cs[2] {
			out = append(out, v)
		}
	}
	return SortDescending(out), nil
}
