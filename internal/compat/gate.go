// Package compat runs the startup precondition checks: the download store
// must be present, its schema version and the Go runtime must meet the
// configured minimums. Initialization is all-or-nothing; the first failing
// check produces a notice and nothing else starts.
package compat

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

const (
	MinimumRuntimeVersion = "go1.22"
	MinimumStoreVersion   = "4.4.13"

	serviceName = "Download Manager REST API"
)

// Store is the slice of the download store the gate inspects. An empty
// version string means the store is not installed/migrated.
type Store interface {
	SchemaVersion(ctx context.Context) (string, error)
}

// Notice is a one-time human-readable warning for the administrative surface.
type Notice struct {
	Message string
}

type Gate struct {
	store          Store
	runtimeVersion func() string
}

func NewGate(store Store) *Gate {
	return &Gate{
		store:          store,
		runtimeVersion: runtime.Version,
	}
}

// Check runs the three compatibility conditions in order and returns the
// notice for the first failure, or nil when the service may initialize.
func (g *Gate) Check(ctx context.Context) *Notice {
	version, err := g.store.SchemaVersion(ctx)
	if err != nil || version == "" {
		return &Notice{Message: fmt.Sprintf(
			"%s requires the download store to be installed and migrated.", serviceName,
		)}
	}

	if CompareVersions(version, MinimumStoreVersion) < 0 {
		return &Notice{Message: fmt.Sprintf(
			"%s requires download store schema version %s or greater.", serviceName, MinimumStoreVersion,
		)}
	}

	if CompareVersions(g.runtimeVersion(), MinimumRuntimeVersion) < 0 {
		return &Notice{Message: fmt.Sprintf(
			"%s requires Go version %s or greater.", serviceName, MinimumRuntimeVersion,
		)}
	}

	return nil
}

// CompareVersions compares dotted version strings numerically, ignoring a
// leading "go" prefix and any non-numeric suffix on a segment. It returns
// -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := versionSegments(a)
	bs := versionSegments(b)

	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv int
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func versionSegments(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "go")

	parts := strings.Split(v, ".")
	segments := make([]int, 0, len(parts))
	for _, part := range parts {
		digits := part
		for i, r := range part {
			if r < '0' || r > '9' {
				digits = part[:i]
				break
			}
		}
		n, _ := strconv.Atoi(digits)
		segments = append(segments, n)
	}
	return segments
}
