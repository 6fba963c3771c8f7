// Package version holds build metadata for the fta binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden at build time:
//
//	go build -ldflags "-X fta/internal/version.Version=1.4.0 -X fta/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Short returns the version, with the abbreviated commit when one is known.
func Short() string {
	commit := resolveCommit()
	if len(commit) > 7 {
		return Version + " (" + commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line output of `fta version`.
func Full() string {
	return fmt.Sprintf("fta %s\ncommit: %s\nbuilt: %s\ngo: %s %s/%s",
		Version, resolveCommit(), BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// resolveCommit prefers the ldflags value and falls back to the VCS stamp
// embedded by the go tool.
func resolveCommit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return Commit
}
