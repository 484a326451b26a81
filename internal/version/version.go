// Package version reports the build of the running binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Overridden at release time:
//
//	-ldflags "-X github.com/Layr-Labs/disputectl/internal/version.Version=v1.2.3 -X ...Commit=abc1234"
var (
	Version = "dev"
	Commit  = ""
)

// GetVersion falls back to the module version recorded by `go install`.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func GetFullVersion() string {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	return fmt.Sprintf("%s (%s)", GetVersion(), commit)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "unknown"
}
