// Package version exposes build metadata for the ktconf binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision()
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Info returns a multi-line summary of the build, omitting unset fields.
func Info() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "version: %s\n", GetVersion())
	fmt.Fprintf(&sb, "revision: %s\n", Revision)

	if Branch != "" {
		fmt.Fprintf(&sb, "branch: %s\n", Branch)
	}
	if BuildUser != "" {
		fmt.Fprintf(&sb, "build user: %s\n", BuildUser)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "build date: %s\n", BuildDate)
	}

	fmt.Fprintf(&sb, "go: %s %s/%s", GoVersion, GoOS, GoArch)

	return sb.String()
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			if len(v.Value) > 7 {
				rev = v.Value[:7]
			} else {
				rev = v.Value
			}

		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
