// Package version exposes build information for the codexheader binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the release version, set via ldflags.
	Version = "dev"
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the VCS revision embedded by the Go toolchain.
	Revision = getRevision()
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// String formats the build information on one line.
func String() string {
	s := fmt.Sprintf("codexheader %s (revision %s, %s %s/%s)", Version, Revision, GoVersion, GoOS, GoArch)
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}

func getRevision() string {
	rev := "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}
	return rev
}
