// Package version carries the build identity of the boxlabel binary.
package version

import "fmt"

// Set with -ldflags "-X github.com/MeKo-Tech/boxlabel/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version, commit and build date.
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// String formats the build identity for --version output.
func String() string {
	return fmt.Sprintf("boxlabel version %s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}
