// Package version reports build metadata for --version.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String returns a formatted version string including version, git commit, and build date.
// Builds without ldflags fall back to the module version recorded by the toolchain.
func String() string {
	v := Version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("%s (commit: %s, date: %s)", v, GitCommit, BuildDate)
}
