// Package version holds build information injected at link time.
package version

import "runtime"

// These are set via -ldflags at build time.
var (
	// GitRelease is the release tag (e.g., "v0.3.0").
	GitRelease = "dev"

	// GitCommit is the short commit hash.
	GitCommit = "unknown"

	// GitCommitDate is the commit date.
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain used for the build.
var GoInfo = runtime.Version()
