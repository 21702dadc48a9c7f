// ============================================================================
// occlum-exec - Client for the Occlum execution service
// ============================================================================
//
// Package:     version
// Description: Build version information
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Client is the release version of the client
const Client = "1.0.0"

// Set at build time via -ldflags "-X github.com/msto63/occlum-exec/pkg/core/version.GitCommit=..."
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// String returns a one-line description of the build
func String() string {
	return fmt.Sprintf("occlum-exec v%s (commit %s, built %s, %s %s/%s)",
		Client, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
