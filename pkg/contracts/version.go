package contracts

import (
	"fmt"
	"runtime"
)

const (
	// AppName is the short binary/product name.
	AppName = "epipulse"

	// Version is the current release of the application.
	Version = "0.1.0"
)

// Build metadata, overridable at link time:
//
//	go build -ldflags "-X epipulse/pkg/contracts.BuildTime=... -X epipulse/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// GetFullVersionString renders the one-line banner printed by -version.
func GetFullVersionString() string {
	return fmt.Sprintf("%s v%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		AppName, Version, BuildTime, GitCommit,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies outbound HTTP requests, currently only the dataset
// download.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s)", AppName, Version, runtime.GOOS, runtime.GOARCH)
}
