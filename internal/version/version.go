package version

import (
	"fmt"
	"runtime"
)

// Build metadata injected by ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a one-line description of the running build
func Info() string {
	if Version == "dev" {
		return fmt.Sprintf("nomi dev (%s/%s)", runtime.GOOS, runtime.GOARCH)
	}
	return fmt.Sprintf("nomi %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
