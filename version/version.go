package version

import "fmt"

// these values are set at build time via ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	FullVersion = fmt.Sprintf("%s (%s, built %s)", Version, Commit, Date)
)
