// Package version identifies the running propsearch build.
package version

// Stamped by the release pipeline through
// -ldflags "-X github.com/openbrik/propsearch/internal/version.Version=...".
// Local builds report the defaults below.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
