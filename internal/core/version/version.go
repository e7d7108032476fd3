// Package version provides information about the build version of the tool.
package version

// BuildInfo holds version information about the snapgate build.
type BuildInfo struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'snapgate/internal/core/version.version=v0.1.0'
	// -X 'snapgate/internal/core/version.commit=abcd' -X 'snapgate/internal/core/version.date=2026-08-25'"
	return BuildInfo{
		Tool:    "snapgate",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
