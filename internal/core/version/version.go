// Package version reports the build of the running binary.
//
//	go build -ldflags "-X profitscout/internal/core/version.version=v1.4.0 \
//	  -X profitscout/internal/core/version.commit=$(git rev-parse --short HEAD) \
//	  -X profitscout/internal/core/version.date=$(date -u +%F)"
package version

import "runtime/debug"

// Service is the API's service name in logs and build info.
const Service = "profitscout-api"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo is served by /meta/version and printed by the resolver CLI.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the linker-stamped build, filling commit and date from the
// module's VCS stamp when the linker flags were not given.
func Info() BuildInfo {
	b := BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
	if b.Commit != "" {
		return b
	}
	b.Commit, b.Date = "none", "unknown"
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				b.Commit = s.Value[:min(len(s.Value), 7)]
			case "vcs.time":
				b.Date = s.Value
			}
		}
	}
	return b
}
