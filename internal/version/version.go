package version

import "fmt"

// These variables are set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build identity reported by the CLI and the health endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
}

// Get returns the build identity with the commit shortened.
func Get() Info {
	return Info{Version: Version, Commit: shortCommit(), BuildTime: BuildTime}
}

// String returns the version line printed by `taskboard version`.
func String() string {
	i := Get()
	return fmt.Sprintf("taskboard %s (commit: %s, built: %s)", i.Version, i.Commit, i.BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
