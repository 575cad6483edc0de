// Package version reports the version of the tablekit binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/tablekit/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/tablekit/internal/version.Commit=abc123"
//
// Unset values are filled from the module and VCS build info, then from a
// dev timestamp.
var (
	Version = ""
	Commit  = ""
	// BuildTime is the VCS commit time when the build info records one.
	BuildTime = ""
)

func init() {
	info, _ := debug.ReadBuildInfo()
	v := fromBuildInfo(info)

	if Version == "" {
		Version = v.Version
	}
	if Commit == "" {
		Commit = v.Commit
	}
	BuildTime = v.BuildTime

	if Version == "" {
		Version = "dev-" + time.Now().Format("20060102-150405")
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo extracts what it can from info, which may be nil. Fields it
// cannot determine are left empty.
func fromBuildInfo(info *debug.BuildInfo) Info {
	var v Info
	if info == nil {
		return v
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; rev != "" {
		v.Commit = rev[:min(7, len(rev))]
		if settings["vcs.modified"] == "true" {
			v.Commit += "-dirty"
		}
	}

	// `go install module@vX.Y.Z` records the tag as the main module version.
	switch mv := info.Main.Version; {
	case mv != "" && mv != "(devel)":
		v.Version = mv
	case settings["vcs.time"] != "":
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			v.Version = "dev-" + t.Format("20060102")
		}
	}
	v.BuildTime = settings["vcs.time"]
	return v
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Info is the build description printed by `tablekit version --format json`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build description of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
