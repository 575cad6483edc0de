package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Expected Version to be set by init")
	}
	if Commit == "" {
		t.Error("Expected Commit to be set by init")
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Version) {
		t.Errorf("Expected %q to start with %q", full, Version)
	}
	if !strings.Contains(full, "commit: "+Commit) {
		t.Errorf("Expected %q to contain the commit", full)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.Commit != Commit {
		t.Errorf("Expected %s/%s, got %+v", Version, Commit, info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("Expected go version %s, got %s", runtime.Version(), info.GoVersion)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Unexpected platform %s", info.Platform)
	}
}

func TestFromBuildInfo(t *testing.T) {
	setting := func(kv ...string) []debug.BuildSetting {
		var out []debug.BuildSetting
		for i := 0; i+1 < len(kv); i += 2 {
			out = append(out, debug.BuildSetting{Key: kv[i], Value: kv[i+1]})
		}
		return out
	}

	tests := []struct {
		name        string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name: "nil",
			info: nil,
		},
		{
			name:        "tagged install",
			info:        &debug.BuildInfo{Main: debug.Module{Version: "v1.4.0"}},
			wantVersion: "v1.4.0",
		},
		{
			name: "dirty checkout",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: setting(
					"vcs.revision", "0123456789abcdef",
					"vcs.modified", "true",
					"vcs.time", "2026-03-01T10:00:00Z",
				),
			},
			wantVersion: "dev-20260301",
			wantCommit:  "0123456-dirty",
		},
		{
			name: "short revision",
			info: &debug.BuildInfo{
				Settings: setting("vcs.revision", "abc"),
			},
			wantCommit: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromBuildInfo(tt.info)
			if got.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", got.Version, tt.wantVersion)
			}
			if got.Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", got.Commit, tt.wantCommit)
			}
		})
	}
}
