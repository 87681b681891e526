package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func setInjected(t *testing.T, version, commit, date string) {
	t.Helper()
	previousVersion, previousCommit, previousDate := Version, Commit, Date
	t.Cleanup(func() {
		Version, Commit, Date = previousVersion, previousCommit, previousDate
	})
	Version, Commit, Date = version, commit, date
}

func setBuildInfo(t *testing.T, build *debug.BuildInfo) {
	t.Helper()
	previous := readBuildInfo
	t.Cleanup(func() { readBuildInfo = previous })
	readBuildInfo = func() (*debug.BuildInfo, bool) { return build, build != nil }
}

func TestGetDefaultsWhenNothingRecorded(t *testing.T) {
	setInjected(t, "", "", "")
	setBuildInfo(t, nil)

	info := Get()
	if info.Version != "dev" {
		t.Fatalf("expected default version dev, got %q", info.Version)
	}
	if info.Commit != "unknown" {
		t.Fatalf("expected default commit unknown, got %q", info.Commit)
	}
	if info.Date != "unknown" {
		t.Fatalf("expected default date unknown, got %q", info.Date)
	}
}

func TestGetFallsBackToVCSStamps(t *testing.T) {
	setInjected(t, "", "", "")
	setBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123abcd"},
			{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
		},
	})

	info := Get()
	if info.Version != "v1.4.0" || info.Commit != "0123abcd" || info.Date != "2026-03-01T10:00:00Z" {
		t.Fatalf("Get() = %+v, want VCS values", info)
	}
}

func TestGetPrefersInjectedValues(t *testing.T) {
	setInjected(t, "v9.9.9", "feedface", "2026-01-01T00:00:00Z")
	setBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123abcd"}},
	})

	info := Get()
	if info.Version != "v9.9.9" || info.Commit != "feedface" || info.Date != "2026-01-01T00:00:00Z" {
		t.Fatalf("Get() = %+v, want injected values", info)
	}
}

func TestGetIgnoresDevelVersion(t *testing.T) {
	setInjected(t, "", "", "")
	setBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	if info := Get(); info.Version != "dev" {
		t.Fatalf("expected dev for (devel) builds, got %q", info.Version)
	}
}

func TestInfoStringHasStableFormat(t *testing.T) {
	info := Info{
		Version: "v1.2.3",
		Commit:  "abc123",
		Date:    "2026-01-01T00:00:00Z",
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	output := info.String()
	lines := strings.Split(output, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), output)
	}

	expectedPrefixes := []string{
		"filesum ",
		"commit: ",
		"built:  ",
		"go:     ",
		"os/arch:",
	}

	for i, prefix := range expectedPrefixes {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Fatalf("line %d expected prefix %q, got %q", i+1, prefix, lines[i])
		}
	}
}
