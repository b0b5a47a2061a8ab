package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func TestLinkedVersionWins(t *testing.T) {
	info := &debug.BuildInfo{Main: debug.Module{Path: "example.com/raven", Version: "v9.9.9"}}
	got := fromBuildInfo(info, "v1.2.3")
	if got.Version != "v1.2.3" {
		t.Fatalf("expected linked version, got %q", got.Version)
	}
	if got.String() != "example.com/raven v1.2.3" {
		t.Fatalf("unexpected string %q", got.String())
	}
}

func TestPseudoVersionFromVCS(t *testing.T) {
	ts := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "1234567890abcdef"},
			{Key: "vcs.time", Value: ts.Format(time.RFC3339)},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := fromBuildInfo(info, "")
	if want := "v0.0.0-20250102030405-1234567890ab+dirty"; got.Version != want {
		t.Fatalf("expected %q, got %q", want, got.Version)
	}
	if got.Module != defaultModule {
		t.Fatalf("expected default module, got %q", got.Module)
	}
}

func TestNilBuildInfo(t *testing.T) {
	got := fromBuildInfo(nil, "")
	if !strings.HasSuffix(got.Version, "unknown") {
		t.Fatalf("expected unknown version, got %q", got.Version)
	}
}
