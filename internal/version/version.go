package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/ravenshell"

// buildVersion is set via -ldflags "-X pkt.systems/ravenshell/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running binary.
type Info struct {
	Module   string
	Version  string
	Revision string
	Time     time.Time
	Modified bool
}

// String renders "module version" for the version command and server banners.
func (i Info) String() string {
	return i.Module + " " + i.Version
}

// Read collects build information, preferring the linker-provided version.
func Read() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info, buildVersion)
}

// Current returns the best available version string.
func Current() string {
	return Read().Version
}

func fromBuildInfo(info *debug.BuildInfo, linked string) Info {
	out := Info{Module: defaultModule, Version: "v0.0.0-unknown"}
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			out.Module = path
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				out.Revision = setting.Value
			case "vcs.time":
				if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					out.Time = ts.UTC()
				}
			case "vcs.modified":
				out.Modified = setting.Value == "true"
			}
		}
	}
	switch {
	case strings.TrimSpace(linked) != "":
		out.Version = strings.TrimSpace(linked)
	case info != nil && info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = strings.TrimSuffix(info.Main.Version, "+dirty")
	case out.Revision != "" && !out.Time.IsZero():
		out.Version = pseudoVersion(out)
	}
	return out
}

// pseudoVersion mirrors the go toolchain's v0.0.0-time-rev form.
func pseudoVersion(i Info) string {
	rev := i.Revision
	if len(rev) > 12 {
		rev = rev[:12]
	}
	v := "v0.0.0-" + i.Time.Format("20060102150405") + "-" + rev
	if i.Modified {
		v += "+dirty"
	}
	return v
}
