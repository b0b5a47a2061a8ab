package appconfig

import (
	"testing"

	"pkt.systems/ravenshell/schema"
)

func TestDefaultConfigEnablesBothHosts(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if !cfg.SSH.Enabled || !cfg.HTTP.Enabled {
		t.Fatalf("expected ssh and http enabled by default")
	}
	shell, err := cfg.ShellSettings()
	if err != nil {
		t.Fatalf("shell settings: %v", err)
	}
	if shell.Hostname != schema.DefaultHostname || shell.SiteName != schema.DefaultSiteName {
		t.Fatalf("unexpected shell defaults %+v", shell)
	}
}
