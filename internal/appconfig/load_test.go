package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion || cfg.SSH.Addr != ":2222" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 9
shell:
  hostname: kali
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
shell:
  hostname: kali
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected config_version required error, got %v", err)
	}
}

func TestLoadOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("RAVEN_KEYS", "/srv/keys")
	path := writeConfig(t, `
config_version: 1
shell:
  hostname: dragonstone
  site_name: example.org
ssh:
  addr: ":2022"
  host_key_path: $RAVEN_KEYS/host
http:
  enabled: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Shell.Hostname != "dragonstone" || cfg.Shell.SiteName != "example.org" {
		t.Fatalf("unexpected shell config %+v", cfg.Shell)
	}
	if cfg.SSH.Addr != ":2022" || cfg.SSH.HostKeyPath != "/srv/keys/host" {
		t.Fatalf("unexpected ssh config %+v", cfg.SSH)
	}
	if cfg.HTTP.Enabled {
		t.Fatalf("expected http disabled")
	}
	if cfg.HTTP.SessionTTLMinutes != 30 {
		t.Fatalf("expected default ttl kept, got %d", cfg.HTTP.SessionTTLMinutes)
	}
}

func TestLoadRejectsInvalidHostname(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
shell:
  hostname: "-bad-"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "shell:") {
		t.Fatalf("expected hostname error, got %v", err)
	}
}

func TestLoadRejectsInvalidPublicURL(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
http:
  public_url: raven.example
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "http.public_url") {
		t.Fatalf("expected public_url error, got %v", err)
	}
}

func TestLoadRejectsAllHostsDisabled(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
ssh:
  enabled: false
http:
  enabled: false
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error when every host is disabled")
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected %s, got %s", path, written)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load written default: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("unexpected version %d", cfg.ConfigVersion)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
http:
  addr: ":9090"
`)
	t.Setenv("RAVENSHELL_HTTP_ADDR", ":7070")
	t.Setenv("RAVENSHELL_SHELL_HOSTNAME", "winterfell")
	t.Setenv("RAVENSHELL_SSH_ENABLED", "false")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("expected env to override file, got %q", cfg.HTTP.Addr)
	}
	if cfg.Shell.Hostname != "winterfell" {
		t.Fatalf("expected env hostname, got %q", cfg.Shell.Hostname)
	}
	if cfg.SSH.Enabled {
		t.Fatalf("expected ssh disabled from env")
	}
}
