package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pkt.systems/ravenshell/internal/appconfig"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "play", "config", "version"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected root command to include %s", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestConfigInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ravenshell", "config.yaml")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "init", "--config", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Fatalf("expected written path in output, got %q", out.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if _, err := appconfig.Load(path); err != nil {
		t.Fatalf("load written config: %v", err)
	}

	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "init", "--config", path})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected second init without --force to fail")
	}
}

func TestToServerConfig(t *testing.T) {
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	cfg.Shell.Hostname = "dragonstone"
	cfg.HTTP.SessionTTLMinutes = 5
	cfg.HTTP.PublicURL = "https://lihammad.com/terminal"

	serverCfg, opts, err := toServerConfig(cfg)
	if err != nil {
		t.Fatalf("toServerConfig: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("expected http and ssh options, got %d", len(opts))
	}
	if serverCfg.Shell.Hostname != "dragonstone" {
		t.Fatalf("expected hostname to carry over, got %q", serverCfg.Shell.Hostname)
	}
	if serverCfg.HTTP.SessionTTL != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %s", serverCfg.HTTP.SessionTTL)
	}
	if serverCfg.SSH.HostKeyPath != cfg.SSH.HostKeyPath {
		t.Fatalf("expected host key path %q, got %q", cfg.SSH.HostKeyPath, serverCfg.SSH.HostKeyPath)
	}

	cfg.SSH.Enabled = false
	cfg.HTTP.Enabled = false
	if _, _, err := toServerConfig(cfg); err == nil {
		t.Fatalf("expected error with both hosts disabled")
	}
}

func TestPrintPublicURL(t *testing.T) {
	var out bytes.Buffer
	printPublicURL(&out, "")
	if !strings.Contains(out.String(), "not set") {
		t.Fatalf("expected missing url notice, got %q", out.String())
	}
	out.Reset()
	printPublicURL(&out, "https://lihammad.com")
	if !strings.Contains(out.String(), "terminal: https://lihammad.com") {
		t.Fatalf("expected url line, got %q", out.String())
	}
	if strings.Count(out.String(), "\n") < 10 {
		t.Fatalf("expected a rendered qr code, got %q", out.String())
	}
}
