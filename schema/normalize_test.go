package schema

import (
	"errors"
	"testing"
)

func TestValidateHostname(t *testing.T) {
	cases := []struct {
		name  string
		host  string
		valid bool
	}{
		{"simple", "kali", true},
		{"with-dash", "kali-rolling", true},
		{"with-digits", "kali2", true},
		{"empty", "", false},
		{"uppercase", "Kali", false},
		{"space", "ka li", false},
		{"leading-dash", "-kali", false},
		{"trailing-space", "kali ", false},
		{"dot", "kali.local", false},
	}

	for _, tc := range cases {
		err := ValidateHostname(tc.host)
		if tc.valid && err != nil {
			t.Fatalf("case %q expected valid, got error: %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("case %q expected error, got nil", tc.name)
		}
	}
}

func TestNormalizeSessionID(t *testing.T) {
	id, err := NormalizeSessionID("  6f1c0b9e-1d2a-4c4b-9f0a-1b2c3d4e5f60 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "6f1c0b9e-1d2a-4c4b-9f0a-1b2c3d4e5f60" {
		t.Fatalf("unexpected id %q", id)
	}
	for _, raw := range []string{"", "../etc", "a b", "id;drop"} {
		if _, err := NormalizeSessionID(raw); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound for %q, got %v", raw, err)
		}
	}
}

func TestNormalizeShellConfigDefaults(t *testing.T) {
	cfg, err := NormalizeShellConfig(ShellConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hostname != DefaultHostname || cfg.SiteName != DefaultSiteName || cfg.BufferMaxLines != DefaultBufferMaxLines {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, err := NormalizeShellConfig(ShellConfig{BufferMaxLines: 3}); err == nil {
		t.Fatalf("expected error for tiny buffer")
	}
}
