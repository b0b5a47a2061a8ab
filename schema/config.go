package schema

import "errors"

// ShellConfig defines defaults and limits for terminal sessions.
type ShellConfig struct {
	Hostname       string
	SiteName       string
	BufferMaxLines int
}

// DefaultBufferMaxLines is the default scrollback limit per session.
const DefaultBufferMaxLines = 2000

// DefaultSiteName is the site the terminal guards.
const DefaultSiteName = "lihammad.com"

// NormalizeShellConfig applies defaults and validates the config.
func NormalizeShellConfig(cfg ShellConfig) (ShellConfig, error) {
	if cfg.Hostname == "" {
		cfg.Hostname = DefaultHostname
	}
	if cfg.SiteName == "" {
		cfg.SiteName = DefaultSiteName
	}
	if cfg.BufferMaxLines <= 0 {
		cfg.BufferMaxLines = DefaultBufferMaxLines
	}
	if err := ValidateHostname(cfg.Hostname); err != nil {
		return ShellConfig{}, err
	}
	if cfg.BufferMaxLines < 24 {
		return ShellConfig{}, errors.New("buffer max lines must be at least 24")
	}
	return cfg, nil
}
