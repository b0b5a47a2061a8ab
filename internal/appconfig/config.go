package appconfig

import (
	"os"
	"path/filepath"

	"pkt.systems/ravenshell/schema"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int         `mapstructure:"config_version" yaml:"config_version"`
	Shell         ShellConfig `mapstructure:"shell" yaml:"shell"`
	SSH           SSHConfig   `mapstructure:"ssh" yaml:"ssh"`
	HTTP          HTTPConfig  `mapstructure:"http" yaml:"http"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// ShellConfig controls the fake terminal itself.
type ShellConfig struct {
	Hostname       string `mapstructure:"hostname" yaml:"hostname"`
	SiteName       string `mapstructure:"site_name" yaml:"site_name"`
	BufferMaxLines int    `mapstructure:"buffer_max_lines" yaml:"buffer_max_lines"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr              string `mapstructure:"addr" yaml:"addr"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes" yaml:"session_ttl_minutes"`
	StreamHistory     int    `mapstructure:"stream_history" yaml:"stream_history"`
	PublicURL         string `mapstructure:"public_url" yaml:"public_url"`
}

// ShellSettings converts the shell section to the schema form used by hosts.
func (c Config) ShellSettings() (schema.ShellConfig, error) {
	return schema.NormalizeShellConfig(schema.ShellConfig{
		Hostname:       c.Shell.Hostname,
		SiteName:       c.Shell.SiteName,
		BufferMaxLines: c.Shell.BufferMaxLines,
	})
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Shell: ShellConfig{
			Hostname:       schema.DefaultHostname,
			SiteName:       schema.DefaultSiteName,
			BufferMaxLines: schema.DefaultBufferMaxLines,
		},
		SSH: SSHConfig{
			Enabled:     true,
			Addr:        ":2222",
			HostKeyPath: filepath.Join(home, ".ravenshell", "ssh_host_key"),
		},
		HTTP: HTTPConfig{
			Enabled:           true,
			Addr:              ":8080",
			SessionTTLMinutes: 30,
			StreamHistory:     1000,
			PublicURL:         "",
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ravenshell", "config.yaml"), nil
}
