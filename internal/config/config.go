// Package config loads command configuration from YAML files and environment variables.
// Precedence: environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/rrdplugin/format"
)

// Environment variables overriding the config file.
const (
	EnvPath     = "RRD_PATH"
	EnvLogLevel = "RRD_LOG_LEVEL"
	EnvInterval = "RRD_INTERVAL"
)

// Duration wraps time.Duration so it can be written as "5s" in YAML.
type Duration struct {
	time.Duration
}

// UnmarshalYAML accepts duration strings such as "5s" or "1m30s".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// Config holds the configuration of the reporter commands.
type Config struct {
	Plugin  PluginConfig  `yaml:"plugin"`
	Publish PublishConfig `yaml:"publish"`
	Archive ArchiveConfig `yaml:"archive"`
	Logging LoggingConfig `yaml:"logging"`
	Host    HostConfig    `yaml:"host"`
}

// PluginConfig names the plugin and its snapshot file.
type PluginConfig struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
	Path   string `yaml:"path"`
}

// PublishConfig holds publish loop settings.
type PublishConfig struct {
	Interval Duration `yaml:"interval"`
}

// ArchiveConfig holds snapshot archive settings.
type ArchiveConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"`
	Keep        int    `yaml:"keep"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// HostConfig selects the host metrics reported by rrdhost.
type HostConfig struct {
	CPU     bool `yaml:"cpu"`
	Memory  bool `yaml:"memory"`
	Load    bool `yaml:"load"`
	Uptime  bool `yaml:"uptime"`
	Network bool `yaml:"network"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Plugin: PluginConfig{
			Name:   "xcp-rrdd-host",
			Domain: "local",
			Path:   "/dev/shm/metrics/xcp-rrdd-host",
		},
		Publish: PublishConfig{
			Interval: Duration{5 * time.Second},
		},
		Archive: ArchiveConfig{
			Enabled:     false,
			Dir:         "./snapshots",
			Compression: "zstd",
			Keep:        16,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Host: HostConfig{
			CPU:     true,
			Memory:  true,
			Load:    true,
			Uptime:  true,
			Network: false,
		},
	}
}

// LoadFromBytes parses YAML configuration and merges it with defaults.
// Environment variables override values from data.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads configuration from a YAML file and merges it with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

func applyEnvOverrides(cfg *Config) error {
	if path := os.Getenv(EnvPath); path != "" {
		cfg.Plugin.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if interval := os.Getenv(EnvInterval); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvInterval, interval, err)
		}
		cfg.Publish.Interval = Duration{d}
	}

	return nil
}

// Validate checks that the configuration can start a plugin.
func (c *Config) Validate() error {
	if c.Plugin.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if c.Plugin.Path == "" {
		return fmt.Errorf("plugin path is required")
	}
	if _, err := format.ParseDomain(c.Plugin.Domain); err != nil {
		return err
	}
	if c.Publish.Interval.Duration <= 0 {
		return fmt.Errorf("publish interval must be positive (got: %s)", c.Publish.Interval)
	}

	if c.Archive.Enabled {
		if c.Archive.Dir == "" {
			return fmt.Errorf("archive dir is required when archiving is enabled")
		}
		if _, err := format.ParseCompression(c.Archive.Compression); err != nil {
			return err
		}
		if c.Archive.Keep < 0 {
			return fmt.Errorf("archive keep must not be negative (got: %d)", c.Archive.Keep)
		}
	}

	return nil
}

// Domain returns the parsed plugin domain.
func (c *Config) Domain() format.Domain {
	d, _ := format.ParseDomain(c.Plugin.Domain)
	return d
}

// Compression returns the parsed archive compression.
func (c *Config) Compression() format.CompressionType {
	ct, _ := format.ParseCompression(c.Archive.Compression)
	return ct
}
