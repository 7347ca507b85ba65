// Package config loads the YAML-formatted options a dlinkctl-style
// front end passes to the driver: which transport backend to use, the
// device path backing it, and the two advisory init options the core
// library exposes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of a driver configuration file.
type Config struct {
	Transport      string `yaml:"transport"`       // "loopback", "usbfs", or "mmapfb"
	Path           string `yaml:"path"`             // device/backing-file path, ignored for loopback
	TimeoutMS      uint32 `yaml:"timeout_ms"`
	Verbose        bool   `yaml:"verbose"`
	StrictChecksum bool   `yaml:"strict_checksum"`
}

// Default returns a Config with the loopback transport and a
// conservative timeout, suitable when no file is supplied.
func Default() Config {
	return Config{Transport: "loopback", TimeoutMS: 1000}
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration names a transport this module
// knows how to construct and that transports requiring a backing path
// have one.
func (c Config) Validate() error {
	switch c.Transport {
	case "loopback":
		return nil
	case "usbfs", "mmapfb":
		if c.Path == "" {
			return fmt.Errorf("config: transport %q requires a path", c.Transport)
		}
		return nil
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport)
	}
}
