// Package config loads the configuration of the iseprobe command.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the command configuration.
type Config struct {
	Probe   ProbeConfig   `yaml:"probe"`
	Poll    PollConfig    `yaml:"poll"`
	Log     LogConfig     `yaml:"log"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// ProbeConfig selects the device and how to reach it.
type ProbeConfig struct {
	Kind      string `yaml:"kind"`      // mv, ph or orp
	Transport string `yaml:"transport"` // periph or embd
	Bus       string `yaml:"bus"`
	Addr      uint16 `yaml:"addr"`
	// Temperature, when set, is written to the device instead of measuring.
	Temperature *float64 `yaml:"temperature"`
	Compensate  bool     `yaml:"compensate"`
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

type MonitorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Probe: ProbeConfig{
			Kind:      "ph",
			Transport: "periph",
			Addr:      0x3F,
		},
		Poll: PollConfig{
			Interval: 2 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Monitor: MonitorConfig{
			Listen: ":9110",
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: could not parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values the command cannot work with.
func (c *Config) Validate() error {
	switch c.Probe.Transport {
	case "periph", "embd":
	default:
		return fmt.Errorf("config: unknown transport %q", c.Probe.Transport)
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("config: poll interval must be positive, got %v", c.Poll.Interval)
	}
	return nil
}
