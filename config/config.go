package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level configuration structure.
type Config struct {
	Sources  []Source `yaml:"sources"`
	Output   string   `yaml:"output,omitempty"`
	Limit    int      `yaml:"limit,omitempty"`    // 0 disables the rule cap
	Optimize bool     `yaml:"optimize,omitempty"` // discard wide generic CSS rules
}

// Source represents a single local filter list.
type Source struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Load reads and parses a converter configuration file. The converter is a
// one-shot command, so there is no reload or shared state to guard.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}
