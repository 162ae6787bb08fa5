package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MergeConfigFile overlays a YAML file onto an existing config. Fields the
// file does not mention keep their current values, so partial files are
// valid and lower layers show through.
func MergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadConfigFile loads configuration from a YAML file, starting from the
// defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := MergeConfigFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in standard locations.
// Returns empty string if not found (non-fatal).
func FindConfigFile() string {
	locations := []string{
		"./dragonfly.yaml",
		"./dragonfly.yml",
		filepath.Join(os.Getenv("HOME"), ".dragonfly", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".dragonfly", "config.yml"),
		"/etc/dragonfly/config.yaml",
		"/etc/dragonfly/config.yml",
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves configuration to a YAML file.
func SaveConfigFile(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
