package config

import (
	"fmt"
	"strings"
)

// Load builds the effective configuration for a subcommand with priority:
// CLI flags > config file > environment > defaults.
//
// Validation is left to the caller so -dry-run can display a configuration
// that would not pass.
func Load(sub string, args []string) (*Config, error) {
	// 1. Start with defaults
	cfg := DefaultConfig()

	// 2. Overlay environment variables
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	// 3. Overlay the config file (explicit -config, or standard locations)
	configPath := configFlagValue(args)
	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		if err := MergeConfigFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// 4. Merge CLI flags (highest priority)
	if err := cfg.MergeFromFlags(sub, args); err != nil {
		return nil, err
	}

	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// configFlagValue pre-scans the raw arguments for the -config flag, in both
// the "-config path" and "-config=path" forms, so the file can be chosen
// before the full flag parse.
func configFlagValue(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
