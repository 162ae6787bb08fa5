package config

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overlays environment variables onto the config using the `env`
// struct tags. Unset variables leave the corresponding fields untouched,
// so this sits between the config file and the CLI flags in the layering.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// defaultFFmpegBinary returns the platform ffmpeg binary name.
func defaultFFmpegBinary() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// defaultFFprobeBinary returns the platform ffprobe binary name.
func defaultFFprobeBinary() string {
	if runtime.GOOS == "windows" {
		return "ffprobe.exe"
	}
	return "ffprobe"
}
