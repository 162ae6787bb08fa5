package config

import (
	"fmt"
	"os"
	"strings"

	"dragonfly/models"
)

// Validate checks if the configuration is valid for the given subcommand.
//
// FOV and frame-rate checks run for every subcommand: a zero input FOV
// would otherwise surface as a division fault deep in the planner, so it
// is rejected here before any process is spawned.
func (c *Config) Validate(sub string) error {
	var errors []string

	if sub == CmdExtract || sub == CmdRun {
		if c.Input == "" {
			errors = append(errors, "input file is required")
		} else if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("input file does not exist: %s", c.Input))
		}

		if c.FrameCount < 0 {
			errors = append(errors, "frame count cannot be negative")
		}

		if c.InputHFOV <= 0 || c.InputVFOV <= 0 {
			errors = append(errors, fmt.Sprintf("input FOVs must be positive, got %gx%g", c.InputHFOV, c.InputVFOV))
		}
		if c.OutputHFOV <= 0 || c.OutputVFOV <= 0 {
			errors = append(errors, fmt.Sprintf("output FOVs must be positive, got %gx%g", c.OutputHFOV, c.OutputVFOV))
		}

		if _, err := models.ParseInterpolation(c.Interpolation); err != nil {
			errors = append(errors, err.Error())
		}

		if c.MaxConcurrency < 1 {
			errors = append(errors, "max concurrency must be at least 1")
		}

		if c.FrameTimeout < 0 {
			errors = append(errors, "frame timeout cannot be negative (use 0 for unbounded)")
		}
	}

	if sub == CmdEncode || sub == CmdRun {
		if c.Output == "" {
			errors = append(errors, "output file is required")
		}

		if c.Length <= 0 {
			errors = append(errors, "length must be positive")
		}

		if c.FPS <= 0 {
			errors = append(errors, "fps must be positive")
		}

		if c.Scale == "" {
			errors = append(errors, "scale is required")
		}
	}

	if c.FFmpegPath == "" {
		errors = append(errors, "ffmpeg path cannot be empty")
	}
	if c.FFprobePath == "" {
		errors = append(errors, "ffprobe path cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
