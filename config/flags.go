package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Subcommand names understood by the CLI.
const (
	CmdExtract = "extract"
	CmdEncode  = "encode"
	CmdRun     = "run"
)

// MergeFromFlags parses the subcommand's flags and overrides config values.
// Only flags relevant to the subcommand are registered; "run" accepts the
// union of extract and encode flags.
func (c *Config) MergeFromFlags(sub string, args []string) error {
	fs := flag.NewFlagSet("dragonfly "+sub, flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, sub) }

	// Shared flags
	framesDir := fs.String("frames-dir", "", "Extraction directory (default: new temp dir on extract, saved session on encode)")
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (default: from config)")
	verbose := fs.Bool("verbose", false, "Enable verbose logging (same as -log-level debug)")
	dryRun := fs.Bool("dry-run", false, "Show effective configuration and commands without spawning anything")

	// Extraction flags (sentinel values mean "not set")
	var input *string
	var frameCount, concurrency *int
	var ihFOV, ivFOV, ohFOV, ovFOV *float64
	var interpolation *string
	var frameTimeout *time.Duration
	if sub == CmdExtract || sub == CmdRun {
		input = fs.String("input", "", "Path to input equirectangular image or video (required)")
		frameCount = fs.Int("frame-count", -1, "Number of frames to extract (default: from config)")
		ihFOV = fs.Float64("ih-fov", -1, "Input horizontal field of view in degrees (default: from config)")
		ivFOV = fs.Float64("iv-fov", -1, "Input vertical field of view in degrees (default: from config)")
		ohFOV = fs.Float64("h-fov", -1, "Output horizontal field of view in degrees (default: from config)")
		ovFOV = fs.Float64("v-fov", -1, "Output vertical field of view in degrees (default: from config)")
		interpolation = fs.String("interpolation", "", "Interpolation method for the v360 filter (default: from config)")
		concurrency = fs.Int("concurrency", -1, "Maximum concurrent rendering processes (default: from config)")
		frameTimeout = fs.Duration("frame-timeout", -1, "Per-frame rendering timeout, e.g. 30s (0 = unbounded, default: from config)")
	}

	// Encoding flags
	var output, scale *string
	var length, fps *float64
	if sub == CmdEncode || sub == CmdRun {
		output = fs.String("output", "", "Output video file path (default: from config)")
		length = fs.Float64("length", -1, "Desired length of the video in seconds (default: from config)")
		fps = fs.Float64("fps", -1, "Frame rate of the output video (default: from config)")
		scale = fs.String("scale", "", "Output scale: numeric multiplier or scale filter expression (default: from config)")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Note: config file loading is handled by Load() before this function
	// is called. The -config flag is only used to specify which file to load.

	if *framesDir != "" {
		c.FramesDir = *framesDir
	}
	if *logLevel != "" {
		c.LogLevel = *logLevel
	}
	if *verbose {
		c.Verbose = true
	}
	if *dryRun {
		c.DryRun = true
	}

	if sub == CmdExtract || sub == CmdRun {
		if *input != "" {
			c.Input = *input
		}
		if *frameCount >= 0 {
			c.FrameCount = *frameCount
		}
		if *ihFOV > 0 {
			c.InputHFOV = *ihFOV
		}
		if *ivFOV > 0 {
			c.InputVFOV = *ivFOV
		}
		if *ohFOV > 0 {
			c.OutputHFOV = *ohFOV
		}
		if *ovFOV > 0 {
			c.OutputVFOV = *ovFOV
		}
		if *interpolation != "" {
			c.Interpolation = *interpolation
		}
		if *concurrency > 0 {
			c.MaxConcurrency = *concurrency
		}
		if *frameTimeout >= 0 {
			c.FrameTimeout = *frameTimeout
		}
	}

	if sub == CmdEncode || sub == CmdRun {
		if *output != "" {
			c.Output = *output
		}
		if *length > 0 {
			c.Length = *length
		}
		if *fps > 0 {
			c.FPS = *fps
		}
		if *scale != "" {
			c.Scale = *scale
		}
	}

	return nil
}

// printUsage prints help text for a subcommand.
func printUsage(fs *flag.FlagSet, sub string) {
	switch sub {
	case CmdExtract:
		fmt.Fprintf(os.Stderr, `dragonfly extract - render rectilinear frames from a 360 source

USAGE:
  dragonfly extract -input FILE [OPTIONS]

Sweeps a virtual camera through a full yaw rotation and renders one frame
per orientation with ffmpeg's v360 filter. The extraction directory is
remembered so a later "dragonfly encode" can pick it up.

OPTIONS:
`)
	case CmdEncode:
		fmt.Fprintf(os.Stderr, `dragonfly encode - assemble extracted frames into a video

USAGE:
  dragonfly encode [-frames-dir DIR] [OPTIONS]

Encodes the frames from the most recent extraction (or -frames-dir) into a
seamless fly-around video. The input rate is derived from the frame count
and -length; -fps sets the playback rate independently.

OPTIONS:
`)
	case CmdRun:
		fmt.Fprintf(os.Stderr, `dragonfly run - extract frames and encode the video in one invocation

USAGE:
  dragonfly run -input FILE [OPTIONS]

OPTIONS:
`)
	}
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
CONFIGURATION:
  Priority: CLI flags > config file > environment > defaults.
  Config files are searched in order:
    1. ./dragonfly.yaml
    2. ~/.dragonfly/config.yaml
    3. /etc/dragonfly/config.yaml
  FFMPEG_BINARY_PATH and FFPROBE_BINARY_PATH override the tool locations.
`)
}
