package config

import "time"

// Config holds all dragonfly configuration options.
//
// The external tool paths replace the ambient, env-initialized globals the
// original design relied on: they are resolved once at startup (defaults,
// then FFMPEG_BINARY_PATH / FFPROBE_BINARY_PATH from the environment) and
// the resulting Config is passed explicitly into the prober, scheduler and
// encoder driver.
type Config struct {
	// Paths
	Input     string `yaml:"input" env:"DRAGONFLY_INPUT"`
	Output    string `yaml:"output" env:"DRAGONFLY_OUTPUT"`
	FramesDir string `yaml:"frames_dir" env:"DRAGONFLY_FRAMES_DIR"` // empty = new temp dir on extract, saved session on encode

	// Extraction settings
	FrameCount     int     `yaml:"frame_count" env:"DRAGONFLY_FRAME_COUNT"`
	InputHFOV      float64 `yaml:"input_h_fov" env:"DRAGONFLY_INPUT_H_FOV"` // degrees
	InputVFOV      float64 `yaml:"input_v_fov" env:"DRAGONFLY_INPUT_V_FOV"`
	OutputHFOV     float64 `yaml:"output_h_fov" env:"DRAGONFLY_OUTPUT_H_FOV"`
	OutputVFOV     float64 `yaml:"output_v_fov" env:"DRAGONFLY_OUTPUT_V_FOV"`
	Interpolation  string  `yaml:"interpolation" env:"DRAGONFLY_INTERPOLATION"`
	MaxConcurrency int     `yaml:"max_concurrency" env:"DRAGONFLY_MAX_CONCURRENCY"` // rendering processes in flight

	// FrameTimeout bounds each rendering process; 0 disables the bound.
	// Flag/env only: yaml has no native duration type.
	FrameTimeout time.Duration `yaml:"-" env:"DRAGONFLY_FRAME_TIMEOUT"`

	// Encoding settings
	Length float64 `yaml:"length" env:"DRAGONFLY_LENGTH"` // desired video length in seconds
	FPS    float64 `yaml:"fps" env:"DRAGONFLY_FPS"`       // output frame rate
	Scale  string  `yaml:"scale" env:"DRAGONFLY_SCALE"`   // numeric multiplier or literal scale expression

	// External tools
	FFmpegPath  string `yaml:"ffmpeg_path" env:"FFMPEG_BINARY_PATH"`
	FFprobePath string `yaml:"ffprobe_path" env:"FFPROBE_BINARY_PATH"`

	// Behavioral flags
	LogLevel string `yaml:"log_level" env:"DRAGONFLY_LOG_LEVEL"`
	Verbose  bool   `yaml:"verbose" env:"DRAGONFLY_VERBOSE"`
	DryRun   bool   `yaml:"dry_run"`
}

// DefaultConfig returns configuration with sensible defaults.
//
// The FOV defaults describe a full equirectangular input (360x180) and a
// 60x45 output camera; 360 frames at 4 concurrent renders, encoded into a
// 10 second video at 60 fps.
func DefaultConfig() *Config {
	return &Config{
		// Required - must be provided by user
		Input: "",

		Output:    "output.mp4",
		FramesDir: "",

		FrameCount:     360,
		InputHFOV:      360.0,
		InputVFOV:      180.0,
		OutputHFOV:     60.0,
		OutputVFOV:     45.0,
		Interpolation:  "linear",
		MaxConcurrency: 4,
		FrameTimeout:   0, // unbounded

		Length: 10.0,
		FPS:    60.0,
		Scale:  "1.0",

		FFmpegPath:  defaultFFmpegBinary(),
		FFprobePath: defaultFFprobeBinary(),

		LogLevel: "info",
		Verbose:  false,
		DryRun:   false,
	}
}

// Copy creates a copy of the config.
func (c *Config) Copy() *Config {
	copy := *c
	return &copy
}
