// Package encode builds the single FFmpeg invocation that assembles the
// extracted frame sequence into the final video.
package encode

import (
	"fmt"
	"strconv"

	"dragonfly/command"
	"dragonfly/internal/frameutil"
)

// Builder constructs the FFmpeg arguments for the encode phase.
//
// The input rate is derived from the frame count and desired length, while
// the output rate is a separate parameter: feeding frames in at one
// cadence and emitting at another is what produces the smooth
// frame-blended playback.
type Builder struct {
	framesDir  string
	outputPath string

	frameCount int
	length     float64
	fps        float64
	scale      string

	codec    string
	preset   string
	crf      int
	pixelFmt string
	tune     string
}

// NewBuilder creates a Builder for the given frames directory and output
// path with a still-image-tuned x264 profile.
func NewBuilder(framesDir, outputPath string) *Builder {
	return &Builder{
		framesDir:  framesDir,
		outputPath: outputPath,
		length:     10.0,
		fps:        60.0,
		scale:      "1.0",
		codec:      "libx264",
		preset:     "slow",
		crf:        18,
		pixelFmt:   "yuv420p",
		tune:       "stillimage",
	}
}

// SetFrameCount sets the number of frames found in the frames directory.
func (b *Builder) SetFrameCount(count int) *Builder {
	b.frameCount = count
	return b
}

// SetLength sets the desired video length in seconds.
func (b *Builder) SetLength(seconds float64) *Builder {
	b.length = seconds
	return b
}

// SetFPS sets the output frame rate.
func (b *Builder) SetFPS(fps float64) *Builder {
	b.fps = fps
	return b
}

// SetScale sets the scale parameter: a numeric multiplier (e.g. "0.5") or
// a literal scale filter expression (e.g. "1920:-2").
func (b *Builder) SetScale(scale string) *Builder {
	b.scale = scale
	return b
}

// InputFPS returns the rate at which frames must be fed to the encoder so
// that frameCount frames span exactly length seconds.
func (b *Builder) InputFPS() float64 {
	if b.length <= 0 {
		return 0
	}
	return float64(b.frameCount) / b.length
}

// ScaleFilter returns the scale filter expression. A scale value that
// parses as a number becomes a uniform multiplier of the input dimensions;
// anything else passes through as a literal expression.
func (b *Builder) ScaleFilter() string {
	if factor, err := strconv.ParseFloat(b.scale, 64); err == nil {
		return fmt.Sprintf("scale=iw*%g:ih*%g", factor, factor)
	}
	return "scale=" + b.scale
}

// BuildArgs constructs the FFmpeg command arguments.
func (b *Builder) BuildArgs() []string {
	return []string{
		// Quiet output
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		// Input rate: frameCount frames over length seconds
		"-r", formatFloat(b.InputFPS()),
		// Frame path template
		"-i", frameutil.TemplatePath(b.framesDir),
		// Still-image-tuned x264 profile
		"-c:v", b.codec,
		"-preset", b.preset,
		"-crf", strconv.Itoa(b.crf),
		"-pix_fmt", b.pixelFmt,
		"-tune", b.tune,
		// Closed GOP spanning the whole sweep: keyframes only at the
		// first and last frame
		"-g", strconv.Itoa(b.frameCount - 1),
		// Scaling
		"-vf", b.ScaleFilter(),
		// Output rate, distinct from the input rate
		// https://trac.ffmpeg.org/wiki/ChangingFrameRate
		"-r", formatFloat(b.fps),
		// Output file
		"-y", b.outputPath,
	}
}

// GetOutputPath returns the video file this command produces.
func (b *Builder) GetOutputPath() string {
	return b.outputPath
}

// String returns the command as "ffmpeg <args...>" without executing it.
func (b *Builder) String() string {
	return command.Preview("ffmpeg", b.BuildArgs())
}

// formatFloat renders a float with no trailing zeros ("24", "23.5").
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
