// Package extract builds the per-frame FFmpeg rendering command: a v360
// equirectangular-to-flat projection written as a single still image.
package extract

import (
	"fmt"

	"dragonfly/command"
	"dragonfly/models"
)

// Builder constructs the FFmpeg arguments that render one rectilinear
// frame from the equirectangular source at the job's camera orientation.
type Builder struct {
	job       *models.FrameJob
	inputPath string

	ihFOV  float64
	ivFOV  float64
	ohFOV  float64
	ovFOV  float64
	interp models.Interpolation
	width  int
	height int
}

// NewBuilder creates a Builder for the given frame job and source path.
func NewBuilder(job *models.FrameJob, inputPath string) *Builder {
	return &Builder{
		job:       job,
		inputPath: inputPath,
		ihFOV:     360.0,
		ivFOV:     180.0,
		ohFOV:     60.0,
		ovFOV:     45.0,
		interp:    models.InterpLinear,
	}
}

// SetInputFOV sets the source field of view in degrees.
func (b *Builder) SetInputFOV(h, v float64) *Builder {
	b.ihFOV = h
	b.ivFOV = v
	return b
}

// SetOutputFOV sets the virtual camera field of view in degrees.
func (b *Builder) SetOutputFOV(h, v float64) *Builder {
	b.ohFOV = h
	b.ovFOV = v
	return b
}

// SetInterpolation sets the v360 resampling kernel.
func (b *Builder) SetInterpolation(interp models.Interpolation) *Builder {
	b.interp = interp
	return b
}

// SetOutputSize pins the rendered frame raster. When unset (0), the filter
// falls back to v360's own sizing.
func (b *Builder) SetOutputSize(width, height int) *Builder {
	b.width = width
	b.height = height
	return b
}

// Filter returns the v360 filter expression for this frame.
// See https://ffmpeg.org/ffmpeg-filters.html#v360
func (b *Builder) Filter() string {
	if b.job == nil {
		return ""
	}

	filter := fmt.Sprintf(
		"v360=e:flat:yaw=%g:pitch=%g:roll=%g:ih_fov=%g:iv_fov=%g:h_fov=%g:v_fov=%g:interp=%s",
		b.job.Yaw, b.job.Pitch, b.job.Roll,
		b.ihFOV, b.ivFOV, b.ohFOV, b.ovFOV,
		b.interp,
	)
	if b.width > 0 && b.height > 0 {
		filter += fmt.Sprintf(":w=%d:h=%d", b.width, b.height)
	}
	return filter
}

// BuildArgs constructs the FFmpeg command arguments.
func (b *Builder) BuildArgs() []string {
	// Guard against nil job
	if b.job == nil {
		return []string{}
	}

	return []string{
		// Quiet output
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		// Input file
		"-i", b.inputPath,
		// Projection filter
		"-vf", b.Filter(),
		// Single still-image output
		// https://ffmpeg.org/ffmpeg-formats.html#image2-1
		"-f", "image2",
		"-frames:v", "1",
		"-update", "1",
		"-y", b.job.OutputPath,
	}
}

// GetOutputPath returns the frame file this command produces.
func (b *Builder) GetOutputPath() string {
	if b.job == nil {
		return ""
	}
	return b.job.OutputPath
}

// String returns the command as "ffmpeg <args...>" without executing it.
func (b *Builder) String() string {
	return command.Preview("ffmpeg", b.BuildArgs())
}
