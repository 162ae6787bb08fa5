// Package models provides core data structures for the dragonfly pipeline.
package models

import (
	"fmt"
	"strings"
)

// FrameJob describes a single rectilinear frame to be sampled from the
// equirectangular source: the virtual camera orientation plus the file the
// rendering process must produce.
//
// Jobs are generated deterministically from the frame index. The camera
// sweeps only in yaw; pitch and roll are fixed at 0.
//
// Use NewFrameJob to create a validated instance.
type FrameJob struct {
	Index      int     `json:"index"`
	Yaw        float64 `json:"yaw"`
	Pitch      float64 `json:"pitch"`
	Roll       float64 `json:"roll"`
	OutputPath string  `json:"output_path"`
}

// NewFrameJob creates a new FrameJob with validation.
//
// Returns an error if the index is negative, the yaw is outside
// [-180, 180), or the output path is empty.
func NewFrameJob(index int, yaw, pitch, roll float64, outputPath string) (*FrameJob, error) {
	j := &FrameJob{
		Index:      index,
		Yaw:        yaw,
		Pitch:      pitch,
		Roll:       roll,
		OutputPath: outputPath,
	}
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("invalid frame job: %w", err)
	}
	return j, nil
}

// Validate checks if the FrameJob has valid data.
//
// Returns an error if:
//   - Index is negative
//   - Yaw is outside [-180, 180); +180 is excluded so a full sweep never
//     duplicates the -180 frame at the seam
//   - OutputPath is empty or whitespace-only
func (j *FrameJob) Validate() error {
	if j.Index < 0 {
		return fmt.Errorf("index cannot be negative, got %d", j.Index)
	}

	if j.Yaw < -180 || j.Yaw >= 180 {
		return fmt.Errorf("yaw must be in [-180, 180), got %g", j.Yaw)
	}

	if strings.TrimSpace(j.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty")
	}

	return nil
}
