// Package sweep computes per-frame camera parameters for a full yaw
// rotation over an equirectangular source.
package sweep

import (
	"fmt"

	"dragonfly/internal/frameutil"
	"dragonfly/models"
)

// Planner maps frame indices to camera orientations and derives the output
// frame resolution from the FOV ratios.
//
// Planning is pure: no processes are spawned and no files are touched.
// The only failure mode is a non-positive input FOV, which is a
// configuration error and is surfaced before any job is scheduled.
type Planner struct {
	frameCount int
	ihFOV      float64
	ivFOV      float64
	ohFOV      float64
	ovFOV      float64
}

// NewPlanner creates a Planner for the given frame count with the default
// full-equirectangular input FOV (360x180) and a 60x45 output camera.
func NewPlanner(frameCount int) *Planner {
	return &Planner{
		frameCount: frameCount,
		ihFOV:      360.0,
		ivFOV:      180.0,
		ohFOV:      60.0,
		ovFOV:      45.0,
	}
}

// SetInputFOV sets the horizontal and vertical field of view of the source.
func (p *Planner) SetInputFOV(h, v float64) *Planner {
	p.ihFOV = h
	p.ivFOV = v
	return p
}

// SetOutputFOV sets the horizontal and vertical field of view of the
// virtual camera.
func (p *Planner) SetOutputFOV(h, v float64) *Planner {
	p.ohFOV = h
	p.ovFOV = v
	return p
}

// InputFOV returns the configured input FOV as (horizontal, vertical).
func (p *Planner) InputFOV() (float64, float64) {
	return p.ihFOV, p.ivFOV
}

// OutputFOV returns the configured output FOV as (horizontal, vertical).
func (p *Planner) OutputFOV() (float64, float64) {
	return p.ohFOV, p.ovFOV
}

// OutputResolution derives the output frame resolution from the source
// resolution and the per-axis output/input FOV ratios, truncated to
// integers. The output raster is pinned by this value; the rendering
// filter receives it explicitly so encode-phase scaling stays
// deterministic.
func (p *Planner) OutputResolution(src models.SourceResolution) (models.SourceResolution, error) {
	if p.ihFOV <= 0 || p.ivFOV <= 0 {
		return models.SourceResolution{}, fmt.Errorf("input FOVs must be positive, got %gx%g", p.ihFOV, p.ivFOV)
	}
	if p.ohFOV <= 0 || p.ovFOV <= 0 {
		return models.SourceResolution{}, fmt.Errorf("output FOVs must be positive, got %gx%g", p.ohFOV, p.ovFOV)
	}
	if err := src.Validate(); err != nil {
		return models.SourceResolution{}, fmt.Errorf("invalid source resolution: %w", err)
	}

	return src.Scale(p.ohFOV/p.ihFOV, p.ovFOV/p.ivFOV), nil
}

// PlanJobs produces one FrameJob per frame index, writing into framesDir.
//
// Yaw advances from -180 in steps of 360/frameCount and never reaches
// +180, so a full sweep has no duplicate frame at the seam. Pitch and roll
// are fixed at 0. A frame count of 0 yields an empty plan, not an error.
func (p *Planner) PlanJobs(framesDir string) ([]*models.FrameJob, error) {
	if p.frameCount < 0 {
		return nil, fmt.Errorf("frame count cannot be negative, got %d", p.frameCount)
	}
	if framesDir == "" {
		return nil, fmt.Errorf("frames directory cannot be empty")
	}

	jobs := make([]*models.FrameJob, 0, p.frameCount)
	for i := 0; i < p.frameCount; i++ {
		yaw := -180.0 + 360.0*float64(i)/float64(p.frameCount)

		job, err := models.NewFrameJob(i, yaw, 0, 0, frameutil.FilePath(framesDir, i))
		if err != nil {
			return nil, fmt.Errorf("failed to plan frame %d: %w", i, err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// ValidateJobs validates a planned job sequence for completeness and
// correctness: sequential indices, strictly increasing yaw values within
// [-180, 180), and distinct output paths.
func ValidateJobs(jobs []*models.FrameJob) error {
	paths := make(map[string]int, len(jobs))

	for i, job := range jobs {
		if err := job.Validate(); err != nil {
			return fmt.Errorf("job %d is invalid: %w", i, err)
		}

		if job.Index != i {
			return fmt.Errorf("job %d has incorrect index: expected %d, got %d", i, i, job.Index)
		}

		if i > 0 && jobs[i-1].Yaw >= job.Yaw {
			return fmt.Errorf("yaw not strictly increasing between jobs %d and %d: %g >= %g",
				i-1, i, jobs[i-1].Yaw, job.Yaw)
		}

		if prev, seen := paths[job.OutputPath]; seen {
			return fmt.Errorf("jobs %d and %d share output path %s", prev, i, job.OutputPath)
		}
		paths[job.OutputPath] = i
	}

	return nil
}
