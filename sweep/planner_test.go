package sweep

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"dragonfly/models"
)

func TestPlanJobs_EightFrameYawTable(t *testing.T) {
	jobs, err := NewPlanner(8).PlanJobs("/tmp/frames")
	if err != nil {
		t.Fatalf("PlanJobs returned unexpected error: %v", err)
	}
	if len(jobs) != 8 {
		t.Fatalf("Expected 8 jobs, got %d", len(jobs))
	}

	expected := []float64{-180, -135, -90, -45, 0, 45, 90, 135}
	for i, want := range expected {
		if got := jobs[i].Yaw; math.Abs(got-want) > 1e-9 {
			t.Errorf("Frame %d: expected yaw %g, got %g", i, want, got)
		}
	}
}

func TestPlanJobs_SweepProperties(t *testing.T) {
	const frameCount = 360
	jobs, err := NewPlanner(frameCount).PlanJobs("/tmp/frames")
	if err != nil {
		t.Fatalf("PlanJobs returned unexpected error: %v", err)
	}
	if len(jobs) != frameCount {
		t.Fatalf("Expected %d jobs, got %d", frameCount, len(jobs))
	}

	if jobs[0].Yaw != -180 {
		t.Errorf("First frame must start at -180, got %g", jobs[0].Yaw)
	}

	for i, job := range jobs {
		if job.Index != i {
			t.Errorf("Frame %d has index %d", i, job.Index)
		}
		if job.Yaw < -180 || job.Yaw >= 180 {
			t.Errorf("Frame %d yaw %g outside [-180, 180)", i, job.Yaw)
		}
		if job.Pitch != 0 || job.Roll != 0 {
			t.Errorf("Frame %d: camera must stay level, got pitch=%g roll=%g", i, job.Pitch, job.Roll)
		}
		if i > 0 && jobs[i-1].Yaw >= job.Yaw {
			t.Errorf("Yaw must be strictly increasing, frames %d..%d: %g >= %g", i-1, i, jobs[i-1].Yaw, job.Yaw)
		}
	}

	// The last frame must stop one step short of +180, where the sweep
	// would repeat the -180 frame.
	lastYaw := jobs[frameCount-1].Yaw
	wantLast := -180.0 + 360.0*float64(frameCount-1)/float64(frameCount)
	if math.Abs(lastYaw-wantLast) > 1e-9 {
		t.Errorf("Expected last yaw %g, got %g", wantLast, lastYaw)
	}

	if err := ValidateJobs(jobs); err != nil {
		t.Errorf("Planned sweep failed validation: %v", err)
	}
}

func TestPlanJobs_OutputPaths(t *testing.T) {
	jobs, err := NewPlanner(3).PlanJobs("/tmp/frames")
	if err != nil {
		t.Fatalf("PlanJobs returned unexpected error: %v", err)
	}

	want := []string{
		filepath.Join("/tmp/frames", "frame_00000000.jpg"),
		filepath.Join("/tmp/frames", "frame_00000001.jpg"),
		filepath.Join("/tmp/frames", "frame_00000002.jpg"),
	}
	for i, job := range jobs {
		if job.OutputPath != want[i] {
			t.Errorf("Frame %d: expected path %s, got %s", i, want[i], job.OutputPath)
		}
	}
}

func TestPlanJobs_EdgeCases(t *testing.T) {
	t.Run("Zero frames is an empty plan", func(t *testing.T) {
		jobs, err := NewPlanner(0).PlanJobs("/tmp/frames")
		if err != nil {
			t.Fatalf("Expected no error for zero frames, got: %v", err)
		}
		if len(jobs) != 0 {
			t.Errorf("Expected empty plan, got %d jobs", len(jobs))
		}
	})

	t.Run("Negative frame count", func(t *testing.T) {
		_, err := NewPlanner(-1).PlanJobs("/tmp/frames")
		if err == nil {
			t.Fatal("Expected error for negative frame count")
		}
		if !strings.Contains(err.Error(), "frame count") {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("Empty frames dir", func(t *testing.T) {
		_, err := NewPlanner(10).PlanJobs("")
		if err == nil {
			t.Fatal("Expected error for empty frames directory")
		}
	})

	t.Run("Single frame sweep", func(t *testing.T) {
		jobs, err := NewPlanner(1).PlanJobs("/tmp/frames")
		if err != nil {
			t.Fatalf("PlanJobs returned unexpected error: %v", err)
		}
		if len(jobs) != 1 || jobs[0].Yaw != -180 {
			t.Errorf("Expected single frame at yaw -180, got %+v", jobs[0])
		}
	})
}

func TestOutputResolution(t *testing.T) {
	tests := []struct {
		name       string
		planner    *Planner
		src        models.SourceResolution
		wantWidth  int
		wantHeight int
		wantError  bool
	}{
		{
			name:       "Defaults on 4K equirectangular",
			planner:    NewPlanner(360),
			src:        models.SourceResolution{Width: 3840, Height: 1920},
			wantWidth:  640,
			wantHeight: 480,
		},
		{
			name:       "Wide output camera",
			planner:    NewPlanner(360).SetOutputFOV(90, 60),
			src:        models.SourceResolution{Width: 3840, Height: 1920},
			wantWidth:  960,
			wantHeight: 640,
		},
		{
			name:       "Partial panorama input",
			planner:    NewPlanner(360).SetInputFOV(180, 90).SetOutputFOV(60, 45),
			src:        models.SourceResolution{Width: 2000, Height: 1000},
			wantWidth:  666,
			wantHeight: 500,
		},
		{
			name:      "Zero input FOV",
			planner:   NewPlanner(360).SetInputFOV(0, 180),
			src:       models.SourceResolution{Width: 3840, Height: 1920},
			wantError: true,
		},
		{
			name:      "Negative output FOV",
			planner:   NewPlanner(360).SetOutputFOV(-60, 45),
			src:       models.SourceResolution{Width: 3840, Height: 1920},
			wantError: true,
		},
		{
			name:      "Invalid source resolution",
			planner:   NewPlanner(360),
			src:       models.SourceResolution{Width: 0, Height: 1920},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.planner.OutputResolution(tt.src)
			if tt.wantError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
			if got.Width != tt.wantWidth || got.Height != tt.wantHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantWidth, tt.wantHeight, got.Width, got.Height)
			}
		})
	}
}

func TestValidateJobs_Failures(t *testing.T) {
	mk := func(index int, yaw float64, path string) *models.FrameJob {
		return &models.FrameJob{Index: index, Yaw: yaw, OutputPath: path}
	}

	tests := []struct {
		name          string
		jobs          []*models.FrameJob
		errorContains string
	}{
		{
			name:          "Index gap",
			jobs:          []*models.FrameJob{mk(0, -180, "a.jpg"), mk(2, -90, "b.jpg")},
			errorContains: "incorrect index",
		},
		{
			name:          "Non-increasing yaw",
			jobs:          []*models.FrameJob{mk(0, -90, "a.jpg"), mk(1, -90, "b.jpg")},
			errorContains: "strictly increasing",
		},
		{
			name:          "Duplicate output path",
			jobs:          []*models.FrameJob{mk(0, -180, "a.jpg"), mk(1, -90, "a.jpg")},
			errorContains: "share output path",
		},
		{
			name:          "Invalid member",
			jobs:          []*models.FrameJob{mk(0, 180, "a.jpg")},
			errorContains: "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJobs(tt.jobs)
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.errorContains) {
				t.Errorf("Expected error to contain '%s', got '%s'", tt.errorContains, err.Error())
			}
		})
	}
}
