// Package extractor drives the frame extraction phase: a bounded pool of
// external rendering processes executed in strict batches.
package extractor

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dragonfly/command"
	"dragonfly/internal/frameutil"
	"dragonfly/models"
)

// JobError describes the first rendering process failure of a run.
type JobError struct {
	Index    int
	State    models.FrameState
	ExitCode int
	Err      error
}

func (e *JobError) Error() string {
	if e.State == models.FrameTimedOut {
		return fmt.Sprintf("frame %d timed out: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("frame %d failed with exit code %d: %v", e.Index, e.ExitCode, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// ProgressFunc is invoked after each job finishes with the number of
// completed jobs and the total. Calls follow process completion order, not
// frame index order, and the function must not block meaningfully.
type ProgressFunc func(completed, total int)

// BuildFunc produces the rendering command for one frame job.
type BuildFunc func(job *models.FrameJob) command.Command

// Scheduler launches one rendering process per frame under a strict batch
// barrier: up to maxConcurrency processes run at once, and the next batch
// only starts after every process of the previous batch has exited. A slow
// job stalls the start of the next batch even when other slots are free;
// the peak child-process count never exceeds maxConcurrency.
type Scheduler struct {
	maxConcurrency int
	frameTimeout   time.Duration
	ffmpegPath     string
	runner         command.Runner
	log            *zap.Logger
}

// NewScheduler creates a Scheduler. maxConcurrency values below 1 are
// treated as 1 (fully sequential baseline mode).
func NewScheduler(maxConcurrency int, runner command.Runner, log *zap.Logger) *Scheduler {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		maxConcurrency: maxConcurrency,
		ffmpegPath:     "ffmpeg",
		runner:         runner,
		log:            log,
	}
}

// SetFrameTimeout bounds each rendering process; expiry kills the process
// and records a timed-out outcome distinct from a failure. 0 disables the
// bound.
func (s *Scheduler) SetFrameTimeout(d time.Duration) *Scheduler {
	s.frameTimeout = d
	return s
}

// SetFFmpegPath overrides the rendering binary name or path.
func (s *Scheduler) SetFFmpegPath(path string) *Scheduler {
	s.ffmpegPath = path
	return s
}

// Extract runs every job to completion or to the first failure.
//
// Jobs are partitioned into sequential batches of up to maxConcurrency.
// Within a batch, processes launch in ascending frame index order but
// complete (and notify onProgress) in whatever order they exit. If any
// process fails, the current batch is still fully drained before Extract
// returns the first failure as a *JobError; frames already written stay on
// disk for inspection and retry.
//
// A marker file in framesDir flags the extraction as in progress for the
// duration of the call; an empty job list is a no-op success.
func (s *Scheduler) Extract(ctx context.Context, framesDir string, jobs []*models.FrameJob, build BuildFunc, onProgress ProgressFunc) error {
	if len(jobs) == 0 {
		return nil
	}
	if build == nil {
		return fmt.Errorf("build function cannot be nil")
	}

	if err := os.WriteFile(frameutil.MarkerPath(framesDir), nil, 0644); err != nil {
		return fmt.Errorf("failed to mark extraction in progress: %w", err)
	}
	defer os.Remove(frameutil.MarkerPath(framesDir))

	total := len(jobs)
	completed := 0

	for start := 0; start < total; start += s.maxConcurrency {
		end := start + s.maxConcurrency
		if end > total {
			end = total
		}

		b := newBatch(end - start)
		var spawnErr *JobError

		for _, job := range jobs[start:end] {
			cmd := build(job)

			jobCtx := ctx
			cancel := context.CancelFunc(nil)
			if s.frameTimeout > 0 {
				jobCtx, cancel = context.WithTimeout(ctx, s.frameTimeout)
			}

			s.log.Debug("spawning rendering process",
				zap.Int("frame", job.Index),
				zap.String("command", cmd.String()),
			)

			handle, err := s.runner.Start(jobCtx, s.ffmpegPath, cmd.BuildArgs())
			if err != nil {
				if cancel != nil {
					cancel()
				}
				spawnErr = &JobError{
					Index:    job.Index,
					State:    models.FrameFailed,
					ExitCode: -1,
					Err:      err,
				}
				// Stop launching; the already-started members still get
				// drained below.
				break
			}

			b.add(job, handle, jobCtx, cancel)
		}

		var firstFailure *JobError
		for _, res := range b.joinAll() {
			completed++
			if onProgress != nil {
				onProgress(completed, total)
			}

			// The batch has been fully drained at this point, so an
			// inconsistent result can abort without orphaning processes.
			if err := res.Validate(); err != nil {
				return fmt.Errorf("frame extraction failed: %w", err)
			}

			if !res.Completed() && firstFailure == nil {
				firstFailure = &JobError{
					Index:    res.Index,
					State:    res.State,
					ExitCode: res.ExitCode,
					Err:      res.Err,
				}
			}
		}

		if spawnErr != nil {
			return fmt.Errorf("frame extraction failed: %w", spawnErr)
		}
		if firstFailure != nil {
			return fmt.Errorf("frame extraction failed: %w", firstFailure)
		}
	}

	s.log.Debug("extraction complete",
		zap.Int("frames", total),
		zap.String("dir", framesDir),
	)
	return nil
}
