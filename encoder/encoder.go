// Package encoder drives the encode phase: scanning an extracted frame
// set and running a single external encoding process over it.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"dragonfly/command"
	"dragonfly/command/encode"
	"dragonfly/internal/frameutil"
)

// ErrEmptyFrameSet is returned when the frames directory contains no
// regular files. It guards the input-rate division: zero frames over any
// length is not a video.
var ErrEmptyFrameSet = errors.New("no frames found to encode")

// ErrExtractionInProgress is returned when the frames directory still
// carries the in-progress marker. Encoding against a directory that is
// being written to is undefined and rejected outright.
var ErrExtractionInProgress = errors.New("extraction still in progress for this frames directory")

// Request describes one encode run.
type Request struct {
	FramesDir  string
	OutputPath string
	Length     float64 // desired video length in seconds
	FPS        float64 // output frame rate
	Scale      string  // numeric multiplier or literal scale expression
}

// Driver owns the single encoding process of the encode phase.
type Driver struct {
	ffmpegPath string
	runner     command.Runner
	log        *zap.Logger
}

// NewDriver creates a Driver.
func NewDriver(runner command.Runner, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		ffmpegPath: "ffmpeg",
		runner:     runner,
		log:        log,
	}
}

// SetFFmpegPath overrides the encoder binary name or path.
func (d *Driver) SetFFmpegPath(path string) *Driver {
	d.ffmpegPath = path
	return d
}

// Command builds the encode invocation for a request and frame count
// without running it. Exported for dry runs and tests.
func (d *Driver) Command(req Request, frameCount int) *encode.Builder {
	return encode.NewBuilder(req.FramesDir, req.OutputPath).
		SetFrameCount(frameCount).
		SetLength(req.Length).
		SetFPS(req.FPS).
		SetScale(req.Scale)
}

// Encode assembles the frames in req.FramesDir into the output video.
//
// The number of regular files actually present, not the frame count
// originally requested during extraction, is the source of truth for
// timing, so partially-extracted or externally-populated directories
// encode correctly. The input rate becomes frameCount/length while the
// requested FPS is applied as a separate output rate.
func (d *Driver) Encode(ctx context.Context, req Request) error {
	if req.Length <= 0 {
		return fmt.Errorf("length must be positive, got %g", req.Length)
	}

	if _, err := os.Stat(frameutil.MarkerPath(req.FramesDir)); err == nil {
		return fmt.Errorf("%w: %s", ErrExtractionInProgress, req.FramesDir)
	}

	frameCount, err := frameutil.CountRegularFiles(req.FramesDir)
	if err != nil {
		return err
	}
	if frameCount == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFrameSet, req.FramesDir)
	}

	builder := d.Command(req, frameCount)

	d.log.Debug("spawning encoding process",
		zap.Int("frames", frameCount),
		zap.Float64("input_fps", builder.InputFPS()),
		zap.String("command", builder.String()),
	)

	handle, err := d.runner.Start(ctx, d.ffmpegPath, builder.BuildArgs())
	if err != nil {
		return fmt.Errorf("failed to spawn encoder: %w", err)
	}

	if err := handle.Wait(); err != nil {
		return fmt.Errorf("encoding failed with exit code %d: %w", command.ExitCode(err), err)
	}

	d.log.Debug("encoding complete", zap.String("output", req.OutputPath))
	return nil
}
