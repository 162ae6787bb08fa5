package ffprobe

// Package ffprobe resolves the pixel resolution of a media source using
// the ffprobe command-line tool.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"dragonfly/models"
)

// ErrNoVideoStream is returned when the probed source contains no video
// stream to take a resolution from.
var ErrNoVideoStream = errors.New("source contains no video stream")

// probeOutput represents the raw JSON output from ffprobe.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Probe resolves the resolution of the first video stream in the source.
//
// It runs a single blocking ffprobe call selecting stream v:0 and asking
// only for width and height as compact JSON. Every extraction job depends
// on the result, so this must complete before any frame is scheduled.
//
// Parameters:
//   - ctx: cancels the child process when done
//   - bin: ffprobe binary name or path (from config)
//   - sourcePath: media file to probe
//
// Returns ErrNoVideoStream if the source has no video stream; spawn and
// parse failures are wrapped with the source path for diagnosis.
func Probe(ctx context.Context, bin, sourcePath string) (models.SourceResolution, error) {
	if sourcePath == "" {
		return models.SourceResolution{}, fmt.Errorf("source path cannot be empty")
	}

	// -v error: suppress everything except real problems
	// -select_streams v:0: first video stream only
	// -show_entries stream=width,height: just the resolution
	// -of json=compact=1: compact JSON on stdout
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json=compact=1",
		sourcePath,
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	output, err := cmd.Output()
	if err != nil {
		return models.SourceResolution{}, fmt.Errorf("ffprobe failed for %q: %w", sourcePath, err)
	}

	return ParseOutput(output)
}

// ParseOutput converts raw ffprobe JSON output into a SourceResolution,
// selecting the first reported stream. Exported so the parser is testable
// without a real ffprobe binary.
func ParseOutput(data []byte) (models.SourceResolution, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.SourceResolution{}, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}

	if len(raw.Streams) == 0 {
		return models.SourceResolution{}, ErrNoVideoStream
	}

	res := models.SourceResolution{
		Width:  raw.Streams[0].Width,
		Height: raw.Streams[0].Height,
	}
	if err := res.Validate(); err != nil {
		return models.SourceResolution{}, fmt.Errorf("ffprobe reported unusable resolution: %w", err)
	}

	return res, nil
}
