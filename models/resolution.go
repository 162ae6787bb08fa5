package models

import "fmt"

// SourceResolution holds the pixel dimensions of a video stream.
//
// It is obtained once per extraction run by probing the source file and is
// immutable thereafter; all per-frame output resolutions are derived from
// it via FOV ratios.
type SourceResolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks that both dimensions are positive.
func (r SourceResolution) Validate() error {
	if r.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", r.Width)
	}
	if r.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", r.Height)
	}
	return nil
}

// Scale returns the resolution scaled by independent horizontal and
// vertical ratios, truncated to integers.
//
// This is how output frame dimensions are derived: each axis of the source
// resolution is multiplied by the output/input FOV ratio for that axis.
func (r SourceResolution) Scale(hRatio, vRatio float64) SourceResolution {
	return SourceResolution{
		Width:  int(float64(r.Width) * hRatio),
		Height: int(float64(r.Height) * vRatio),
	}
}

// String returns the resolution as "WIDTHxHEIGHT".
func (r SourceResolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}
