// Package frameutil provides frame-file naming and counting helpers shared
// by the extraction scheduler, the encoder driver and the CLI.
package frameutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Template is the printf-style frame filename template handed to ffmpeg's
// image2 muxer/demuxer. Extraction and encoding must agree on it exactly.
const Template = "frame_%08d.jpg"

// MarkerName is the marker file dropped into a frames directory while an
// extraction is in progress. Encoding refuses to run while it exists.
const MarkerName = ".extracting"

// FileName returns the frame filename for a zero-based frame index.
//
// Example:
//
//	FileName(7) // "frame_00000007.jpg"
func FileName(index int) string {
	return fmt.Sprintf(Template, index)
}

// FilePath returns the full path of the frame file for an index.
func FilePath(dir string, index int) string {
	return filepath.Join(dir, FileName(index))
}

// TemplatePath returns the frame path template for a directory, suitable
// as an ffmpeg -i argument.
func TemplatePath(dir string) string {
	return filepath.Join(dir, Template)
}

// MarkerPath returns the in-progress marker path for a frames directory.
func MarkerPath(dir string) string {
	return filepath.Join(dir, MarkerName)
}

// CountRegularFiles counts the regular files directly inside dir. Encode
// timing follows this count, not the frame count originally requested, so
// partially-extracted or externally-populated directories encode
// correctly.
func CountRegularFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read frames directory %q: %w", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}
	return count, nil
}
