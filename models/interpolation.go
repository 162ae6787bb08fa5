package models

import (
	"fmt"
	"strings"
)

// Interpolation selects the resampling kernel the v360 projection filter
// uses when sampling the equirectangular source. The string value is the
// exact token ffmpeg expects in the filter expression.
type Interpolation string

const (
	InterpNear      Interpolation = "near"
	InterpLinear    Interpolation = "linear"
	InterpCubic     Interpolation = "cubic"
	InterpLanczos   Interpolation = "lanczos"
	InterpSpline16  Interpolation = "spline16"
	InterpLagrange9 Interpolation = "lagrange9"
	InterpGaussian  Interpolation = "gaussian"
	InterpMitchell  Interpolation = "mitchell"
)

// InterpolationValues returns all valid interpolation methods.
func InterpolationValues() []Interpolation {
	return []Interpolation{
		InterpNear,
		InterpLinear,
		InterpCubic,
		InterpLanczos,
		InterpSpline16,
		InterpLagrange9,
		InterpGaussian,
		InterpMitchell,
	}
}

// ParseInterpolation converts a user-supplied string into an Interpolation.
// Matching is case-insensitive.
//
// Returns an error listing the valid values if the string is not a known
// method.
func ParseInterpolation(s string) (Interpolation, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, valid := range InterpolationValues() {
		if lower == string(valid) {
			return valid, nil
		}
	}

	names := make([]string, 0, len(InterpolationValues()))
	for _, valid := range InterpolationValues() {
		names = append(names, string(valid))
	}
	return "", fmt.Errorf("unknown interpolation %q, must be one of: %s", s, strings.Join(names, ", "))
}

// String returns the lowercase v360 filter token.
func (i Interpolation) String() string {
	return string(i)
}
