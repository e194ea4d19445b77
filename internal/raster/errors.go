package raster

import "errors"

// Errors returned for structurally invalid input. Callers match them with
// errors.Is; the messages carry the offending values.
var (
	// ErrInvalidDimensions reports zero or negative extents or kernel
	// sizes.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrOutOfRange reports pixel access outside [0,height) x [0,width).
	ErrOutOfRange = errors.New("coordinates out of range")

	// ErrDimensionMismatch reports two rasters that were expected to match.
	ErrDimensionMismatch = errors.New("raster dimensions do not match")

	// ErrChannelMismatch reports a gray raster where a color one was
	// expected, or the reverse.
	ErrChannelMismatch = errors.New("unexpected channel count")

	// ErrInvalidParameter reports a numeric parameter outside its domain,
	// such as t1 > t2 or an even median kernel.
	ErrInvalidParameter = errors.New("invalid parameter")
)
