package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxCanvasSide bounds canvas width and height.
const MaxCanvasSide = 1 << 16

// MaxChannels bounds dimension[0], the number of connectors a skip
// connection fans out from its source.
const MaxChannels = 256

// ValidateCanvas checks a requested canvas size.
// Zero means "use the default" and is accepted.
func ValidateCanvas(width, height float64) error {
	for _, side := range []struct {
		name  string
		value float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(side.value) || math.IsInf(side.value, 0) {
			return New(ErrCodeInvalidInput, "canvas %s must be a finite number", side.name)
		}
		if side.value < 0 {
			return New(ErrCodeInvalidInput, "canvas %s cannot be negative (got %g)", side.name, side.value)
		}
		if side.value > MaxCanvasSide {
			return New(ErrCodeInvalidInput, "canvas %s too large (max %d)", side.name, MaxCanvasSide)
		}
	}
	return nil
}

// ValidateDimension checks a node's size-hint vector.
func ValidateDimension(id int, dim []int) error {
	for i, d := range dim {
		if d < 0 {
			return New(ErrCodeInvalidGraph, "node %d: dimension[%d] is negative (%d)", id, i, d)
		}
	}
	if len(dim) > 0 && dim[0] > MaxChannels {
		return New(ErrCodeInvalidGraph, "node %d: too many channels (%d, max %d)", id, dim[0], MaxChannels)
	}
	return nil
}

// ValidateOutputPath validates an output file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidInput, "output path must name a file, not a directory")
	}
	return nil
}
