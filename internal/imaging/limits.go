package imaging

import (
	"errors"
	"fmt"
	"math"
)

// MaxPixels bounds the area of every image this package decodes, renders or
// allocates.
const MaxPixels = 100_000_000

// ErrTooLarge reports a size above MaxPixels.
var ErrTooLarge = errors.New("width or height exceeds limit")

// CheckSize rejects non-positive sizes and sizes whose area exceeds MaxPixels.
func CheckSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", w, h)
	}
	if int64(w)*int64(h) > MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	return nil
}

// toPixels rounds v to a positive pixel count. Values past MaxPixels saturate
// just above it so CheckSize rejects them without int overflow.
func toPixels(v float64) int {
	if math.IsNaN(v) || v > MaxPixels {
		return MaxPixels + 1
	}
	return max(1, int(math.Round(v)))
}
