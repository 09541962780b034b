package imaging

import (
	"fmt"
	"log/slog"
)

// Thumbnail renders data as a PNG at most width pixels wide, preserving the
// aspect ratio. Narrower images keep their size.
func Thumbnail(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("thumbnail width must be positive, got %d", width)
	}
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	if originalWidth <= 0 || originalHeight <= 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	targetWidth, targetHeight := originalWidth, originalHeight
	if originalWidth > width {
		targetWidth = width
		targetHeight = max(1, originalHeight*width/originalWidth)
	}

	slog.Debug("imaging: building thumbnail",
		"format", format,
		"original_width", originalWidth,
		"original_height", originalHeight,
		"target_width", targetWidth,
		"target_height", targetHeight)

	scaled, err := Resize(img, targetWidth, targetHeight)
	if err != nil {
		return nil, err
	}
	return Encode(scaled, "png", EncodeOptions{})
}
