package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality matches ImageMagick's default when no -quality is given.
const DefaultJPEGQuality = 92

// EncodeOptions carries settings that only some encoders honor.
type EncodeOptions struct {
	Quality int
}

// ErrNoEncoder is returned for output names whose extension has no encoder.
type ErrNoEncoder struct {
	Name string
}

func (e *ErrNoEncoder) Error() string {
	return fmt.Sprintf("no encode delegate for this image format `%s'", strings.ToUpper(strings.TrimPrefix(path.Ext(e.Name), ".")))
}

// FormatForName maps an output file name to an encoder format.
func FormatForName(name string) (string, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".gif":
		return "gif", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", &ErrNoEncoder{Name: name}
	}
}

// Encode writes img in the given format.
func Encode(img image.Image, format string, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("unsupported encode format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return buf.Bytes(), nil
}

// EncodeForName picks the encoder from the file extension.
func EncodeForName(img image.Image, name string, opts EncodeOptions) ([]byte, error) {
	format, err := FormatForName(name)
	if err != nil {
		return nil, err
	}
	return Encode(img, format, opts)
}
