// Package imaging decodes, transforms, encodes and describes images for the
// built-in engine and the preview pipeline.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/antchfx/xmlquery"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	formatSVG = "svg"

	// svgFallbackSize is used when an SVG declares neither width/height nor a viewBox
	svgFallbackSize = 256
)

// Decode decodes raster formats registered with the image package, plus SVG.
// It returns the decoded image and the lower-case format name.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}
	if isSVGData(data) {
		img, err := renderSVG(data)
		if err != nil {
			return nil, "", err
		}
		return img, formatSVG, nil
	}

	// the header is read first so oversized rasters are never allocated
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if err := CheckSize(cfg.Width, cfg.Height); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// DecodeConfig reads dimensions and color model without decoding pixel data
// (SVG sizes are read from the document).
func DecodeConfig(data []byte) (image.Config, string, error) {
	if isSVGData(data) {
		w, h, err := svgSize(data)
		if err != nil {
			return image.Config{}, "", err
		}
		return image.Config{ColorModel: color.RGBAModel, Width: w, Height: h}, formatSVG, nil
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return cfg, format, nil
}

// isSVGData performs a lightweight detection of SVG content from raw bytes.
// It checks for "<svg" tag or SVG namespace in the initial portion of the data.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.HasPrefix(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\"")) ||
		bytes.Contains(header, []byte("xmlns='http://www.w3.org/2000/svg'"))
}

// svgSize resolves the pixel size of an SVG document: explicit width/height
// first, then the viewBox, then the fallback size.
func svgSize(data []byte) (int, int, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse SVG: %w", err)
	}
	root := xmlquery.FindOne(doc, "//*[local-name()='svg']")
	if root == nil {
		return 0, 0, fmt.Errorf("failed to parse SVG: no svg element")
	}

	w, wOk := parseLength(root.SelectAttr("width"))
	h, hOk := parseLength(root.SelectAttr("height"))
	if !wOk || !hOk {
		if vw, vh, ok := parseViewBox(root.SelectAttr("viewBox")); ok {
			switch {
			case wOk:
				h = w * vh / vw
			case hOk:
				w = h * vw / vh
			default:
				w, h = vw, vh
			}
		} else {
			slog.Debug("imaging: SVG lacks explicit size; using fallback", "size", svgFallbackSize)
			w, h = svgFallbackSize, svgFallbackSize
		}
	}

	width, height := toPixels(w), toPixels(h)
	if err := CheckSize(width, height); err != nil {
		return 0, 0, fmt.Errorf("SVG size: %w", err)
	}
	return width, height, nil
}

// parseLength extracts the leading number of an attribute such as "123px".
// Percentages are not pixel sizes and are rejected.
func parseLength(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasSuffix(value, "%") {
		return 0, false
	}
	end := 0
	for end < len(value) && (value[end] == '.' || (value[end] >= '0' && value[end] <= '9')) {
		end++
	}
	f, err := strconv.ParseFloat(value[:end], 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func parseViewBox(value string) (float64, float64, bool) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err := strconv.ParseFloat(fields[3], 64)
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// renderSVG rasterizes an SVG onto a transparent canvas at its resolved size.
func renderSVG(data []byte) (image.Image, error) {
	w, h, err := svgSize(data)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
