package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// createTestImage builds a w×h image whose red channel encodes x and green encodes y
func createTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	return img
}

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

const testSVG = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="40px" height="20">
  <rect x="0" y="0" width="40" height="20" fill="#ff0000"/>
</svg>`

func TestDecode_PNG(t *testing.T) {
	data := encodeTestPNG(t, createTestImage(8, 4))
	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if format != "png" {
		t.Errorf("expected format png, got %s", format)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected error for invalid data")
	}
	if _, _, err := Decode(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestDecode_SVG(t *testing.T) {
	img, format, err := Decode([]byte(testSVG))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if format != "svg" {
		t.Errorf("expected format svg, got %s", format)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
	r, _, _, a := img.At(20, 10).RGBA()
	if r>>8 < 200 || a>>8 < 200 {
		t.Errorf("expected opaque red center pixel, got r=%d a=%d", r>>8, a>>8)
	}
}

func TestSVGSize_ViewBoxAndFallback(t *testing.T) {
	w, h, err := svgSize([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 30 15"></svg>`))
	if err != nil || w != 30 || h != 15 {
		t.Errorf("viewBox size = %dx%d, %v; want 30x15", w, h, err)
	}
	w, h, err = svgSize([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="60" viewBox="0 0 30 15"></svg>`))
	if err != nil || w != 60 || h != 30 {
		t.Errorf("width+viewBox size = %dx%d, %v; want 60x30", w, h, err)
	}
	w, h, err = svgSize([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="100%"></svg>`))
	if err != nil || w != svgFallbackSize || h != svgFallbackSize {
		t.Errorf("fallback size = %dx%d, %v", w, h, err)
	}
}

func TestEncodeForName(t *testing.T) {
	img := createTestImage(4, 4)
	for _, name := range []string{"a.png", "a.jpg", "a.JPEG", "a.gif", "a.bmp", "a.tif", "a.tiff"} {
		data, err := EncodeForName(img, name, EncodeOptions{Quality: 80})
		if err != nil {
			t.Fatalf("EncodeForName(%s) error: %v", name, err)
		}
		decoded, _, err := Decode(data)
		if err != nil {
			t.Fatalf("round trip decode of %s failed: %v", name, err)
		}
		if decoded.Bounds().Dx() != 4 {
			t.Errorf("%s: unexpected width %d", name, decoded.Bounds().Dx())
		}
	}

	_, err := EncodeForName(img, "a.xyz", EncodeOptions{})
	if err == nil {
		t.Fatal("expected error for unknown extension")
	}
	if !strings.Contains(err.Error(), "no encode delegate") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestResize(t *testing.T) {
	src := createTestImage(10, 10)
	dst, err := Resize(src, 5, 5)
	if err != nil {
		t.Fatalf("Resize error: %v", err)
	}
	if dst.Bounds().Dx() != 5 || dst.Bounds().Dy() != 5 {
		t.Fatalf("unexpected bounds %v", dst.Bounds())
	}
	// nearest neighbor: destination (2,3) samples source (4,6)
	c := dst.RGBAAt(2, 3)
	if c.R != 4 || c.G != 6 {
		t.Errorf("expected sampled pixel (4,6), got (%d,%d)", c.R, c.G)
	}

	if _, err := Resize(src, 0, 5); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestCrop(t *testing.T) {
	src := createTestImage(10, 10)
	dst, err := Crop(src, 4, 3, 2, 5)
	if err != nil {
		t.Fatalf("Crop error: %v", err)
	}
	if dst.Bounds().Dx() != 4 || dst.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bounds %v", dst.Bounds())
	}
	if c := dst.RGBAAt(0, 0); c.R != 2 || c.G != 5 {
		t.Errorf("expected origin pixel (2,5), got (%d,%d)", c.R, c.G)
	}

	clipped, err := Crop(src, 100, 100, 8, 8)
	if err != nil {
		t.Fatalf("Crop error: %v", err)
	}
	if clipped.Bounds().Dx() != 2 || clipped.Bounds().Dy() != 2 {
		t.Errorf("expected clipped 2x2, got %v", clipped.Bounds())
	}

	if _, err := Crop(src, 5, 5, 20, 20); err == nil {
		t.Error("expected error for crop outside the image")
	}
}

func TestRotate(t *testing.T) {
	src := createTestImage(4, 2)

	cw, err := Rotate(src, 90)
	if err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if cw.Bounds().Dx() != 2 || cw.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", cw.Bounds())
	}
	// top-left source pixel moves to the top-right corner
	if c := cw.RGBAAt(1, 0); c.R != 0 || c.G != 0 {
		t.Errorf("expected source (0,0) at (1,0), got (%d,%d)", c.R, c.G)
	}

	ccw, err := Rotate(src, -90)
	if err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if c := ccw.RGBAAt(0, 3); c.R != 0 || c.G != 0 {
		t.Errorf("expected source (0,0) at (0,3), got (%d,%d)", c.R, c.G)
	}

	half, err := Rotate(src, 180)
	if err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	if c := half.RGBAAt(3, 1); c.R != 0 || c.G != 0 {
		t.Errorf("expected source (0,0) at (3,1), got (%d,%d)", c.R, c.G)
	}

	if _, err := Rotate(src, 45); err == nil {
		t.Error("expected error for 45 degrees")
	}
}

func TestFlipFlop(t *testing.T) {
	src := createTestImage(3, 2)
	if c := Flip(src).RGBAAt(0, 0); c.G != 1 {
		t.Errorf("flip: expected row 1 at top, got green=%d", c.G)
	}
	if c := Flop(src).RGBAAt(0, 0); c.R != 2 {
		t.Errorf("flop: expected column 2 at left, got red=%d", c.R)
	}
}

func TestNegateAndGrayscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})

	if c := Negate(src).RGBAAt(0, 0); c.R != 0 || c.G != 255 || c.B != 255 || c.A != 255 {
		t.Errorf("negate: unexpected color %+v", c)
	}
	if c := Grayscale(src).RGBAAt(0, 0); c.R != c.G || c.G != c.B {
		t.Errorf("grayscale: expected equal channels, got %+v", c)
	}
}

func TestExtent(t *testing.T) {
	src := createTestImage(2, 2)
	dst, err := Extent(src, 4, 4, color.White)
	if err != nil {
		t.Fatalf("Extent error: %v", err)
	}
	if c := dst.RGBAAt(0, 0); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("expected white padding, got %+v", c)
	}
	if c := dst.RGBAAt(1, 1); c.R != 0 || c.G != 0 {
		t.Errorf("expected source origin at (1,1), got %+v", c)
	}
}

func TestDither_OnlyPaletteColors(t *testing.T) {
	dst, err := Dither(createTestImage(16, 16), MonochromePalette)
	if err != nil {
		t.Fatalf("Dither error: %v", err)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := dst.RGBAAt(x, y)
			if (c.R != 0 && c.R != 255) || c.R != c.G || c.G != c.B {
				t.Fatalf("pixel (%d,%d) = %+v is not black or white", x, y, c)
			}
		}
	}

	if _, err := Dither(createTestImage(2, 2), nil); err == nil {
		t.Error("expected error for empty palette")
	}
}

func TestThumbnail(t *testing.T) {
	data := encodeTestPNG(t, createTestImage(200, 100))
	thumb, err := Thumbnail(data, 50)
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not a PNG: %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("expected 50x25, got %dx%d", cfg.Width, cfg.Height)
	}

	small := encodeTestPNG(t, createTestImage(10, 10))
	thumb, err = Thumbnail(small, 50)
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}
	cfg, _ = png.DecodeConfig(bytes.NewReader(thumb))
	if cfg.Width != 10 {
		t.Errorf("expected narrow image to keep width 10, got %d", cfg.Width)
	}
}

func TestIdentify(t *testing.T) {
	data := encodeTestPNG(t, createTestImage(7, 3))
	info, err := Identify("a.png", data)
	if err != nil {
		t.Fatalf("Identify error: %v", err)
	}
	if info.Format != "PNG" || info.Width != 7 || info.Height != 3 || info.Bytes != len(data) {
		t.Errorf("unexpected info %+v", info)
	}
	if len(info.Digest) != 64 {
		t.Errorf("expected 64 hex digest chars, got %q", info.Digest)
	}
	if !strings.HasPrefix(info.String(), "a.png PNG 7x3 7x3+0+0") {
		t.Errorf("unexpected identify line %q", info.String())
	}

	again, _ := Identify("a.png", data)
	if again != info {
		t.Error("expected identical info for identical data")
	}

	svgInfo, err := Identify("logo.svg", []byte(testSVG))
	if err != nil {
		t.Fatalf("Identify svg error: %v", err)
	}
	if svgInfo.Format != "SVG" || svgInfo.Width != 40 || svgInfo.Height != 20 {
		t.Errorf("unexpected svg info %+v", svgInfo)
	}

	if _, err := Identify("bad.png", []byte("nope")); err == nil {
		t.Error("expected error for invalid data")
	}
}
