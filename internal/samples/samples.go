// Package samples provides the built-in sample images a session can add
// without uploading anything.
package samples

import (
	"context"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/jo-hoe/magickpad/internal/imaging"
)

// Provider yields the built-in images.
type Provider interface {
	BuiltIns(ctx context.Context) ([]files.File, error)
}

//go:embed logo.svg
var logoSVG []byte

// Generator renders the sample rasters on demand and serves the embedded logo.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) BuiltIns(ctx context.Context) ([]files.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rose, err := imaging.Encode(radial(70, 46), "png", imaging.EncodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to render rose.png: %w", err)
	}
	checker, err := imaging.Encode(checkerboard(64, 64, 8), "png", imaging.EncodeOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to render checker.png: %w", err)
	}

	return []files.File{
		{Name: "rose.png", Content: rose},
		{Name: "checker.png", Content: checker},
		{Name: "logo.svg", Content: append([]byte(nil), logoSVG...)},
	}, nil
}

// radial fades from a warm center to a dark edge.
func radial(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	maxDist := math.Hypot(cx, cy)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(220 * (1 - t*0.6)),
				G: uint8(60 * (1 - t)),
				B: uint8(80 * (1 - t)),
				A: 255,
			})
		}
	}
	return img
}

func checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dark := color.RGBA{R: 40, G: 40, B: 40, A: 255}
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, dark)
			} else {
				img.SetRGBA(x, y, light)
			}
		}
	}
	return img
}
