package engine

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/jo-hoe/magickpad/internal/imaging"
)

// MonochromeOperator reduces images to black and white with Floyd-Steinberg
// dithering.
type MonochromeOperator struct{}

func NewMonochromeOperator(params map[string]any) (Operator, error) {
	if len(params) != 0 {
		return nil, fmt.Errorf("monochrome takes no arguments")
	}
	return &MonochromeOperator{}, nil
}

func (o *MonochromeOperator) Name() string {
	return "monochrome"
}

func (o *MonochromeOperator) Apply(images []image.Image, _ *Settings) ([]image.Image, error) {
	out := make([]image.Image, len(images))
	for i, img := range images {
		slog.Debug("MonochromeOperator: dithering image",
			"width", img.Bounds().Dx(),
			"height", img.Bounds().Dy())
		dithered, err := imaging.Dither(img, imaging.MonochromePalette)
		if err != nil {
			return nil, err
		}
		out[i] = dithered
	}
	return out, nil
}

type colorspaceParams struct {
	Space string `mapstructure:"value"`
}

func NewColorspaceOperator(params map[string]any) (Operator, error) {
	var p colorspaceParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	switch strings.ToLower(p.Space) {
	case "gray", "grey":
		return &mapOperator{name: "colorspace", fn: func(img image.Image) image.Image { return imaging.Grayscale(img) }}, nil
	case "srgb", "rgb":
		return &mapOperator{name: "colorspace", fn: func(img image.Image) image.Image { return img }}, nil
	default:
		return nil, fmt.Errorf("unrecognized colorspace `%s'", p.Space)
	}
}

func init() {
	if err := DefaultRegistry.Register("monochrome", 0, NewMonochromeOperator); err != nil {
		panic(fmt.Sprintf("failed to register monochrome: %v", err))
	}
	if err := DefaultRegistry.Register("colorspace", 1, NewColorspaceOperator); err != nil {
		panic(fmt.Sprintf("failed to register colorspace: %v", err))
	}
	negate := newMapFactory("negate", func(img image.Image) image.Image { return imaging.Negate(img) })
	if err := DefaultRegistry.Register("negate", 0, negate); err != nil {
		panic(fmt.Sprintf("failed to register negate: %v", err))
	}
}
