package engine

import (
	"fmt"
	"image"
	"math"

	"github.com/jo-hoe/magickpad/internal/imaging"
)

type rotateParams struct {
	Degrees float64 `mapstructure:"value"`
}

// RotateOperator turns images clockwise by a multiple of 90 degrees.
type RotateOperator struct {
	degrees int
}

func NewRotateOperator(params map[string]any) (Operator, error) {
	var p rotateParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Degrees != math.Trunc(p.Degrees) || int(p.Degrees)%90 != 0 {
		return nil, fmt.Errorf("rotation must be a multiple of 90 degrees, got %v", p.Degrees)
	}
	return &RotateOperator{degrees: int(p.Degrees)}, nil
}

func (o *RotateOperator) Name() string {
	return "rotate"
}

func (o *RotateOperator) Apply(images []image.Image, _ *Settings) ([]image.Image, error) {
	out := make([]image.Image, len(images))
	for i, img := range images {
		rotated, err := imaging.Rotate(img, o.degrees)
		if err != nil {
			return nil, err
		}
		out[i] = rotated
	}
	return out, nil
}

// mapOperator applies an argument-less per-image transform.
type mapOperator struct {
	name string
	fn   func(image.Image) image.Image
}

func (o *mapOperator) Name() string {
	return o.name
}

func (o *mapOperator) Apply(images []image.Image, _ *Settings) ([]image.Image, error) {
	out := make([]image.Image, len(images))
	for i, img := range images {
		out[i] = o.fn(img)
	}
	return out, nil
}

func newMapFactory(name string, fn func(image.Image) image.Image) OperatorFactory {
	return func(params map[string]any) (Operator, error) {
		if len(params) != 0 {
			return nil, fmt.Errorf("%s takes no arguments", name)
		}
		return &mapOperator{name: name, fn: fn}, nil
	}
}

func init() {
	if err := DefaultRegistry.Register("rotate", 1, NewRotateOperator); err != nil {
		panic(fmt.Sprintf("failed to register rotate: %v", err))
	}
	flips := map[string]func(image.Image) image.Image{
		"flip": func(img image.Image) image.Image { return imaging.Flip(img) },
		"flop": func(img image.Image) image.Image { return imaging.Flop(img) },
	}
	for name, fn := range flips {
		if err := DefaultRegistry.Register(name, 0, newMapFactory(name, fn)); err != nil {
			panic(fmt.Sprintf("failed to register %s: %v", name, err))
		}
	}
}
