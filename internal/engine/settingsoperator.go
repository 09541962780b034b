package engine

import (
	"fmt"
	"image"

	"github.com/jo-hoe/magickpad/internal/imaging"
)

type qualityParams struct {
	Quality int `mapstructure:"value"`
}

// QualityOperator sets the JPEG quality used when writing.
type QualityOperator struct {
	quality int
}

func NewQualityOperator(params map[string]any) (Operator, error) {
	var p qualityParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Quality < 1 || p.Quality > 100 {
		return nil, fmt.Errorf("quality must be between 1 and 100, got %d", p.Quality)
	}
	return &QualityOperator{quality: p.Quality}, nil
}

func (o *QualityOperator) Name() string {
	return "quality"
}

func (o *QualityOperator) Apply(images []image.Image, settings *Settings) ([]image.Image, error) {
	settings.Quality = o.quality
	return images, nil
}

type backgroundParams struct {
	Color string `mapstructure:"value"`
}

// BackgroundOperator sets the fill color used by -extent.
type BackgroundOperator struct {
	params backgroundParams
}

func NewBackgroundOperator(params map[string]any) (Operator, error) {
	var p backgroundParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if _, err := imaging.ParseColor(p.Color); err != nil {
		return nil, err
	}
	return &BackgroundOperator{params: p}, nil
}

func (o *BackgroundOperator) Name() string {
	return "background"
}

func (o *BackgroundOperator) Apply(images []image.Image, settings *Settings) ([]image.Image, error) {
	c, err := imaging.ParseColor(o.params.Color)
	if err != nil {
		return nil, err
	}
	settings.Background = c
	return images, nil
}

func init() {
	if err := DefaultRegistry.Register("quality", 1, NewQualityOperator); err != nil {
		panic(fmt.Sprintf("failed to register quality: %v", err))
	}
	if err := DefaultRegistry.Register("background", 1, NewBackgroundOperator); err != nil {
		panic(fmt.Sprintf("failed to register background: %v", err))
	}
}
