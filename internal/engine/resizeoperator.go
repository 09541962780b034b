package engine

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/magickpad/internal/imaging"
)

type geometryParams struct {
	Geometry string `mapstructure:"value"`
}

func newGeometryParams(params map[string]any) (imaging.Geometry, error) {
	var p geometryParams
	if err := decodeParams(params, &p); err != nil {
		return imaging.Geometry{}, err
	}
	return imaging.ParseGeometry(p.Geometry)
}

// ResizeOperator serves -resize, -scale and -thumbnail; all three sample with
// nearest neighbor.
type ResizeOperator struct {
	name     string
	geometry imaging.Geometry
}

func newResizeFactory(name string) OperatorFactory {
	return func(params map[string]any) (Operator, error) {
		g, err := newGeometryParams(params)
		if err != nil {
			return nil, err
		}
		if !g.HasWidth && !g.HasHeight {
			return nil, fmt.Errorf("invalid geometry: missing size")
		}
		return &ResizeOperator{name: name, geometry: g}, nil
	}
}

func (o *ResizeOperator) Name() string {
	return o.name
}

func (o *ResizeOperator) Apply(images []image.Image, _ *Settings) ([]image.Image, error) {
	out := make([]image.Image, len(images))
	for i, img := range images {
		w, h := o.geometry.ScaledSize(img.Bounds().Dx(), img.Bounds().Dy())
		slog.Debug("ResizeOperator: scaling image",
			"operator", o.name,
			"original_width", img.Bounds().Dx(),
			"original_height", img.Bounds().Dy(),
			"target_width", w,
			"target_height", h)
		scaled, err := imaging.Resize(img, w, h)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

// ExtentOperator sets the canvas size, centering the image on the background.
type ExtentOperator struct {
	geometry imaging.Geometry
}

func NewExtentOperator(params map[string]any) (Operator, error) {
	g, err := newGeometryParams(params)
	if err != nil {
		return nil, err
	}
	if !g.HasWidth && !g.HasHeight {
		return nil, fmt.Errorf("invalid geometry: missing size")
	}
	return &ExtentOperator{geometry: g}, nil
}

func (o *ExtentOperator) Name() string {
	return "extent"
}

func (o *ExtentOperator) Apply(images []image.Image, settings *Settings) ([]image.Image, error) {
	out := make([]image.Image, len(images))
	for i, img := range images {
		w, h := o.geometry.Size(img.Bounds().Dx(), img.Bounds().Dy())
		extended, err := imaging.Extent(img, w, h, settings.Background)
		if err != nil {
			return nil, err
		}
		out[i] = extended
	}
	return out, nil
}

func init() {
	for _, name := range []string{"resize", "scale", "thumbnail"} {
		if err := DefaultRegistry.Register(name, 1, newResizeFactory(name)); err != nil {
			panic(fmt.Sprintf("failed to register %s: %v", name, err))
		}
	}
	if err := DefaultRegistry.Register("extent", 1, NewExtentOperator); err != nil {
		panic(fmt.Sprintf("failed to register extent: %v", err))
	}
}
