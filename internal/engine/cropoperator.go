package engine

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/magickpad/internal/imaging"
)

// CropOperator cuts one WxH+X+Y region out of every image.
type CropOperator struct {
	geometry imaging.Geometry
}

func NewCropOperator(params map[string]any) (Operator, error) {
	g, err := newGeometryParams(params)
	if err != nil {
		return nil, err
	}
	return &CropOperator{geometry: g}, nil
}

func (o *CropOperator) Name() string {
	return "crop"
}

func (o *CropOperator) Apply(images []image.Image, _ *Settings) ([]image.Image, error) {
	out := make([]image.Image, len(images))
	for i, img := range images {
		w, h := o.geometry.Size(img.Bounds().Dx(), img.Bounds().Dy())
		slog.Debug("CropOperator: cropping image",
			"width", w,
			"height", h,
			"x", o.geometry.X,
			"y", o.geometry.Y)
		cropped, err := imaging.Crop(img, w, h, o.geometry.X, o.geometry.Y)
		if err != nil {
			return nil, err
		}
		out[i] = cropped
	}
	return out, nil
}

func init() {
	if err := DefaultRegistry.Register("crop", 1, NewCropOperator); err != nil {
		panic(fmt.Sprintf("failed to register crop: %v", err))
	}
}
