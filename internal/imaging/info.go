package imaging

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"github.com/zeebo/blake3"
)

// Info is the metadata record extracted for one file.
type Info struct {
	Name       string `json:"name"`
	Format     string `json:"format"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ColorModel string `json:"colorModel"`
	Bytes      int    `json:"bytes"`
	Digest     string `json:"digest"`
}

// Identify describes the image stored under name without decoding pixels.
func Identify(name string, data []byte) (Info, error) {
	cfg, format, err := DecodeConfig(data)
	if err != nil {
		return Info{}, fmt.Errorf("failed to identify %s: %w", name, err)
	}
	sum := blake3.Sum256(data)
	return Info{
		Name:       name,
		Format:     strings.ToUpper(format),
		Width:      cfg.Width,
		Height:     cfg.Height,
		ColorModel: colorModelName(cfg.ColorModel),
		Bytes:      len(data),
		Digest:     hex.EncodeToString(sum[:]),
	}, nil
}

// String renders the record the way `identify` prints one line.
func (i Info) String() string {
	return fmt.Sprintf("%s %s %dx%d %dx%d+0+0 8-bit sRGB %dB",
		i.Name, i.Format, i.Width, i.Height, i.Width, i.Height, i.Bytes)
}

func colorModelName(m color.Model) string {
	// palettes are slices and must be checked before comparing models
	if _, ok := m.(color.Palette); ok {
		return "Palette"
	}
	switch m {
	case color.RGBAModel:
		return "RGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.AlphaModel, color.Alpha16Model:
		return "Alpha"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.CMYKModel:
		return "CMYK"
	case color.YCbCrModel, color.NYCbCrAModel:
		return "YCbCr"
	default:
		return "unknown"
	}
}
