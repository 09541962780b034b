package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/jo-hoe/magickpad/internal/parallel"
)

// ToRGBA returns img as a zero-origin *image.RGBA, copying when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Resize scales img to exactly w×h using nearest-neighbor sampling.
func Resize(img image.Image, w, h int) (*image.RGBA, error) {
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	src := ToRGBA(img)
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == w && sh == h {
		slog.Debug("imaging: target dimensions equal original; skipping resize")
		return src, nil
	}

	xMap, yMap := buildIndexMaps(sw, sh, w, h)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	parallel.For(h, func(y int) {
		srcRow := src.Pix[yMap[y]*src.Stride:]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			copy(dstRow[x*4:x*4+4], srcRow[xMap[x]*4:xMap[x]*4+4])
		}
	})
	return dst, nil
}

// buildIndexMaps precomputes nearest source indices per destination column and row.
func buildIndexMaps(srcW, srcH, dstW, dstH int) ([]int, []int) {
	xMap := make([]int, dstW)
	for x := range xMap {
		xMap[x] = min(srcW-1, x*srcW/dstW)
	}
	yMap := make([]int, dstH)
	for y := range yMap {
		yMap[y] = min(srcH-1, y*srcH/dstH)
	}
	return xMap, yMap
}

// Crop returns the part of img inside w×h at (x, y), clipped to the image.
func Crop(img image.Image, w, h, x, y int) (*image.RGBA, error) {
	src := ToRGBA(img)
	rect := image.Rect(x, y, x+w, y+h).Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("geometry does not contain image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// Extent places img centered on a w×h canvas filled with bg, cropping when the
// image is larger than the canvas.
func Extent(img image.Image, w, h int, bg color.Color) (*image.RGBA, error) {
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	src := ToRGBA(img)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	offsetX := (w - src.Bounds().Dx()) / 2
	offsetY := (h - src.Bounds().Dy()) / 2
	target := src.Bounds().Add(image.Pt(offsetX, offsetY))
	draw.Draw(dst, target, src, image.Point{}, draw.Over)
	return dst, nil
}

// Rotate turns img clockwise by a multiple of 90 degrees.
func Rotate(img image.Image, degrees int) (*image.RGBA, error) {
	turns := ((degrees % 360) + 360) % 360
	if turns%90 != 0 {
		return nil, fmt.Errorf("rotation must be a multiple of 90 degrees, got %d", degrees)
	}
	src := ToRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()

	var dst *image.RGBA
	var mapPoint func(x, y int) (int, int)
	switch turns {
	case 0:
		return src, nil
	case 90:
		// 90° clockwise: (x,y) -> (height-1-y, x)
		dst = image.NewRGBA(image.Rect(0, 0, height, width))
		mapPoint = func(x, y int) (int, int) { return height - 1 - y, x }
	case 180:
		dst = image.NewRGBA(image.Rect(0, 0, width, height))
		mapPoint = func(x, y int) (int, int) { return width - 1 - x, height - 1 - y }
	default:
		// 90° counterclockwise: (x,y) -> (y, width-1-x)
		dst = image.NewRGBA(image.Rect(0, 0, height, width))
		mapPoint = func(x, y int) (int, int) { return y, width - 1 - x }
	}

	// every source row writes a distinct set of destination pixels
	parallel.For(height, func(y int) {
		for x := 0; x < width; x++ {
			dx, dy := mapPoint(x, y)
			dst.SetRGBA(dx, dy, src.RGBAAt(x, y))
		}
	})
	return dst, nil
}

// Flip mirrors img vertically.
func Flip(img image.Image) *image.RGBA {
	src := ToRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewRGBA(src.Bounds())
	parallel.For(h, func(y int) {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.Pix[(h-1-y)*src.Stride:(h-1-y)*src.Stride+w*4])
	})
	return dst
}

// Flop mirrors img horizontally.
func Flop(img image.Image) *image.RGBA {
	src := ToRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewRGBA(src.Bounds())
	parallel.For(h, func(y int) {
		for x := 0; x < w; x++ {
			dst.SetRGBA(w-1-x, y, src.RGBAAt(x, y))
		}
	})
	return dst
}

// Negate inverts the color channels and keeps alpha.
func Negate(img image.Image) *image.RGBA {
	src := ToRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewRGBA(src.Bounds())
	parallel.For(h, func(y int) {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.RGBAAt(x, y)).(color.NRGBA)
			dst.Set(x, y, color.NRGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A})
		}
	})
	return dst
}

// Grayscale converts img to luminance, keeping alpha.
func Grayscale(img image.Image) *image.RGBA {
	src := ToRGBA(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewRGBA(src.Bounds())
	parallel.For(h, func(y int) {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.RGBAAt(x, y)).(color.NRGBA)
			g := color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}).(color.Gray)
			dst.Set(x, y, color.NRGBA{R: g.Y, G: g.Y, B: g.Y, A: c.A})
		}
	})
	return dst
}

// MonochromePalette is the two-color palette used by -monochrome.
var MonochromePalette = []color.RGBA{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
}

// Dither quantizes img to palette using integer Floyd-Steinberg error diffusion
// (non-serpentine), compositing transparent pixels over white first.
// Rows depend on each other, so this runs on one goroutine.
func Dither(img image.Image, palette []color.RGBA) (*image.RGBA, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("dither palette cannot be empty")
	}
	src := ToRGBA(img)
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	out := image.NewRGBA(bounds)

	// errors are kept scaled by 16; kernel weights sum to 16
	const fsScale = 16
	const wRight = 7
	const wDownLeft = 3
	const wDown = 5
	const wDownRight = 1

	errCurrR := make([]int, w)
	errCurrG := make([]int, w)
	errCurrB := make([]int, w)
	errNextR := make([]int, w)
	errNextG := make([]int, w)
	errNextB := make([]int, w)

	clamp8 := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return v
	}

	roundDiv16 := func(e int) int {
		if e >= 0 {
			return (e + fsScale/2) / fsScale
		}
		return (e - fsScale/2) / fsScale
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.RGBAAt(x, y)).(color.NRGBA)
			r8, g8, b8, a8 := int(c.R), int(c.G), int(c.B), int(c.A)

			// composite over white
			r0 := clamp8((r8*a8 + 255*(255-a8) + 127) / 255)
			g0 := clamp8((g8*a8 + 255*(255-a8) + 127) / 255)
			b0 := clamp8((b8*a8 + 255*(255-a8) + 127) / 255)

			rAdj := clamp8(r0 + roundDiv16(errCurrR[x]))
			gAdj := clamp8(g0 + roundDiv16(errCurrG[x]))
			bAdj := clamp8(b0 + roundDiv16(errCurrB[x]))

			bestIdx := 0
			bestDist := int(^uint(0) >> 1)
			for i, p := range palette {
				dr := rAdj - int(p.R)
				dg := gAdj - int(p.G)
				db := bAdj - int(p.B)
				dist := dr*dr + dg*dg + db*db
				if dist < bestDist {
					bestDist = dist
					bestIdx = i
				}
			}

			chosen := palette[bestIdx]
			out.SetRGBA(x, y, chosen)

			er := rAdj - int(chosen.R)
			eg := gAdj - int(chosen.G)
			eb := bAdj - int(chosen.B)

			if x+1 < w {
				errCurrR[x+1] += er * wRight
				errCurrG[x+1] += eg * wRight
				errCurrB[x+1] += eb * wRight
			}
			if y+1 < h {
				if x-1 >= 0 {
					errNextR[x-1] += er * wDownLeft
					errNextG[x-1] += eg * wDownLeft
					errNextB[x-1] += eb * wDownLeft
				}
				errNextR[x] += er * wDown
				errNextG[x] += eg * wDown
				errNextB[x] += eb * wDown
				if x+1 < w {
					errNextR[x+1] += er * wDownRight
					errNextG[x+1] += eg * wDownRight
					errNextB[x+1] += eb * wDownRight
				}
			}
		}

		errCurrR, errNextR = errNextR, errCurrR
		errCurrG, errNextG = errNextG, errCurrG
		errCurrB, errNextB = errNextB, errCurrB
		for i := 0; i < w; i++ {
			errNextR[i] = 0
			errNextG[i] = 0
			errNextB[i] = 0
		}
	}
	return out, nil
}
