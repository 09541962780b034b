package imaging

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Geometry is an ImageMagick-style geometry such as "50%", "640x480>",
// "x200" or "100x100+10+20".
type Geometry struct {
	Width, Height       float64
	HasWidth, HasHeight bool
	X, Y                int
	HasOffset           bool

	Percent     bool // %
	Exact       bool // !
	ShrinkOnly  bool // >
	EnlargeOnly bool // <
	Fill        bool // ^
}

var geometryPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)?(?:[xX](\d+(?:\.\d+)?)?)?([+-]\d+)?([+-]\d+)?([%!<>^]*)$`)

// ParseGeometry parses a geometry string.
func ParseGeometry(s string) (Geometry, error) {
	raw := strings.TrimSpace(s)
	// flags may also precede the offset, e.g. "50%+10+10"
	var flags string
	for i := 0; i < len(raw); i++ {
		if strings.ContainsRune("%!<>^", rune(raw[i])) {
			flags += string(raw[i])
		}
	}
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune("%!<>^", r) {
			return -1
		}
		return r
	}, raw)

	m := geometryPattern.FindStringSubmatch(stripped)
	if raw == "" || m == nil {
		return Geometry{}, fmt.Errorf("invalid geometry `%s'", s)
	}

	var g Geometry
	if m[1] != "" {
		g.Width, _ = strconv.ParseFloat(m[1], 64)
		g.HasWidth = true
	}
	if m[2] != "" {
		g.Height, _ = strconv.ParseFloat(m[2], 64)
		g.HasHeight = true
	}
	if m[3] != "" {
		g.X, _ = strconv.Atoi(m[3])
		g.HasOffset = true
	}
	if m[4] != "" {
		g.Y, _ = strconv.Atoi(m[4])
	}
	g.Percent = strings.Contains(flags, "%")
	g.Exact = strings.Contains(flags, "!")
	g.ShrinkOnly = strings.Contains(flags, ">")
	g.EnlargeOnly = strings.Contains(flags, "<")
	g.Fill = strings.Contains(flags, "^")

	if !g.HasWidth && !g.HasHeight && !g.HasOffset {
		return Geometry{}, fmt.Errorf("invalid geometry `%s'", s)
	}
	return g, nil
}

// ScaledSize applies the geometry as a resize request to a w×h image.
func (g Geometry) ScaledSize(w, h int) (int, int) {
	if w <= 0 || h <= 0 || (!g.HasWidth && !g.HasHeight) {
		return w, h
	}

	if g.Percent {
		px := g.Width
		py := g.Height
		if !g.HasWidth {
			px = py
		}
		if !g.HasHeight {
			py = px
		}
		return scaleDim(w, px/100), scaleDim(h, py/100)
	}

	sx := g.Width / float64(w)
	sy := g.Height / float64(h)
	var tw, th int
	switch {
	case g.HasWidth && !g.HasHeight:
		tw, th = roundDim(g.Width), scaleDim(h, sx)
	case !g.HasWidth && g.HasHeight:
		tw, th = scaleDim(w, sy), roundDim(g.Height)
	case g.Exact:
		tw, th = roundDim(g.Width), roundDim(g.Height)
	case g.Fill:
		s := math.Max(sx, sy)
		tw, th = scaleDim(w, s), scaleDim(h, s)
	default:
		s := math.Min(sx, sy)
		tw, th = scaleDim(w, s), scaleDim(h, s)
	}

	if g.ShrinkOnly && tw >= w && th >= h {
		return w, h
	}
	if g.EnlargeOnly && tw <= w && th <= h {
		return w, h
	}
	return tw, th
}

// Size returns the width and height for geometries used as absolute sizes
// (crop, extent); missing dimensions fall back to the given defaults.
func (g Geometry) Size(defaultW, defaultH int) (int, int) {
	w, h := defaultW, defaultH
	if g.HasWidth {
		w = roundDim(g.Width)
		if g.Percent {
			w = scaleDim(defaultW, g.Width/100)
		}
	}
	if g.HasHeight {
		h = roundDim(g.Height)
		if g.Percent {
			h = scaleDim(defaultH, g.Height/100)
		}
	} else if g.Percent && g.HasWidth {
		h = scaleDim(defaultH, g.Width/100)
	}
	return w, h
}

func scaleDim(v int, factor float64) int {
	return roundDim(float64(v) * factor)
}

func roundDim(v float64) int {
	return toPixels(v)
}
