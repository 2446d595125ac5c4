// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

// parseColor understands #rgb, #rrggbb, #rrggbbaa, "transparent" and the
// SVG colour keywords. ok is false for anything else.
func parseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, false
	}
	if s == "transparent" {
		return color.NRGBA{}, true
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			hex += "ff"
		}
		if len(hex) != 8 {
			return color.NRGBA{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, false
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return color.NRGBA{}, false
}

// colorOr parses s, falling back to def.
func colorOr(s string, def color.NRGBA) color.NRGBA {
	if c, ok := parseColor(s); ok {
		return c
	}
	return def
}

// withOpacity multiplies the alpha of c by opacity when 0 < opacity < 1.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity > 0 && opacity < 1 {
		c.A = uint8(float64(c.A) * opacity)
	}
	return c
}

// roundRect is an alpha mask covering a rectangle with rounded corners,
// optionally minus an inner rounded rectangle (a border ring).
type roundRect struct {
	outer       image.Rectangle
	radius      float64
	inner       image.Rectangle
	innerRadius float64
	ring        bool
}

func (m *roundRect) ColorModel() color.Model { return color.AlphaModel }
func (m *roundRect) Bounds() image.Rectangle  { return m.outer }

func (m *roundRect) At(x, y int) color.Color {
	a := coverage(m.outer, m.radius, x, y)
	if m.ring && a > 0 {
		a *= 1 - coverage(m.inner, m.innerRadius, x, y)
	}
	return color.Alpha{A: uint8(a * 255)}
}

// coverage estimates how much of pixel (x, y) lies inside r with corner
// radius rad, sampling the pixel on a 2x2 grid for smooth corners.
func coverage(r image.Rectangle, rad float64, x, y int) float64 {
	if !image.Pt(x, y).In(r) {
		return 0
	}
	if rad <= 0 {
		return 1
	}
	rad = math.Min(rad, math.Min(float64(r.Dx()), float64(r.Dy()))/2)
	inside := 0
	for _, off := range [4][2]float64{{0.25, 0.25}, {0.75, 0.25}, {0.25, 0.75}, {0.75, 0.75}} {
		px, py := float64(x)+off[0], float64(y)+off[1]
		cx := math.Max(float64(r.Min.X)+rad, math.Min(px, float64(r.Max.X)-rad))
		cy := math.Max(float64(r.Min.Y)+rad, math.Min(py, float64(r.Max.Y)-rad))
		if dx, dy := px-cx, py-cy; dx*dx+dy*dy <= rad*rad {
			inside++
		}
	}
	return float64(inside) / 4
}

// fill paints r in c, clipped to rounded corners.
func fill(dst draw.Image, r image.Rectangle, radius float64, c color.NRGBA) {
	if r.Empty() || c.A == 0 {
		return
	}
	mask := &roundRect{outer: r, radius: radius}
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, r.Min, draw.Over)
}

// stroke paints a border of the given width inside r.
func stroke(dst draw.Image, r image.Rectangle, radius float64, width int, c color.NRGBA) {
	if r.Empty() || width <= 0 || c.A == 0 {
		return
	}
	inner := r.Inset(width)
	mask := &roundRect{
		outer:       r,
		radius:      radius,
		inner:       inner,
		innerRadius: math.Max(0, radius-float64(width)),
		ring:        true,
	}
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, r.Min, draw.Over)
}

// paste draws src at r.Min, clipped to rounded corners.
func paste(dst draw.Image, r image.Rectangle, radius float64, src image.Image) {
	if radius <= 0 {
		draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
		return
	}
	mask := &roundRect{outer: r, radius: radius}
	draw.DrawMask(dst, r, src, src.Bounds().Min, mask, r.Min, draw.Over)
}
