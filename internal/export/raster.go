// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"idcards/internal/card"
	"idcards/internal/imaging"
	"idcards/internal/models"
)

const (
	// maxPixels bounds the bitmap of one export: the largest canvas at
	// the default scale.
	maxPixels = models.MaxCanvasSize * models.MaxCanvasSize * DefaultScale * DefaultScale

	lineHeight       = 1.2
	placeholderAlpha = 0.5
	ellipsis         = "…"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

// Rasterizer draws resolved cards into bitmaps.
type Rasterizer struct {
	loader *imaging.Loader
	scale  int
}

// NewRasterizer creates a Rasterizer. A scale below 1 uses DefaultScale.
func NewRasterizer(loader *imaging.Loader, scale int) *Rasterizer {
	if scale < 1 {
		scale = DefaultScale
	}
	if loader == nil {
		loader = imaging.NewLoader(0)
	}
	return &Rasterizer{loader: loader, scale: scale}
}

// Rasterize draws c at the configured scale over an opaque white backdrop.
// Nodes are painted in list order. Cancellation is checked between nodes.
func (r *Rasterizer) Rasterize(ctx context.Context, c *card.Card) (img *image.RGBA, err error) {
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("rasterize: panic: %v", p)
		}
	}()

	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("rasterize: invalid canvas %dx%d", c.Width, c.Height)
	}
	if err := r.checkBudget(c.Width, c.Height); err != nil {
		return nil, err
	}
	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	defer faces.close()

	bounds := image.Rect(0, 0, c.Width*r.scale, c.Height*r.scale)
	p := &painter{
		ctx:   ctx,
		r:     r,
		faces: faces,
		dst:   image.NewRGBA(bounds),
	}
	if err := p.card(c); err != nil {
		return nil, err
	}

	// Nodes overflowing the rounded card are clipped when the layer is
	// composed onto the backdrop.
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(white), image.Point{}, draw.Src)
	paste(out, bounds, p.s(c.Radius), p.dst)
	return out, nil
}

// checkBudget rejects a canvas whose bitmap at r.scale would exceed
// maxPixels. It runs before anything is allocated.
func (r *Rasterizer) checkBudget(width, height int) error {
	w, h := int64(width)*int64(r.scale), int64(height)*int64(r.scale)
	if w*h > maxPixels {
		return fmt.Errorf("rasterize: canvas %dx%d at scale %d exceeds %d pixels", width, height, r.scale, maxPixels)
	}
	return nil
}

// painter holds the state of one rasterization.
type painter struct {
	ctx   context.Context
	r     *Rasterizer
	faces *faceCache
	dst   *image.RGBA
}

func (p *painter) s(v float64) float64 { return v * float64(p.r.scale) }

func (p *painter) rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(p.s(x))), int(math.Round(p.s(y))),
		int(math.Round(p.s(x+w))), int(math.Round(p.s(y+h))),
	)
}

func (p *painter) card(c *card.Card) error {
	full := p.dst.Bounds()
	fill(p.dst, full, 0, colorOr(c.Background, white))

	if c.BackgroundURL != "" {
		bg, err := p.r.loader.Load(p.ctx, c.BackgroundURL)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		paste(p.dst, full, 0, imaging.Cover(bg, full.Dx(), full.Dy()))
	}

	for i := range c.Nodes {
		if err := p.ctx.Err(); err != nil {
			return fmt.Errorf("rasterize: %w", err)
		}
		if err := p.node(&c.Nodes[i]); err != nil {
			return fmt.Errorf("node %s: %w", c.Nodes[i].ID, err)
		}
	}
	return nil
}

func (p *painter) node(n *card.Node) error {
	box := p.rect(n.X, n.Y, n.W, n.H)
	// Off-canvas nodes draw nothing. Partly visible ones keep their full
	// box so fitting and rounding match the viewer; drawing clips to dst.
	if !box.Overlaps(p.dst.Bounds()) {
		return nil
	}
	if int64(box.Dx())*int64(box.Dy()) > maxPixels {
		return fmt.Errorf("box %dx%d exceeds %d pixels", box.Dx(), box.Dy(), maxPixels)
	}
	st := n.Style
	radius := p.s(st.Radius)

	switch n.Kind {
	case card.NodeRect:
		fill(p.dst, box, radius, withOpacity(colorOr(st.Background, color.NRGBA{}), st.Opacity))
		p.border(box, st)
	case card.NodeText:
		fill(p.dst, box, radius, withOpacity(colorOr(st.Background, color.NRGBA{}), st.Opacity))
		p.border(box, st)
		return p.text(n, box)
	case card.NodePhoto:
		return p.photo(n, box)
	case card.NodeImage:
		return p.image(n, box)
	case card.NodeQRCode:
		return p.qrcode(n, box)
	}
	return nil
}

func (p *painter) border(box image.Rectangle, st card.Style) {
	if st.BorderWidth <= 0 {
		return
	}
	w := max(1, int(math.Round(p.s(st.BorderWidth))))
	stroke(p.dst, box, p.s(st.Radius), w, withOpacity(colorOr(st.BorderColor, black), st.Opacity))
}

func (p *painter) photo(n *card.Node, box image.Rectangle) error {
	st := n.Style
	radius := p.s(st.Radius)
	fill(p.dst, box, radius, colorOr(st.Background, white))

	if n.Content == "" {
		if err := p.text(&card.Node{Content: n.Placeholder, Style: st}, box); err != nil {
			return err
		}
		p.border(box, st)
		return nil
	}

	src, err := p.r.loader.Load(p.ctx, n.Content)
	if err != nil {
		return fmt.Errorf("photo: %w", err)
	}
	ps := models.DefaultPhotoSettings()
	if n.Photo != nil {
		ps = n.Photo.Clamped()
	}
	img := imaging.Zoom(src, box.Dx(), box.Dy(), ps.Zoom, p.s(ps.X), p.s(ps.Y))
	if st.Grayscale {
		img = imaging.Grayscale(img)
	}
	paste(p.dst, box, radius, img)
	p.border(box, st)
	return nil
}

func (p *painter) image(n *card.Node, box image.Rectangle) error {
	if n.Content == "" || box.Empty() {
		return nil
	}
	src, err := p.r.loader.Load(p.ctx, n.Content)
	if err != nil {
		return fmt.Errorf("image: %w", err)
	}
	st := n.Style
	fitted := imaging.Contain(src, box.Dx(), box.Dy())
	if st.Fit == card.FitCover {
		fitted = imaging.Cover(src, box.Dx(), box.Dy())
	}
	if st.Grayscale {
		fitted = imaging.Grayscale(fitted)
	}
	if st.Invert {
		fitted = imaging.Invert(fitted)
	}
	if st.Opacity > 0 && st.Opacity < 1 {
		fitted = imaging.Fade(fitted, st.Opacity)
	}
	paste(p.dst, box, p.s(st.Radius), fitted)
	return nil
}

func (p *painter) qrcode(n *card.Node, box image.Rectangle) error {
	if n.Content == "" || box.Empty() {
		return nil
	}
	q, err := qrcode.New(n.Content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qrcode: %w", err)
	}
	q.DisableBorder = true
	q.ForegroundColor = colorOr(n.Style.Color, black)
	q.BackgroundColor = colorOr(n.Style.Background, white)

	size := min(box.Dx(), box.Dy())
	code := q.Image(size)
	at := image.Rect(box.Min.X, box.Min.Y, box.Min.X+size, box.Min.Y+size)
	draw.Draw(p.dst, at, code, code.Bounds().Min, draw.Over)
	return nil
}

// text draws the node's display text inside box. Truncated text stays on
// one line ending in an ellipsis; other text wraps at word boundaries.
func (p *painter) text(n *card.Node, box image.Rectangle) error {
	content := n.DisplayText()
	if content == "" || box.Dx() <= 0 {
		return nil
	}
	st := n.Style
	size := st.FontSize
	if size <= 0 {
		size = 10
	}
	size = min(size, models.MaxFontSize)
	face, err := p.faces.face(st.FontFamily, st.Weight == models.WeightBold, st.Italic, p.s(size))
	if err != nil {
		return err
	}

	col := withOpacity(colorOr(st.Color, black), st.Opacity)
	if n.Content == "" {
		col = withOpacity(col, placeholderAlpha)
	}

	var lines []string
	if st.Truncate {
		lines = []string{truncate(face, content, box.Dx())}
	} else {
		lines = wrap(face, content, box.Dx())
	}

	m := face.Metrics()
	ascent := m.Ascent.Round()
	textH := m.Ascent.Round() + m.Descent.Round()
	step := int(math.Round(p.s(size) * lineHeight))
	total := textH + step*(len(lines)-1)

	top := box.Min.Y + (box.Dy()-total)/2
	if total > box.Dy() {
		top = box.Min.Y
	}

	d := &font.Drawer{Dst: p.dst, Src: image.NewUniform(col), Face: face}
	for i, line := range lines {
		w := font.MeasureString(face, line).Round()
		x := box.Min.X
		switch st.Align {
		case models.AlignCenter:
			x += (box.Dx() - w) / 2
		case models.AlignRight:
			x = box.Max.X - w
		}
		d.Dot = fixed.P(x, top+ascent+i*step)
		d.DrawString(line)
	}
	return nil
}

// truncate shortens s with an ellipsis until it fits width pixels.
func truncate(face font.Face, s string, width int) string {
	if font.MeasureString(face, s).Round() <= width {
		return s
	}
	for len(s) > 0 {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
		if font.MeasureString(face, s+ellipsis).Round() <= width {
			return s + ellipsis
		}
	}
	return ""
}

// wrap breaks s into lines no wider than width, splitting on spaces.
// A single word wider than width is kept on its own line.
func wrap(face font.Face, s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if font.MeasureString(face, line+" "+w).Round() <= width {
				line += " " + w
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}
