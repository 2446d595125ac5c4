// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import (
	"idcards/internal/models"
)

// Palette used by the built-in presets.
const (
	colorWhite    = "#ffffff"
	colorBlack    = "#000000"
	colorGray100  = "#f3f4f6"
	colorGray200  = "#e5e7eb"
	colorGray300  = "#d1d5db"
	colorGray400  = "#9ca3af"
	colorGray500  = "#6b7280"
	colorGray600  = "#4b5563"
	colorGray800  = "#1f2937"
	colorGray900  = "#111827"
	colorGreen100 = "#dcfce780"
	colorGreen500 = "#22c55e"
	colorGreen700 = "#15803d"
	colorGreen800 = "#166534"
	colorYellow   = "#facc15"
	colorBlue200  = "#bfdbfe"
	colorBlue300  = "#93c5fd"
	colorBlue400  = "#60a5fa"
	colorBlue500  = "#3b82f64d"
	colorBlue600  = "#2563eb"
	colorBlue800  = "#1e40af"
	colorBlue900  = "#1e3a8a"
	colorSlate700 = "#334155"
	colorSlate900 = "#0f172a"
)

const watermarkSize = 192

// builder appends preset nodes in paint order, numbering their z-index.
type builder struct {
	d     *data
	nodes []Node
}

func newBuilder(d *data) *builder {
	return &builder{d: d}
}

func (b *builder) add(n Node) {
	n.Z = len(b.nodes) + 1
	b.nodes = append(b.nodes, n)
}

func (b *builder) rect(id string, x, y, w, h float64, st Style) {
	b.add(Node{ID: id, Kind: NodeRect, X: x, Y: y, W: w, H: h, Style: st})
}

// text adds a static, non-editable text node.
func (b *builder) text(id, content string, x, y, w, h float64, st Style) {
	b.add(Node{ID: id, Kind: NodeText, Content: content, X: x, Y: y, W: w, H: h, Style: st})
}

// computed adds a static text node bound to a field so edits of that field
// are reflected, without itself accepting input.
func (b *builder) computed(id string, f models.Field, x, y, w, h float64, st Style) {
	b.add(Node{ID: id, Kind: NodeText, Field: f, Content: b.d.resolve(f), X: x, Y: y, W: w, H: h, Style: st})
}

// input adds a field-bound text region: the editable-text primitive.
func (b *builder) input(f models.Field, placeholder string, x, y, w, h float64, st Style) {
	b.add(Node{
		ID:          string(f),
		Kind:        NodeText,
		Field:       f,
		Content:     b.d.resolve(f),
		Placeholder: placeholder,
		Editable:    b.d.in.Editable && f.Writable(),
		X:           x,
		Y:           y,
		W:           w,
		H:           h,
		Style:       st,
	})
}

// photo adds the shared photo slot.
func (b *builder) photo(id string, x, y, w, h float64, st Style) {
	b.add(photoNode(b.d, id, x, y, w, h, st))
}

func photoNode(d *data, id string, x, y, w, h float64, st Style) Node {
	ps := d.in.Photo
	if st.Background == "" {
		st.Background = colorGray200
	}
	st.Fit = FitCover
	if st.Color == "" {
		st.Color = colorGray400
	}
	if st.FontSize == 0 {
		st.FontSize = 12
	}
	st.Align = models.AlignCenter
	return Node{
		ID:          id,
		Kind:        NodePhoto,
		Field:       models.FieldPhotoURL,
		Content:     d.photoURL(),
		Placeholder: NoPhotoText,
		X:           x,
		Y:           y,
		W:           w,
		H:           h,
		Style:       st,
		Photo:       &ps,
	}
}

// watermark paints the organization logo, faded, centred on (cx, cy).
func (b *builder) watermark(cx, cy float64, invert bool) {
	if b.d.in.Logo == "" {
		return
	}
	b.add(watermarkNode(b.d.in.Logo, cx, cy, invert))
}

func watermarkNode(logo string, cx, cy float64, invert bool) Node {
	return Node{
		ID:      "watermark",
		Kind:    NodeImage,
		Content: logo,
		X:       cx - watermarkSize/2,
		Y:       cy - watermarkSize/2,
		W:       watermarkSize,
		H:       watermarkSize,
		Style:   Style{Fit: FitContain, Opacity: 0.1, Grayscale: true, Invert: invert},
	}
}

// logo adds the round organization badge. Without a configured logo the
// association initials are drawn instead.
func (b *builder) logo(x, y, size float64) {
	r := size / 2
	if b.d.in.Logo != "" {
		b.rect("logo-frame", x, y, size, size, Style{Background: colorWhite, Radius: r})
		b.add(Node{
			ID: "logo", Kind: NodeImage, Content: b.d.in.Logo,
			X: x, Y: y, W: size, H: size,
			Style: Style{Fit: FitContain, Radius: r},
		})
		return
	}
	b.rect("logo-frame", x, y, size, size, Style{Background: colorWhite, BorderColor: colorBlue800, BorderWidth: 4, Radius: r})
	b.rect("logo-ring", x+4, y+4, size-8, size-8, Style{BorderColor: colorGreen500, BorderWidth: 2, Radius: r - 4})
	fs := size * 0.3
	b.text("logo-initials", "AMC", x, y+r-fs*0.6, size, fs*1.2, Style{
		FontSize: fs, FontFamily: FontSans, Color: colorBlue900,
		Weight: models.WeightBold, Align: models.AlignCenter,
	})
}

func (b *builder) card(kind Kind, background string, radius float64) *Card {
	return &Card{
		Kind:       kind,
		Width:      models.DefaultCanvasWidth,
		Height:     models.DefaultCanvasHeight,
		Background: background,
		Radius:     radius,
		Nodes:      b.nodes,
	}
}
