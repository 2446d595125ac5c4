// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import (
	"errors"
	"log/slog"

	"idcards/internal/models"
)

// Defaults applied to custom elements that leave a style attribute unset.
const (
	defaultFontSize  = 10
	defaultTextColor = "#000000"
)

// renderCustom interprets a Layout Model. Elements are visited in ascending
// z-index. An element that fails validation is skipped, except that a
// field binding to an unknown name still renders as an empty region.
func renderCustom(d *data, l *models.Layout) *Card {
	c := &Card{
		Kind:       KindCustom,
		Width:      l.Width,
		Height:     l.Height,
		Background: colorWhite,
	}
	if l.BackgroundURL != nil {
		c.BackgroundURL = *l.BackgroundURL
	}
	if d.in.Logo != "" {
		c.Nodes = append(c.Nodes, watermarkNode(d.in.Logo, float64(l.Width)/2, float64(l.Height)/2, false))
		c.Nodes[0].Z = minZ(l) - 1
	}

	for _, el := range l.PaintOrder() {
		if err := renderable(el); err != nil {
			slog.Debug("skipping invalid card element", "element", el.ID, "error", err)
			continue
		}
		c.Nodes = append(c.Nodes, customNode(d, el))
	}
	return c
}

// renderable validates el, tolerating a binding to an unknown field.
func renderable(el models.Element) error {
	err := el.Validate()
	if !errors.Is(err, models.ErrUnknownField) {
		return err
	}
	slog.Debug("card element bound to unknown field", "element", el.ID, "field", el.Field)
	el.Field = models.FieldName
	return el.Validate()
}

func minZ(l *models.Layout) int {
	if len(l.Elements) == 0 {
		return 1
	}
	z := l.Elements[0].ZIndex
	for _, el := range l.Elements[1:] {
		if el.ZIndex < z {
			z = el.ZIndex
		}
	}
	return z
}

func customStyle(el models.Element) Style {
	st := Style{
		FontSize:   el.FontSize,
		FontFamily: el.FontFamily,
		Color:      el.Color,
		Weight:     el.FontWeight,
		Align:      el.TextAlign,
	}
	if st.FontSize <= 0 {
		st.FontSize = defaultFontSize
	}
	if st.Color == "" {
		st.Color = defaultTextColor
	}
	if st.FontFamily == "" {
		st.FontFamily = FontSans
	}
	if st.Weight == "" {
		st.Weight = models.WeightNormal
	}
	if st.Align == "" {
		st.Align = models.AlignLeft
	}
	return st
}

func customNode(d *data, el models.Element) Node {
	st := customStyle(el)
	n := Node{
		ID: el.ID,
		X:  el.X,
		Y:  el.Y,
		W:  el.Width,
		H:  el.Height,
		Z:  el.ZIndex,
	}

	switch el.Type {
	case models.ElementText:
		n.Kind = NodeText
		n.Content = el.Content
		n.Editable = d.in.Editable
		n.Style = st
	case models.ElementField:
		n.Kind = NodeText
		n.Style = st
		if el.Field.Valid() {
			n.Field = el.Field
			n.Content = d.resolve(el.Field)
			n.Editable = d.in.Editable && el.Field.Writable()
		}
	case models.ElementPhoto:
		n = photoNode(d, el.ID, el.X, el.Y, el.Width, el.Height, Style{})
		n.Z = el.ZIndex
	case models.ElementImage:
		n.Kind = NodeImage
		n.Content = el.Content
		n.Style = Style{Fit: FitContain}
	case models.ElementQRCode:
		n.Kind = NodeQRCode
		n.Style = Style{Color: st.Color, Background: colorWhite}
		if el.Field != "" && el.Field.Valid() {
			n.Field = el.Field
			n.Content = d.resolve(el.Field)
		} else {
			n.Content = el.Content
		}
	}
	return n
}
