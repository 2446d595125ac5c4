// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package card renders ID cards. Every layout, the three built-in presets
// and user-defined templates alike, is reduced to the same resolved element
// list: positioned nodes whose content is already looked up from the
// resident and association data. The HTML viewer and the raster export both
// consume that list, so they cannot drift apart.
package card

import (
	"errors"
	"fmt"

	"idcards/internal/models"
)

// ErrNotEditable is returned when an edit targets a node that does not
// accept direct input (static card, computed field, unknown node).
var ErrNotEditable = errors.New("card region is not editable")

// Kind identifies a layout choice.
type Kind string

const (
	KindClassic Kind = "CLASSIC"
	KindModern  Kind = "MODERN"
	KindMinimal Kind = "MINIMAL"
	KindCustom  Kind = "CUSTOM"
)

// ParseKind converts a raw layout name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindClassic, KindModern, KindMinimal, KindCustom:
		return k, nil
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

// LayoutChoice selects how a card is drawn: one of the built-in presets or
// a custom Layout Model. Build it with Classic, Modern, Minimal or Custom.
type LayoutChoice struct {
	kind   Kind
	layout *models.Layout
}

func Classic() LayoutChoice { return LayoutChoice{kind: KindClassic} }
func Modern() LayoutChoice  { return LayoutChoice{kind: KindModern} }
func Minimal() LayoutChoice { return LayoutChoice{kind: KindMinimal} }

// Custom selects a user-defined layout. The layout is read, never modified.
func Custom(l *models.Layout) LayoutChoice {
	return LayoutChoice{kind: KindCustom, layout: l}
}

// Kind returns the selected layout kind.
func (c LayoutChoice) Kind() Kind { return c.kind }

// Layout returns the custom layout, or nil for presets.
func (c LayoutChoice) Layout() *models.Layout { return c.layout }

// Input is everything the renderer reads. Logo is a data URL or remote URL
// of the organization logo, empty when none is configured.
type Input struct {
	Resident    models.Resident
	Layout      LayoutChoice
	Photo       models.PhotoSettings
	Association models.Association
	Logo        string
	Editable    bool
}

// NodeKind is the drawing primitive a node maps to.
type NodeKind string

const (
	NodeText   NodeKind = "text"
	NodePhoto  NodeKind = "photo"
	NodeImage  NodeKind = "image"
	NodeQRCode NodeKind = "qrcode"
	NodeRect   NodeKind = "rect"
)

// Font families understood by both the HTML viewer and the rasterizer.
const (
	FontSans = "sans-serif"
	FontMono = "monospace"
)

// Image fit modes.
const (
	FitCover   = "cover"
	FitContain = "contain"
)

// Style carries the visual attributes of a node. Zero values mean "not
// set": no background, no border, opacity 1.
type Style struct {
	FontSize    float64           `json:"fontSize,omitempty"`
	FontFamily  string            `json:"fontFamily,omitempty"`
	Color       string            `json:"color,omitempty"`
	Weight      models.FontWeight `json:"fontWeight,omitempty"`
	Align       models.TextAlign  `json:"textAlign,omitempty"`
	Italic      bool              `json:"italic,omitempty"`
	Uppercase   bool              `json:"uppercase,omitempty"`
	Truncate    bool              `json:"truncate,omitempty"`
	Background  string            `json:"background,omitempty"`
	BorderColor string            `json:"borderColor,omitempty"`
	BorderWidth float64           `json:"borderWidth,omitempty"`
	Radius      float64           `json:"radius,omitempty"`
	Opacity     float64           `json:"opacity,omitempty"`
	Grayscale   bool              `json:"grayscale,omitempty"`
	Invert      bool              `json:"invert,omitempty"`
	Fit         string            `json:"fit,omitempty"`
}

// Node is one resolved element of a rendered card.
type Node struct {
	ID          string                `json:"id"`
	Kind        NodeKind              `json:"kind"`
	Field       models.Field          `json:"field,omitempty"`
	Content     string                `json:"content"`
	Placeholder string                `json:"placeholder,omitempty"`
	Editable    bool                  `json:"editable"`
	X           float64               `json:"x"`
	Y           float64               `json:"y"`
	W           float64               `json:"width"`
	H           float64               `json:"height"`
	Style       Style                 `json:"style"`
	Z           int                   `json:"zIndex"`
	Photo       *models.PhotoSettings `json:"photo,omitempty"`
}

// DisplayText is the text a node shows: its content, or the muted
// placeholder when the content is empty, upper-cased when styled so.
func (n Node) DisplayText() string {
	s := n.Content
	if s == "" {
		s = n.Placeholder
	}
	if n.Style.Uppercase {
		s = upper(s)
	}
	return s
}

// Card is the resolved element list plus canvas attributes. Nodes are in
// paint order: later nodes are drawn over earlier ones.
type Card struct {
	Kind          Kind    `json:"kind"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Background    string  `json:"background"`
	BackgroundURL string  `json:"backgroundUrl,omitempty"`
	Radius        float64 `json:"radius,omitempty"`
	Nodes         []Node  `json:"nodes"`
}

// FieldEditFunc receives committed edits of field-bound regions.
type FieldEditFunc func(field models.Field, value string)

// Render resolves a card. It is a pure function of its input: the same
// input always yields an identical card.
func Render(in Input) (*Card, error) {
	in.Photo = in.Photo.Clamped()
	d := newData(in)

	var c *Card
	switch in.Layout.kind {
	case KindClassic, "":
		c = renderClassic(d)
	case KindModern:
		c = renderModern(d)
	case KindMinimal:
		c = renderMinimal(d)
	case KindCustom:
		if in.Layout.layout == nil {
			return nil, errors.New("custom layout choice without a layout")
		}
		c = renderCustom(d, in.Layout.layout)
	default:
		return nil, fmt.Errorf("unknown layout %q", in.Layout.kind)
	}
	return c, nil
}

// Find returns the node with the given ID, or nil.
func (c *Card) Find(id string) *Node {
	for i := range c.Nodes {
		if c.Nodes[i].ID == id {
			return &c.Nodes[i]
		}
	}
	return nil
}

// Edit commits a value typed into a field-bound region. Every node bound
// to the field shows the new value and onEdit, when set, is invoked once.
func (c *Card) Edit(field models.Field, value string, onEdit FieldEditFunc) error {
	for i := range c.Nodes {
		if c.Nodes[i].Editable && c.Nodes[i].Field == field {
			return c.EditNode(c.Nodes[i].ID, value, onEdit)
		}
	}
	return fmt.Errorf("edit %s: %w", field, ErrNotEditable)
}

// EditNode commits a value typed into the node with the given ID. Literal
// text nodes change only themselves; field-bound nodes propagate to every
// node bound to the same field and report the edit through onEdit.
func (c *Card) EditNode(id, value string, onEdit FieldEditFunc) error {
	n := c.Find(id)
	if n == nil || !n.Editable {
		return fmt.Errorf("edit node %s: %w", id, ErrNotEditable)
	}
	if n.Field == "" {
		n.Content = value
		return nil
	}

	field := n.Field
	for i := range c.Nodes {
		if k := c.Nodes[i].Kind; c.Nodes[i].Field == field && (k == NodeText || k == NodeQRCode) {
			c.Nodes[i].Content = value
		}
	}
	if onEdit != nil {
		onEdit(field, value)
	}
	return nil
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	out := *c
	out.Nodes = make([]Node, len(c.Nodes))
	copy(out.Nodes, c.Nodes)
	for i := range out.Nodes {
		if p := out.Nodes[i].Photo; p != nil {
			cp := *p
			out.Nodes[i].Photo = &cp
		}
	}
	return &out
}
