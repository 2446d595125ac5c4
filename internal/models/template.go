// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Canvas defaults for a blank card template (CR80 aspect).
const (
	DefaultCanvasWidth  = 350
	DefaultCanvasHeight = 220
	DefaultLayoutName   = "Novo Template"

	// MaxCanvasSize bounds each canvas dimension. MaxElementSize bounds
	// element boxes, MaxFontSize their text.
	MaxCanvasSize  = 2000
	MaxElementSize = MaxCanvasSize
	MaxFontSize    = 200
)

var (
	// ErrInvalidElement matches every element validation failure.
	ErrInvalidElement = errors.New("invalid element")

	// ErrInvalidLayout matches document-level failures: a blank name or a
	// canvas outside 1..MaxCanvasSize.
	ErrInvalidLayout = errors.New("invalid template")
)

// ElementType is the kind of content an element carries.
type ElementType string

const (
	ElementText   ElementType = "text"
	ElementField  ElementType = "field"
	ElementPhoto  ElementType = "photo"
	ElementImage  ElementType = "image"
	ElementQRCode ElementType = "qrcode"
)

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	switch t {
	case ElementText, ElementField, ElementPhoto, ElementImage, ElementQRCode:
		return true
	}
	return false
}

// TextLike reports whether elements of this type size to their text.
func (t ElementType) TextLike() bool {
	return t == ElementText || t == ElementField
}

// FontWeight is either normal or bold.
type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// TextAlign is the horizontal alignment inside the element box.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Element is one positioned, styled unit of a card template. Height is
// advisory for text-like elements, which size to their content.
type Element struct {
	ID         string      `json:"id"`
	Type       ElementType `json:"type"`
	Label      string      `json:"label"`
	Field      Field       `json:"field,omitempty"`
	Content    string      `json:"content,omitempty"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	FontSize   float64     `json:"fontSize"`
	FontFamily string      `json:"fontFamily"`
	Color      string      `json:"color"`
	FontWeight FontWeight  `json:"fontWeight"`
	TextAlign  TextAlign   `json:"textAlign"`
	ZIndex     int         `json:"zIndex"`

	// zIndexFraction is set when the decoded zIndex was not integral.
	zIndexFraction bool
}

// UnmarshalJSON decodes an element, remembering whether zIndex was a
// non-integer number so Validate can reject it.
func (el *Element) UnmarshalJSON(data []byte) error {
	type plain Element
	aux := struct {
		*plain
		ZIndex json.Number `json:"zIndex"`
	}{plain: (*plain)(el)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	el.ZIndex, el.zIndexFraction = 0, false
	if aux.ZIndex == "" {
		return nil
	}
	if n, err := aux.ZIndex.Int64(); err == nil {
		el.ZIndex = int(n)
		return nil
	}
	f, err := aux.ZIndex.Float64()
	if err != nil {
		return fmt.Errorf("decode zIndex: %w", err)
	}
	el.ZIndex = int(f)
	el.zIndexFraction = f != math.Trunc(f)
	return nil
}

// ElementError explains why an element was rejected.
type ElementError struct {
	ID     string
	Reason string
	Err    error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %s: %s", e.ID, e.Reason)
}

// Unwrap exposes the underlying cause (e.g. ErrUnknownField).
func (e *ElementError) Unwrap() error { return e.Err }

// Is makes every ElementError match ErrInvalidElement.
func (e *ElementError) Is(target error) bool { return target == ErrInvalidElement }

func invalid(el *Element, reason string, cause error) error {
	return &ElementError{ID: el.ID, Reason: reason, Err: cause}
}

// Validate checks the element's structural invariants.
func (el *Element) Validate() error {
	if !el.Type.Valid() {
		return invalid(el, fmt.Sprintf("unknown element type %q", el.Type), nil)
	}
	if el.Type == ElementField && el.Field == "" {
		return invalid(el, "field element has no bound field", nil)
	}
	if el.Field != "" && !el.Field.Valid() {
		return invalid(el, fmt.Sprintf("unknown field %q", el.Field), ErrUnknownField)
	}
	if el.Width <= 0 || el.Height <= 0 {
		return invalid(el, "width and height must be greater than zero", nil)
	}
	if el.Width > MaxElementSize || el.Height > MaxElementSize {
		return invalid(el, fmt.Sprintf("width and height must not exceed %d", MaxElementSize), nil)
	}
	if !finite(el.X) || !finite(el.Y) || math.Abs(el.X) > 2*MaxCanvasSize || math.Abs(el.Y) > 2*MaxCanvasSize {
		return invalid(el, "position is out of range", nil)
	}
	if el.FontSize < 0 || el.FontSize > MaxFontSize {
		return invalid(el, fmt.Sprintf("font size must be between 0 and %d", MaxFontSize), nil)
	}
	if el.zIndexFraction {
		return invalid(el, "zIndex must be an integer", nil)
	}
	if el.FontWeight != "" && el.FontWeight != WeightNormal && el.FontWeight != WeightBold {
		return invalid(el, fmt.Sprintf("unknown font weight %q", el.FontWeight), nil)
	}
	switch el.TextAlign {
	case "", AlignLeft, AlignCenter, AlignRight:
	default:
		return invalid(el, fmt.Sprintf("unknown text alignment %q", el.TextAlign), nil)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Layout is a custom card template: a canvas, an optional background and
// an ordered set of elements. It is persisted and loaded as a whole.
type Layout struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	BackgroundURL *string   `json:"backgroundUrl"`
	Elements      []Element `json:"elements"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewLayout returns a blank document with the default canvas.
func NewLayout(now time.Time) *Layout {
	return &Layout{
		ID:        uuid.New(),
		Name:      DefaultLayoutName,
		Width:     DefaultCanvasWidth,
		Height:    DefaultCanvasHeight,
		Elements:  []Element{},
		CreatedAt: now.UTC(),
	}
}

// NextZIndex returns one more than the highest z-index in use, or 1 for an
// empty layout, so a newly added element paints on top.
func (l *Layout) NextZIndex() int {
	if len(l.Elements) == 0 {
		return 1
	}
	top := l.Elements[0].ZIndex
	for _, el := range l.Elements[1:] {
		if el.ZIndex > top {
			top = el.ZIndex
		}
	}
	return top + 1
}

// SetDimensions changes the canvas size. Element geometry is left as-is:
// resizing picks a different card stock, it does not reflow a design.
func (l *Layout) SetDimensions(width, height int) error {
	if err := checkCanvas(width, height); err != nil {
		return err
	}
	l.Width = width
	l.Height = height
	return nil
}

func checkCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: canvas size must be positive, got %dx%d", ErrInvalidLayout, width, height)
	}
	if width > MaxCanvasSize || height > MaxCanvasSize {
		return fmt.Errorf("%w: canvas size must not exceed %dx%d, got %dx%d",
			ErrInvalidLayout, MaxCanvasSize, MaxCanvasSize, width, height)
	}
	return nil
}

// Find returns the element with the given ID, or nil.
func (l *Layout) Find(id string) *Element {
	for i := range l.Elements {
		if l.Elements[i].ID == id {
			return &l.Elements[i]
		}
	}
	return nil
}

// Remove deletes the element with the given ID. Returns false if absent.
func (l *Layout) Remove(id string) bool {
	for i := range l.Elements {
		if l.Elements[i].ID == id {
			l.Elements = append(l.Elements[:i], l.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// PaintOrder returns the elements sorted by ascending z-index. Equal
// z-indices keep insertion order.
func (l *Layout) PaintOrder() []Element {
	out := make([]Element, len(l.Elements))
	copy(out, l.Elements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Validate checks the document before it is persisted.
func (l *Layout) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: template name is required", ErrInvalidLayout)
	}
	if err := checkCanvas(l.Width, l.Height); err != nil {
		return err
	}
	for i := range l.Elements {
		if err := l.Elements[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy that shares no slices or pointers with l.
func (l *Layout) Clone() *Layout {
	c := *l
	c.Elements = make([]Element, len(l.Elements))
	copy(c.Elements, l.Elements)
	if l.BackgroundURL != nil {
		bg := *l.BackgroundURL
		c.BackgroundURL = &bg
	}
	return &c
}
