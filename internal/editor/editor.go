// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor implements the card template editor: one working layout
// document, a single selection, pointer-driven dragging and a gallery of
// saved templates. An Editor is owned by one caller at a time; HTTP
// handlers restore it from the session store for each request.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"idcards/internal/models"
)

// ErrNoElement is returned when an operation names an element that is not
// in the working document.
var ErrNoElement = errors.New("element not found")

// Element defaults for newly added elements.
const (
	DefaultText       = "Novo Texto"
	DefaultLabel      = "Elemento"
	DefaultFontSize   = 10
	DefaultFontFamily = "Arial"
	DefaultColor      = "#000000"
	DefaultX          = 20
	DefaultY          = 20

	textWidth   = 150
	textHeight  = 20
	photoWidth  = 80
	photoHeight = 100
)

// Store is the slice of the template store the editor needs.
type Store interface {
	List(ctx context.Context) ([]models.Layout, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Layout, error)
	Save(ctx context.Context, l *models.Layout) error
}

// Editor holds the working document and the interaction state around it.
type Editor struct {
	store    Store
	now      func() time.Time
	doc      *models.Layout
	selected string
	drag     *Drag
	gallery  []models.Layout
}

// New creates an Editor with a blank working document.
func New(store Store) *Editor {
	e := &Editor{store: store, now: time.Now}
	e.NewDocument()
	return e
}

// Document returns the working document. Callers must not modify it;
// every change goes through the Editor.
func (e *Editor) Document() *models.Layout { return e.doc }

// Gallery returns the templates listed by the last Reload.
func (e *Editor) Gallery() []models.Layout { return e.gallery }

// NewDocument replaces the working document with a blank one.
func (e *Editor) NewDocument() {
	e.doc = models.NewLayout(e.now())
	e.selected = ""
	e.drag = nil
}

// Load replaces the working document with a stored template.
func (e *Editor) Load(ctx context.Context, id uuid.UUID) error {
	l, err := e.store.Find(ctx, id)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}
	e.doc = l.Clone()
	if e.doc.Elements == nil {
		e.doc.Elements = []models.Element{}
	}
	e.selected = ""
	e.drag = nil
	return nil
}

// Reload refreshes the gallery from the store.
func (e *Editor) Reload(ctx context.Context) error {
	list, err := e.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	e.gallery = list
	return nil
}

// SetName renames the working document.
func (e *Editor) SetName(name string) {
	e.doc.Name = name
}

// AddText adds a literal text element.
func (e *Editor) AddText() (models.Element, error) {
	el := e.newElement(models.ElementText, textWidth, textHeight)
	el.Label = DefaultText
	el.Content = DefaultText
	return e.add(el)
}

// AddField adds an element bound to f, labelled after the field name.
func (e *Editor) AddField(f models.Field) (models.Element, error) {
	el := e.newElement(models.ElementField, textWidth, textHeight)
	el.Field = f
	el.Label = f.Label()
	return e.add(el)
}

// AddPhoto adds a photo slot.
func (e *Editor) AddPhoto() (models.Element, error) {
	el := e.newElement(models.ElementPhoto, photoWidth, photoHeight)
	el.Label = DefaultLabel
	return e.add(el)
}

func (e *Editor) newElement(t models.ElementType, w, h float64) models.Element {
	return models.Element{
		ID:         uuid.NewString(),
		Type:       t,
		X:          DefaultX,
		Y:          DefaultY,
		Width:      w,
		Height:     h,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		Color:      DefaultColor,
		FontWeight: models.WeightNormal,
		TextAlign:  models.AlignLeft,
		ZIndex:     e.doc.NextZIndex(),
	}
}

// add validates el, appends it on top and selects it.
func (e *Editor) add(el models.Element) (models.Element, error) {
	if err := el.Validate(); err != nil {
		return models.Element{}, err
	}
	e.doc.Elements = append(e.doc.Elements, el)
	e.selected = el.ID
	return el, nil
}

// Select makes id the selected element. An empty id clears the selection.
func (e *Editor) Select(id string) error {
	if id != "" && e.doc.Find(id) == nil {
		return fmt.Errorf("select %s: %w", id, ErrNoElement)
	}
	e.selected = id
	return nil
}

// Selected returns the selected element.
func (e *Editor) Selected() (models.Element, bool) {
	if e.selected == "" {
		return models.Element{}, false
	}
	el := e.doc.Find(e.selected)
	if el == nil {
		return models.Element{}, false
	}
	return *el, true
}

// Update applies p to element id. The patched element is validated first;
// on failure the document is left unchanged and the reason is returned.
func (e *Editor) Update(id string, p Patch) (models.Element, error) {
	el := e.doc.Find(id)
	if el == nil {
		return models.Element{}, fmt.Errorf("update %s: %w", id, ErrNoElement)
	}
	next := *el
	if err := p.apply(&next); err != nil {
		return models.Element{}, err
	}
	if err := next.Validate(); err != nil {
		return models.Element{}, err
	}
	*el = next
	return next, nil
}

// Delete removes element id, clears the selection and cancels a drag on it.
func (e *Editor) Delete(id string) error {
	if !e.doc.Remove(id) {
		return fmt.Errorf("delete %s: %w", id, ErrNoElement)
	}
	e.selected = ""
	if e.drag != nil && e.drag.ID == id {
		e.drag = nil
	}
	return nil
}

// SetDimensions resizes the canvas without touching element geometry.
func (e *Editor) SetDimensions(width, height int) error {
	return e.doc.SetDimensions(width, height)
}

// Save validates the whole document, upserts it and refreshes the gallery.
// Saving an unchanged document again replaces it with itself.
func (e *Editor) Save(ctx context.Context) error {
	if err := e.doc.Validate(); err != nil {
		return err
	}
	if err := e.store.Save(ctx, e.doc.Clone()); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	if err := e.Reload(ctx); err != nil {
		slog.Warn("template gallery reload failed after save", "template", e.doc.ID, "error", err)
	}
	return nil
}

// PreviewResident is the stand-in resident used to preview a document:
// every bindable attribute shows its own field name in braces.
func PreviewResident() models.Resident {
	var r models.Resident
	for _, f := range models.ResidentFields {
		r.Set(f, "{"+string(f)+"}")
	}
	return r
}
