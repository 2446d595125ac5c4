package editor

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"idcards/internal/imaging"
	"idcards/internal/models"
)

var (
	// ErrUnknownPreset is returned by ApplyPreset for names not in CanvasPresets.
	ErrUnknownPreset = errors.New("unknown canvas preset")

	// ErrInvalidBackground is returned for uploads that are not a decodable image.
	ErrInvalidBackground = errors.New("invalid background image")
)

// CanvasPreset is a named card stock size.
type CanvasPreset struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// CanvasPresets are the card stock sizes offered by the editor.
var CanvasPresets = []CanvasPreset{
	{Name: "Padrão CR80 (350x220)", Width: 350, Height: 220},
	{Name: "Vertical (220x350)", Width: 220, Height: 350},
	{Name: "Cartão Visita (350x200)", Width: 350, Height: 200},
	{Name: "Credencial (300x450)", Width: 300, Height: 450},
	{Name: "Quadrado (350x350)", Width: 350, Height: 350},
}

// ApplyPreset resizes the canvas to the named preset.
func (e *Editor) ApplyPreset(name string) error {
	for _, p := range CanvasPresets {
		if p.Name == name {
			return e.SetDimensions(p.Width, p.Height)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// FieldButton is one entry of the editor's field palette.
type FieldButton struct {
	Field models.Field `json:"field"`
	Label string       `json:"label"`
}

// FieldButtons lists one button per bindable resident attribute.
func FieldButtons() []FieldButton {
	out := make([]FieldButton, 0, len(models.ResidentFields))
	for _, f := range models.ResidentFields {
		out = append(out, FieldButton{Field: f, Label: f.Label()})
	}
	return out
}

// SetBackground stores an uploaded raster image as the document background
// data URL. The upload must decode as an image; an empty content type is
// sniffed from the data.
func (e *Editor) SetBackground(contentType string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty upload", ErrInvalidBackground)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: got %s", ErrInvalidBackground, contentType)
	}
	if _, err := imaging.Decode(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackground, err)
	}
	url := imaging.ToDataURL(contentType, data)
	e.doc.BackgroundURL = &url
	return nil
}

// ClearBackground removes the document background.
func (e *Editor) ClearBackground() {
	e.doc.BackgroundURL = nil
}
