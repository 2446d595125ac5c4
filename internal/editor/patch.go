package editor

import (
	"math"

	"idcards/internal/models"
)

// Patch is a partial element update from the property panel. Nil fields
// are left unchanged. The element type and identifier cannot be patched.
type Patch struct {
	Label      *string            `json:"label,omitempty"`
	Field      *models.Field      `json:"field,omitempty"`
	Content    *string            `json:"content,omitempty"`
	X          *float64           `json:"x,omitempty"`
	Y          *float64           `json:"y,omitempty"`
	Width      *float64           `json:"width,omitempty"`
	Height     *float64           `json:"height,omitempty"`
	FontSize   *float64           `json:"fontSize,omitempty"`
	FontFamily *string            `json:"fontFamily,omitempty"`
	Color      *string            `json:"color,omitempty"`
	FontWeight *models.FontWeight `json:"fontWeight,omitempty"`
	TextAlign  *models.TextAlign  `json:"textAlign,omitempty"`
	ZIndex     *float64           `json:"zIndex,omitempty"`
}

func (p Patch) apply(el *models.Element) error {
	if p.ZIndex != nil {
		z := *p.ZIndex
		if z != math.Trunc(z) || math.IsInf(z, 0) {
			return &models.ElementError{ID: el.ID, Reason: "zIndex must be an integer"}
		}
		el.ZIndex = int(z)
	}
	setString(&el.Label, p.Label)
	setString(&el.Content, p.Content)
	setString(&el.FontFamily, p.FontFamily)
	setString(&el.Color, p.Color)
	setFloat(&el.X, p.X)
	setFloat(&el.Y, p.Y)
	setFloat(&el.Width, p.Width)
	setFloat(&el.Height, p.Height)
	setFloat(&el.FontSize, p.FontSize)
	if p.Field != nil {
		el.Field = *p.Field
	}
	if p.FontWeight != nil {
		el.FontWeight = *p.FontWeight
	}
	if p.TextAlign != nil {
		el.TextAlign = *p.TextAlign
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
