package models

// Zoom bounds for PhotoSettings.
const (
	MinPhotoZoom = 0.5
	MaxPhotoZoom = 3.0
)

// PhotoSettings positions a resident photo inside its slot. The values are
// chosen interactively and are a view concern: they reset whenever a new
// photo is loaded and are never stored with the resident.
type PhotoSettings struct {
	Zoom float64 `json:"zoom"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// DefaultPhotoSettings is the identity transform.
func DefaultPhotoSettings() PhotoSettings {
	return PhotoSettings{Zoom: 1}
}

// Clamped returns a copy with zoom limited to [MinPhotoZoom, MaxPhotoZoom].
// A zero zoom (unset) becomes 1.
func (p PhotoSettings) Clamped() PhotoSettings {
	switch {
	case p.Zoom == 0:
		p.Zoom = 1
	case p.Zoom < MinPhotoZoom:
		p.Zoom = MinPhotoZoom
	case p.Zoom > MaxPhotoZoom:
		p.Zoom = MaxPhotoZoom
	}
	return p
}
