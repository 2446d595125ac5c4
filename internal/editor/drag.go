package editor

import "fmt"

// Point is a pointer position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Drag is an active pointer capture: where the gesture started and where
// the element was at that moment.
type Drag struct {
	ID     string `json:"id"`
	Start  Point  `json:"start"`
	Origin Point  `json:"origin"`
}

// PointerDown starts dragging element id and selects it. Any capture left
// over from an earlier gesture is released first.
func (e *Editor) PointerDown(id string, p Point) error {
	e.drag = nil
	el := e.doc.Find(id)
	if el == nil {
		return fmt.Errorf("drag %s: %w", id, ErrNoElement)
	}
	e.selected = id
	e.drag = &Drag{ID: id, Start: p, Origin: Point{X: el.X, Y: el.Y}}
	return nil
}

// PointerMove moves the captured element by the pointer's travel since
// PointerDown. Positions are not snapped. It reports whether an element
// moved; moves without a capture are ignored.
func (e *Editor) PointerMove(p Point) bool {
	if e.drag == nil {
		return false
	}
	el := e.doc.Find(e.drag.ID)
	if el == nil {
		e.drag = nil
		return false
	}
	el.X = e.drag.Origin.X + (p.X - e.drag.Start.X)
	el.Y = e.drag.Origin.Y + (p.Y - e.drag.Start.Y)
	return true
}

// PointerUp releases the capture. It is safe to call without one.
func (e *Editor) PointerUp() {
	e.drag = nil
}

// Dragging reports whether a pointer capture is active.
func (e *Editor) Dragging() bool { return e.drag != nil }
