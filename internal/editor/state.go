package editor

import (
	"errors"

	"idcards/internal/models"
)

// State is the serializable form of an Editor, kept in the session store
// between requests. The gallery is not part of it; it is reloaded.
type State struct {
	Document *models.Layout `json:"document"`
	Selected string         `json:"selected,omitempty"`
	Drag     *Drag          `json:"drag,omitempty"`
}

// State captures the editor for storage.
func (e *Editor) State() State {
	s := State{Document: e.doc.Clone(), Selected: e.selected}
	if e.drag != nil {
		d := *e.drag
		s.Drag = &d
	}
	return s
}

// Restore replaces the editor's state. Selection and drag capture that
// refer to missing elements are dropped.
func (e *Editor) Restore(s State) error {
	if s.Document == nil {
		return errors.New("restore editor: no document")
	}
	e.doc = s.Document.Clone()
	if e.doc.Elements == nil {
		e.doc.Elements = []models.Element{}
	}
	e.selected = ""
	if s.Selected != "" && e.doc.Find(s.Selected) != nil {
		e.selected = s.Selected
	}
	e.drag = nil
	if s.Drag != nil && e.doc.Find(s.Drag.ID) != nil {
		d := *s.Drag
		e.drag = &d
	}
	return nil
}
