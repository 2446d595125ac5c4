// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"idcards/internal/card"
	"idcards/internal/editor"
	"idcards/internal/models"
	"idcards/internal/render"
	"idcards/internal/session"
	"idcards/internal/store"
)

// currentSession names the session carried by the request cookie.
const currentSession = "current"

// EditorSessions exposes the template editor over HTTP. Each session keeps
// its editor state in Valkey; every request restores an Editor, applies
// one operation and writes the state back.
type EditorSessions struct {
	renderer  *render.Renderer
	sessions  *session.Store
	templates store.LayoutRepository
	settings  SettingsStore
}

// NewEditorSessions creates the editor handler group.
func NewEditorSessions(renderer *render.Renderer, sessions *session.Store, templates store.LayoutRepository, settings SettingsStore) *EditorSessions {
	return &EditorSessions{
		renderer:  renderer,
		sessions:  sessions,
		templates: templates,
		settings:  settings,
	}
}

// editorView is what every editor endpoint answers with.
type editorView struct {
	Session  string                `json:"session"`
	Document *models.Layout        `json:"document"`
	Selected *models.Element       `json:"selected,omitempty"`
	Dragging bool                  `json:"dragging"`
	Gallery  []models.Layout       `json:"gallery,omitempty"`
	Presets  []editor.CanvasPreset `json:"presets,omitempty"`
	Fields   []editor.FieldButton  `json:"fields,omitempty"`
}

func newEditorView(sid string, ed *editor.Editor) editorView {
	v := editorView{
		Session:  sid,
		Document: ed.Document(),
		Dragging: ed.Dragging(),
		Gallery:  ed.Gallery(),
	}
	if el, ok := ed.Selected(); ok {
		v.Selected = &el
	}
	return v
}

// Create starts a session with a blank document.
func (h *EditorSessions) Create(w http.ResponseWriter, r *http.Request) {
	ed := editor.New(h.templates)
	if err := ed.Reload(r.Context()); err != nil {
		slog.Warn("template gallery unavailable", "error", err)
	}
	sid, err := h.sessions.Create(r.Context(), w, ed.State())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	slog.Info("editor session started", "session", sid)

	v := newEditorView(sid, ed)
	v.Presets = editor.CanvasPresets
	v.Fields = editor.FieldButtons()
	writeJSON(w, http.StatusCreated, v)
}

// Show returns the session state with a fresh gallery and the palettes.
func (h *EditorSessions) Show(w http.ResponseWriter, r *http.Request) {
	sid, ed, err := h.restore(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := ed.Reload(r.Context()); err != nil {
		slog.Warn("template gallery unavailable", "error", err)
	}
	v := newEditorView(sid, ed)
	v.Presets = editor.CanvasPresets
	v.Fields = editor.FieldButtons()
	writeJSON(w, http.StatusOK, v)
}

// Destroy ends the session.
func (h *EditorSessions) Destroy(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if err := h.sessions.Destroy(r.Context(), w, sid); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionID reads the {sid} route parameter, resolving "current" to the
// session cookie.
func sessionID(r *http.Request) string {
	sid := chi.URLParam(r, "sid")
	if sid == currentSession {
		return session.FromRequest(r)
	}
	return sid
}

// restore loads the editor of the request's session.
func (h *EditorSessions) restore(r *http.Request) (string, *editor.Editor, error) {
	sid := sessionID(r)
	if sid == "" {
		return "", nil, session.ErrNoSession
	}
	st, err := h.sessions.Get(r.Context(), sid)
	if err != nil {
		return "", nil, err
	}
	if st == nil {
		return "", nil, fmt.Errorf("editor session %s: %w", sid, session.ErrNoSession)
	}
	ed := editor.New(h.templates)
	if err := ed.Restore(*st); err != nil {
		return "", nil, fmt.Errorf("editor session %s: %w", sid, err)
	}
	return sid, ed, nil
}

// mutate restores the session editor, runs op and stores the result. When
// op fails the stored state is left untouched.
func (h *EditorSessions) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, ed *editor.Editor) error) {
	sid, ed, err := h.restore(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := op(r.Context(), ed); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := h.sessions.Update(r.Context(), sid, ed.State()); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newEditorView(sid, ed))
}

// withBody decodes the request body into a T before running op.
func withBody[T any](h *EditorSessions, w http.ResponseWriter, r *http.Request, op func(ctx context.Context, ed *editor.Editor, body T) error) {
	var body T
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.mutate(w, r, func(ctx context.Context, ed *editor.Editor) error {
		return op(ctx, ed, body)
	})
}

// New replaces the working document with a blank one.
func (h *EditorSessions) New(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(_ context.Context, ed *editor.Editor) error {
		ed.NewDocument()
		return nil
	})
}

// Load opens a saved template as the working document.
func (h *EditorSessions) Load(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.mutate(w, r, func(ctx context.Context, ed *editor.Editor) error {
		return ed.Load(ctx, id)
	})
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename sets the document name.
func (h *EditorSessions) Rename(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(_ context.Context, ed *editor.Editor, req renameRequest) error {
		ed.SetName(req.Name)
		return nil
	})
}

type addElementRequest struct {
	Type  models.ElementType `json:"type"`
	Field string             `json:"field"`
}

// AddElement adds a text, field or photo element with the editor defaults.
func (h *EditorSessions) AddElement(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(_ context.Context, ed *editor.Editor, req addElementRequest) error {
		var err error
		switch req.Type {
		case models.ElementText:
			_, err = ed.AddText()
		case models.ElementPhoto:
			_, err = ed.AddPhoto()
		case models.ElementField:
			var f models.Field
			f, err = models.ParseField(req.Field)
			if err == nil {
				_, err = ed.AddField(f)
			}
		default:
			err = fmt.Errorf("%w: cannot add elements of type %q", models.ErrInvalidElement, req.Type)
		}
		return err
	})
}

// UpdateElement patches element {eid}.
func (h *EditorSessions) UpdateElement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eid")
	withBody(h, w, r, func(_ context.Context, ed *editor.Editor, p editor.Patch) error {
		_, err := ed.Update(id, p)
		return err
	})
}

// DeleteElement removes element {eid}.
func (h *EditorSessions) DeleteElement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eid")
	h.mutate(w, r, func(_ context.Context, ed *editor.Editor) error {
		return ed.Delete(id)
	})
}

type selectRequest struct {
	ID string `json:"id"`
}

// Select changes the selection. An empty id clears it.
func (h *EditorSessions) Select(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(_ context.Context, ed *editor.Editor, req selectRequest) error {
		return ed.Select(req.ID)
	})
}

type dragRequest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// DragStart captures element id at the pointer position.
func (h *EditorSessions) DragStart(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(_ context.Context, ed *editor.Editor, req dragRequest) error {
		return ed.PointerDown(req.ID, editor.Point{X: req.X, Y: req.Y})
	})
}

// DragMove moves the captured element. Moves without a capture are no-ops.
func (h *EditorSessions) DragMove(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(_ context.Context, ed *editor.Editor, req dragRequest) error {
		ed.PointerMove(editor.Point{X: req.X, Y: req.Y})
		return nil
	})
}

// DragEnd releases the capture.
func (h *EditorSessions) DragEnd(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(_ context.Context, ed *editor.Editor) error {
		ed.PointerUp()
		return nil
	})
}

type canvasRequest struct {
	Preset string `json:"preset"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Canvas resizes the canvas to a named preset or explicit dimensions.
func (h *EditorSessions) Canvas(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(_ context.Context, ed *editor.Editor, req canvasRequest) error {
		if req.Preset != "" {
			return ed.ApplyPreset(req.Preset)
		}
		return ed.SetDimensions(req.Width, req.Height)
	})
}

// Background stores an uploaded image (multipart field "file") as the
// document background.
func (h *EditorSessions) Background(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackgroundBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBackgroundBytes); err != nil {
		writeError(w, http.StatusBadRequest, "background upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBackgroundBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload failed")
		return
	}
	if len(data) > maxBackgroundBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "background image is too large (max 5 MB)")
		return
	}

	contentType := header.Header.Get("Content-Type")
	h.mutate(w, r, func(_ context.Context, ed *editor.Editor) error {
		return ed.SetBackground(contentType, data)
	})
}

// ClearBackground removes the document background.
func (h *EditorSessions) ClearBackground(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(_ context.Context, ed *editor.Editor) error {
		ed.ClearBackground()
		return nil
	})
}

// Save persists the working document and refreshes the gallery.
func (h *EditorSessions) Save(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, ed *editor.Editor) error {
		doc := ed.Document()
		if msg := validateTemplate(doc); msg != "" {
			return fmt.Errorf("%w: %s", models.ErrInvalidLayout, msg)
		}
		if err := ed.Save(ctx); err != nil {
			return err
		}
		slog.Info("template saved from editor", "template", doc.ID, "name", doc.Name)
		return nil
	})
}

// Preview renders the working document with a placeholder resident, the
// selected element highlighted.
func (h *EditorSessions) Preview(w http.ResponseWriter, r *http.Request) {
	_, ed, err := h.restore(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	doc := ed.Document()

	in := card.Input{
		Resident: editor.PreviewResident(),
		Layout:   card.Custom(doc),
		Photo:    models.DefaultPhotoSettings(),
	}
	if st, err := h.settings.Get(r.Context()); err != nil {
		slog.Warn("association settings unavailable, previewing without them", "error", err)
	} else if st != nil {
		in.Association = st.Association
		in.Logo = st.LogoURL()
	}

	c, err := card.Render(in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var selected string
	if el, ok := ed.Selected(); ok {
		selected = el.ID
	}
	h.renderer.Page(w, r, "preview", &render.PageData{
		Title:    doc.Name,
		Card:     c,
		Selected: selected,
		Data: map[string]any{
			"canvas": fmt.Sprintf("%d x %d", doc.Width, doc.Height),
		},
	})
}
