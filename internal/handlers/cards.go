// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"idcards/internal/cache"
	"idcards/internal/card"
	"idcards/internal/export"
	"idcards/internal/models"
	"idcards/internal/render"
	"idcards/internal/storage"
	"idcards/internal/store"
)

// fieldsURL is where the viewer script posts field edits.
const fieldsURL = "/api/cards/fields"

// Cards groups the card rendering, editing and export handlers.
type Cards struct {
	renderer  *render.Renderer
	templates store.LayoutRepository
	settings  SettingsStore
	roles     RoleStore
	pipeline  *export.Pipeline
	cardCache *cache.CardCache
	archiver  storage.Archiver
	exportLog ExportLog
}

// NewCards creates the card handler group. cardCache, archiver and
// exportLog may be nil.
func NewCards(renderer *render.Renderer, templates store.LayoutRepository, settings SettingsStore, roles RoleStore, pipeline *export.Pipeline, cardCache *cache.CardCache, archiver storage.Archiver, exportLog ExportLog) *Cards {
	return &Cards{
		renderer:  renderer,
		templates: templates,
		settings:  settings,
		roles:     roles,
		pipeline:  pipeline,
		cardCache: cardCache,
		archiver:  archiver,
		exportLog: exportLog,
	}
}

// cardRequest selects what to draw. Association and Logo override the
// stored settings when present. A custom layout is named by TemplateID or
// passed inline as Template (unsaved editor documents).
type cardRequest struct {
	Resident    models.Resident       `json:"resident"`
	Layout      string                `json:"layout"`
	TemplateID  *uuid.UUID            `json:"templateId,omitempty"`
	Template    *models.Layout        `json:"template,omitempty"`
	Photo       *models.PhotoSettings `json:"photo,omitempty"`
	Association *models.Association   `json:"association,omitempty"`
	Logo        *string               `json:"logo,omitempty"`
	Editable    bool                  `json:"editable"`
}

// fieldEditRequest is a value typed into an editable card region. Either
// Field or NodeID names the region.
type fieldEditRequest struct {
	cardRequest
	Field  string `json:"field"`
	NodeID string `json:"nodeId"`
	Value  string `json:"value"`
}

// fieldEditResponse reports the updated resident and card.
type fieldEditResponse struct {
	Resident models.Resident `json:"resident"`
	Card     *card.Card      `json:"card"`
	NewRole  bool            `json:"newRole"`
}

// choice resolves the layout selection of req.
func (h *Cards) choice(ctx context.Context, req *cardRequest) (card.LayoutChoice, error) {
	if req.Layout == "" {
		req.Layout = string(card.KindClassic)
	}
	kind, err := card.ParseKind(req.Layout)
	if err != nil {
		return card.LayoutChoice{}, fmt.Errorf("%w: %v", models.ErrInvalidLayout, err)
	}
	switch kind {
	case card.KindModern:
		return card.Modern(), nil
	case card.KindMinimal:
		return card.Minimal(), nil
	case card.KindCustom:
		if req.Template != nil {
			if err := req.Template.Validate(); err != nil {
				return card.LayoutChoice{}, err
			}
			return card.Custom(req.Template), nil
		}
		if req.TemplateID == nil {
			return card.LayoutChoice{}, fmt.Errorf("%w: custom layout needs a template", models.ErrInvalidLayout)
		}
		l, err := h.templates.Find(ctx, *req.TemplateID)
		if err != nil {
			return card.LayoutChoice{}, err
		}
		return card.Custom(l), nil
	}
	return card.Classic(), nil
}

// render resolves req into a card.
func (h *Cards) render(ctx context.Context, req *cardRequest) (*card.Card, error) {
	choice, err := h.choice(ctx, req)
	if err != nil {
		return nil, err
	}

	in := card.Input{
		Resident: req.Resident,
		Layout:   choice,
		Photo:    models.DefaultPhotoSettings(),
		Editable: req.Editable,
	}
	if req.Photo != nil {
		in.Photo = *req.Photo
	}

	if req.Association == nil || req.Logo == nil {
		st, err := h.settings.Get(ctx)
		if err != nil {
			slog.Warn("association settings unavailable, rendering without them", "error", err)
		}
		if st != nil {
			in.Association = st.Association
			in.Logo = st.LogoURL()
		}
	}
	if req.Association != nil {
		in.Association = *req.Association
	}
	if req.Logo != nil {
		in.Logo = *req.Logo
	}

	return card.Render(in)
}

// Resolve returns the resolved element list of a card as JSON.
func (h *Cards) Resolve(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.render(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// View renders the interactive card viewer. Field-bound regions are
// inputs whose edits are posted back to Fields.
func (h *Cards) View(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Editable = true
	c, err := h.render(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// The viewer script echoes the card request with every edit.
	state, err := json.Marshal(req)
	if err != nil {
		writeDomainError(w, r, fmt.Errorf("encode viewer state: %w", err))
		return
	}

	h.renderer.Page(w, r, "viewer", &render.PageData{
		Title: viewerTitle(req.Resident.Name),
		Card:  c,
		Data: map[string]any{
			"request": string(state),
			"editURL": fieldsURL,
		},
	})
}

func viewerTitle(name string) string {
	if strings.TrimSpace(name) == "" {
		name = export.FallbackName
	}
	return "Carteirinha - " + name
}

// Fields commits a value typed into the card. Edits of field-bound regions
// update the resident; a role not yet known joins the suggestion list.
func (h *Cards) Fields(w http.ResponseWriter, r *http.Request) {
	var req fieldEditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateFieldValue(req.Value); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	req.Editable = true
	c, err := h.render(r.Context(), &req.cardRequest)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resident := req.Resident
	onEdit := func(f models.Field, v string) { resident.Set(f, v) }

	if req.NodeID != "" {
		err = c.EditNode(req.NodeID, req.Value, onEdit)
	} else {
		var field models.Field
		field, err = models.ParseField(req.Field)
		if err == nil {
			err = c.Edit(field, req.Value, onEdit)
		}
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := fieldEditResponse{Resident: resident, Card: c}
	if resident.Role != req.Resident.Role {
		resp.NewRole = h.discoverRole(r.Context(), resident.Role)
	}
	writeJSON(w, http.StatusOK, resp)
}

// discoverRole adds role to the suggestion list when it is new. Failures
// only cost the suggestion and are logged.
func (h *Cards) discoverRole(ctx context.Context, role string) bool {
	known, err := h.roles.List(ctx)
	if err != nil {
		slog.Warn("role list unavailable", "error", err)
		return false
	}
	if !models.IsNewRole(role, known) {
		return false
	}
	added, err := h.roles.Add(ctx, role)
	if err != nil {
		slog.Warn("role discovery failed", "role", role, "error", err)
		return false
	}
	if added {
		slog.Info("new role discovered", "role", role)
	}
	return added
}

// Export downloads the card as a JPEG.
func (h *Cards) Export(w http.ResponseWriter, r *http.Request) {
	art, ok := h.exportCard(w, r, "jpeg")
	if !ok {
		return
	}
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", export.ContentDisposition(art.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(art.Data)
}

// Print answers with the print page: the exported image sized to the card,
// printing once the image has loaded.
func (h *Cards) Print(w http.ResponseWriter, r *http.Request) {
	art, ok := h.exportCard(w, r, "print")
	if !ok {
		return
	}
	scale := h.pipeline.Scale()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := h.renderer.Print(w, &render.PrintData{
		Title:  art.Filename,
		JPEG:   art.Data,
		Width:  art.Width / scale,
		Height: art.Height / scale,
	})
	if err != nil {
		slog.Error("print page failed", "error", err)
	}
}

// exportCard decodes the request and produces the card image, from cache
// when possible. On failure it has already answered the request.
func (h *Cards) exportCard(w http.ResponseWriter, r *http.Request, format string) (*export.Artifact, bool) {
	var req cardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	req.Editable = false
	c, err := h.render(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}

	art, err := h.artifact(r.Context(), c, req.Resident.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}

	h.record(r.Context(), &req, c, art, format)
	return art, true
}

// artifact returns the JPEG of c. Rendering is deterministic, so a cached
// image of the same static card is returned as-is.
func (h *Cards) artifact(ctx context.Context, c *card.Card, residentName string) (*export.Artifact, error) {
	scale := h.pipeline.Scale()

	var key string
	if h.cardCache != nil {
		k, err := cache.CardKey(export.Static(c), scale)
		if err != nil {
			slog.Warn("card cache key failed", "error", err)
		} else {
			key = k
			if data, ok := h.cardCache.Get(ctx, key); ok {
				return &export.Artifact{
					Data:        data,
					Width:       c.Width * scale,
					Height:      c.Height * scale,
					Filename:    export.Filename(residentName),
					ContentType: export.ContentTypeJPEG,
				}, nil
			}
		}
	}

	art, err := h.pipeline.JPEG(ctx, c, residentName)
	if err != nil {
		return nil, err
	}
	if key != "" {
		h.cardCache.Set(ctx, key, art.Data)
	}
	return art, nil
}

// record archives the export and writes the audit log entry.
func (h *Cards) record(ctx context.Context, req *cardRequest, c *card.Card, art *export.Artifact, format string) {
	var archiveURL string
	if h.archiver != nil {
		key := storage.ArchiveKey(req.Resident.Name, time.Now())
		u, err := h.archiver.Archive(ctx, key, art.ContentType, art.Data)
		if err != nil {
			slog.Warn("card archive failed", "key", key, "error", err)
		} else {
			archiveURL = u
		}
	}
	if h.exportLog == nil {
		return
	}

	entry := store.ExportLogEntry{
		ResidentID: req.Resident.ID,
		Layout:     string(c.Kind),
		Format:     format,
		Bytes:      len(art.Data),
		ArchiveURL: archiveURL,
	}
	if c.Kind == card.KindCustom {
		switch {
		case req.TemplateID != nil:
			entry.TemplateID = req.TemplateID
		case req.Template != nil && req.Template.ID != uuid.Nil:
			id := req.Template.ID
			entry.TemplateID = &id
		}
	}
	h.exportLog.Log(ctx, entry)
}

// Exports lists the most recent exports, newest first.
func (h *Cards) Exports(w http.ResponseWriter, r *http.Request) {
	if h.exportLog == nil {
		writeJSON(w, http.StatusOK, []store.ExportLogEntry{})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	entries, err := h.exportLog.Recent(r.Context(), limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
