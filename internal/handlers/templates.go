// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"idcards/internal/models"
	"idcards/internal/store"
)

// Templates serves the custom template gallery.
type Templates struct {
	store store.LayoutRepository
}

// NewTemplates creates the template handler group.
func NewTemplates(s store.LayoutRepository) *Templates {
	return &Templates{store: s}
}

// List returns every saved template.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Layout{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Get returns one template.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, err := h.store.Find(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// Save upserts a template. A document without an id is assigned one and
// answered with 201; replacing a template answers 200.
func (h *Templates) Save(w http.ResponseWriter, r *http.Request) {
	var l models.Layout
	if err := decodeJSON(w, r, &l); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l.Name = strings.TrimSpace(l.Name)
	if l.Elements == nil {
		l.Elements = []models.Element{}
	}
	if msg := validateTemplate(&l); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	status := http.StatusOK
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
		status = http.StatusCreated
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	if err := h.store.Save(r.Context(), &l); err != nil {
		writeDomainError(w, r, err)
		return
	}
	slog.Info("template saved", "template", l.ID, "name", l.Name, "elements", len(l.Elements))
	writeJSON(w, status, l)
}

// Delete removes a template.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	slog.Info("template deleted", "template", id)
	w.WriteHeader(http.StatusNoContent)
}
