// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"idcards/internal/cache"
	"idcards/internal/models"
)

// Association serves the association settings and the role suggestions.
type Association struct {
	settings  SettingsStore
	roles     RoleStore
	cardCache *cache.CardCache
}

// NewAssociation creates the association handler group. cardCache may be
// nil; when set, saving settings drops every cached card image.
func NewAssociation(settings SettingsStore, roles RoleStore, cardCache *cache.CardCache) *Association {
	return &Association{settings: settings, roles: roles, cardCache: cardCache}
}

// Settings returns the stored settings, or empty ones when none were saved.
func (h *Association) Settings(w http.ResponseWriter, r *http.Request) {
	st, err := h.settings.Get(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if st == nil {
		st = &models.Settings{}
	}
	writeJSON(w, http.StatusOK, st)
}

// SaveSettings replaces the association document and logo.
func (h *Association) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var st models.Settings
	if err := decodeJSON(w, r, &st); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateSettings(&st); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := h.settings.Save(r.Context(), &st); err != nil {
		writeDomainError(w, r, err)
		return
	}

	// Cached images embed the old footer, mandate and logo.
	if h.cardCache != nil {
		n := h.cardCache.InvalidateAll(r.Context())
		slog.Info("association settings saved", "invalidated_cards", n)
	} else {
		slog.Info("association settings saved")
	}
	writeJSON(w, http.StatusOK, st)
}

// Roles returns the role suggestion list.
func (h *Association) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

// AddRole adds a role to the suggestion list. Known roles answer 200,
// new ones 201.
func (h *Association) AddRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateRole(req.Name); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	name := strings.TrimSpace(req.Name)
	added, err := h.roles.Add(r.Context(), name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"name": name, "added": added})
}
