// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the card service.
// Handlers are grouped by concern (cards, templates, editor sessions,
// association) and receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"idcards/internal/card"
	"idcards/internal/editor"
	"idcards/internal/export"
	"idcards/internal/models"
	"idcards/internal/session"
	"idcards/internal/store"
)

// maxBodyBytes bounds JSON request bodies. Photos, logos and backgrounds
// travel as data URLs, so bodies can be a few megabytes.
const maxBodyBytes = 12 << 20

// SettingsStore reads and writes the association settings.
type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

// RoleStore holds the role suggestion list.
type RoleStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) (bool, error)
}

// ExportLog records exported cards.
type ExportLog interface {
	Log(ctx context.Context, e store.ExportLogEntry)
	Recent(ctx context.Context, limit int) ([]store.ExportLogEntry, error)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes {"error": msg} with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// uuidParam parses a UUID route parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, editor.ErrNoElement),
		errors.Is(err, session.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidElement),
		errors.Is(err, models.ErrInvalidLayout),
		errors.Is(err, models.ErrUnknownField),
		errors.Is(err, editor.ErrUnknownPreset),
		errors.Is(err, editor.ErrInvalidBackground),
		errors.Is(err, card.ErrNotEditable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeDomainError answers with the status matching err. Client errors
// carry their message; server errors are logged and answered generically.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if errors.Is(err, export.ErrExport) {
			writeError(w, status, export.ErrExport.Error())
			return
		}
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}
