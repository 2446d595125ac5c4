// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"idcards/internal/models"
)

// FallbackLayoutStore answers from the primary store and degrades to the
// local store when the primary fails. Successful primary saves are echoed
// locally so the offline copy stays current.
type FallbackLayoutStore struct {
	primary LayoutRepository
	local   LayoutRepository
}

// NewFallbackLayoutStore combines primary and local. A nil primary makes
// the store local-only.
func NewFallbackLayoutStore(primary, local LayoutRepository) *FallbackLayoutStore {
	return &FallbackLayoutStore{primary: primary, local: local}
}

// List returns the primary's templates, or the local ones when it fails.
func (s *FallbackLayoutStore) List(ctx context.Context) ([]models.Layout, error) {
	if s.primary != nil {
		list, err := s.primary.List(ctx)
		if err == nil {
			return list, nil
		}
		slog.Warn("template store unavailable, listing local templates", "error", err)
	}
	return s.local.List(ctx)
}

// Find looks in the primary first. Templates saved while offline are only
// in the local store, so a primary miss also falls through.
func (s *FallbackLayoutStore) Find(ctx context.Context, id uuid.UUID) (*models.Layout, error) {
	if s.primary != nil {
		l, err := s.primary.Find(ctx, id)
		if err == nil {
			return l, nil
		}
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("template store unavailable, reading local template", "template", id, "error", err)
		}
	}
	return s.local.Find(ctx, id)
}

// Save writes to the primary and echoes locally. When the primary fails
// the local write alone counts as success.
func (s *FallbackLayoutStore) Save(ctx context.Context, l *models.Layout) error {
	if s.primary != nil {
		err := s.primary.Save(ctx, l)
		if err == nil {
			if lerr := s.local.Save(ctx, l); lerr != nil {
				slog.Warn("local template echo failed", "template", l.ID, "error", lerr)
			}
			return nil
		}
		slog.Warn("template store unavailable, saved offline", "template", l.ID, "error", err)
	}
	return s.local.Save(ctx, l)
}

// Delete removes the template from both stores. It fails only when
// neither store had it or the local store cannot be written.
func (s *FallbackLayoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	found := false
	if s.primary != nil {
		err := s.primary.Delete(ctx, id)
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, ErrNotFound):
			slog.Warn("template store unavailable, deleting local template", "template", id, "error", err)
		}
	}
	err := s.local.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) && found {
		return nil
	}
	return err
}
