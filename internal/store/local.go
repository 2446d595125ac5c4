// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"idcards/internal/models"
)

// LocalLayoutStore keeps templates in a JSON file, or only in memory when
// no path is given. It is the offline side of FallbackLayoutStore.
type LocalLayoutStore struct {
	mu      sync.Mutex
	path    string
	layouts []models.Layout
}

// NewLocalLayoutStore opens the store at path, loading any templates the
// file already holds. A missing file starts an empty store.
func NewLocalLayoutStore(path string) (*LocalLayoutStore, error) {
	s := &LocalLayoutStore{path: path, layouts: []models.Layout{}}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local templates: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.layouts); err != nil {
			return nil, fmt.Errorf("decode local templates: %w", err)
		}
	}
	return s, nil
}

// List returns copies of all templates in insertion order.
func (s *LocalLayoutStore) List(_ context.Context) ([]models.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Layout, len(s.layouts))
	for i := range s.layouts {
		out[i] = *s.layouts[i].Clone()
	}
	return out, nil
}

// Find returns a copy of the template with the given ID.
func (s *LocalLayoutStore) Find(_ context.Context, id uuid.UUID) (*models.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.layouts[i].Clone(), nil
	}
	return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
}

// Save replaces the template with the same ID or appends it.
func (s *LocalLayoutStore) Save(_ context.Context, l *models.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]models.Layout(nil), s.layouts...)
	if i := s.index(l.ID); i >= 0 {
		next[i] = *l.Clone()
	} else {
		next = append(next, *l.Clone())
	}
	if err := s.flush(next); err != nil {
		return err
	}
	s.layouts = next
	return nil
}

// Delete removes the template with the given ID.
func (s *LocalLayoutStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	next := append(append([]models.Layout(nil), s.layouts[:i]...), s.layouts[i+1:]...)
	if err := s.flush(next); err != nil {
		return err
	}
	s.layouts = next
	return nil
}

func (s *LocalLayoutStore) index(id uuid.UUID) int {
	for i := range s.layouts {
		if s.layouts[i].ID == id {
			return i
		}
	}
	return -1
}

// flush writes layouts to a temporary file and renames it over the store
// file so a crash never leaves a truncated document.
func (s *LocalLayoutStore) flush(layouts []models.Layout) error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(layouts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local templates: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create local template dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write local templates: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace local templates: %w", err)
	}
	return nil
}
