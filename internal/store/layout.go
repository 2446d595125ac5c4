// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists card templates, the role suggestion list, the
// association settings and the export log. The template store has a
// Postgres implementation, a local JSON file implementation, and a
// fallback combining both so callers never see which one answered.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"idcards/internal/models"
)

// ErrNotFound is returned when a requested template does not exist.
var ErrNotFound = errors.New("not found")

// LayoutRepository is the template store contract. Save replaces the whole
// document keyed by its ID.
type LayoutRepository interface {
	List(ctx context.Context) ([]models.Layout, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Layout, error)
	Save(ctx context.Context, l *models.Layout) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LayoutStore handles template persistence in PostgreSQL.
type LayoutStore struct {
	db *sql.DB
}

// NewLayoutStore creates a new LayoutStore with the given database connection.
func NewLayoutStore(db *sql.DB) *LayoutStore {
	return &LayoutStore{db: db}
}

const layoutColumns = `id, name, width, height, background_url, elements, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLayout(row rowScanner) (*models.Layout, error) {
	var (
		l        models.Layout
		bg       sql.NullString
		elements []byte
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Width, &l.Height, &bg, &elements, &l.CreatedAt); err != nil {
		return nil, err
	}
	if bg.Valid {
		l.BackgroundURL = &bg.String
	}
	l.Elements = []models.Element{}
	if len(elements) > 0 {
		if err := json.Unmarshal(elements, &l.Elements); err != nil {
			return nil, fmt.Errorf("decode elements of %s: %w", l.ID, err)
		}
	}
	return &l, nil
}

// List returns all templates, oldest first.
func (s *LayoutStore) List(ctx context.Context) ([]models.Layout, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+layoutColumns+`
		FROM id_card_templates
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	layouts := []models.Layout{}
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		layouts = append(layouts, *l)
	}
	return layouts, rows.Err()
}

// Find retrieves a template by its UUID.
func (s *LayoutStore) Find(ctx context.Context, id uuid.UUID) (*models.Layout, error) {
	l, err := scanLayout(s.db.QueryRowContext(ctx, `
		SELECT `+layoutColumns+`
		FROM id_card_templates WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	return l, nil
}

// Save inserts the template or replaces every column of the existing row
// with the same ID. The creation time of an existing row is kept.
func (s *LayoutStore) Save(ctx context.Context, l *models.Layout) error {
	elements := l.Elements
	if elements == nil {
		elements = []models.Element{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return fmt.Errorf("encode elements: %w", err)
	}
	created := l.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO id_card_templates (id, name, width, height, background_url, elements, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, width = EXCLUDED.width, height = EXCLUDED.height,
			background_url = EXCLUDED.background_url, elements = EXCLUDED.elements, updated_at = NOW()`,
		l.ID, l.Name, l.Width, l.Height, nullString(l.BackgroundURL), data, created,
	)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}

// Delete removes a template by ID.
func (s *LayoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM id_card_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
