// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"idcards/internal/models"
)

// SettingsStore manages the association document and logo. There is only
// ever one row.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore returns a new SettingsStore backed by the given database.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the stored settings. Returns nil if none were saved yet.
func (s *SettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	var (
		data []byte
		logo sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT data, logo FROM association_settings WHERE id = 1`).Scan(&data, &logo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	st := &models.Settings{}
	if err := json.Unmarshal(data, &st.Association); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if logo.Valid && logo.String != "" {
		st.Logo = &logo.String
	}
	return st, nil
}

// Save upserts the settings row.
func (s *SettingsStore) Save(ctx context.Context, st *models.Settings) error {
	data, err := json.Marshal(st.Association)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO association_settings (id, data, logo, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET data = EXCLUDED.data, logo = EXCLUDED.logo, updated_at = EXCLUDED.updated_at`,
		data, nullString(st.Logo), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
