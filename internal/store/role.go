// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RoleStore manages the role suggestion list.
type RoleStore struct {
	db *sql.DB
}

// NewRoleStore returns a new RoleStore backed by the given database.
func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{db: db}
}

// List returns every known role in the order it was added.
func (s *RoleStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM roles ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// Add stores a role. It reports false when the role was already known.
func (s *RoleStore) Add(ctx context.Context, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return false, fmt.Errorf("add role: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
