// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// export_log.go records card exports in the database for audit. Each entry
// captures whose card was exported, with which layout, and where the
// archived copy went.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ExportLogStore handles export log operations.
type ExportLogStore struct {
	db *sql.DB
}

// NewExportLogStore creates a new ExportLogStore.
func NewExportLogStore(db *sql.DB) *ExportLogStore {
	return &ExportLogStore{db: db}
}

// ExportLogEntry represents a single exported card.
type ExportLogEntry struct {
	ID         int64      `json:"id"`
	ResidentID string     `json:"residentId"`
	Layout     string     `json:"layout"`
	TemplateID *uuid.UUID `json:"templateId,omitempty"`
	Format     string     `json:"format"`
	Bytes      int        `json:"bytes"`
	ArchiveURL string     `json:"archiveUrl,omitempty"`
	ExportedAt time.Time  `json:"exportedAt"`
}

// Log records an export. Logging is best-effort: failures are reported in
// the application log and never fail the export.
func (s *ExportLogStore) Log(ctx context.Context, e ExportLogEntry) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_export_log (resident_id, layout, template_id, format, bytes, archive_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ResidentID, e.Layout, e.TemplateID, e.Format, e.Bytes, sql.NullString{String: e.ArchiveURL, Valid: e.ArchiveURL != ""})
	if err != nil {
		slog.Warn("failed to log card export",
			"resident", e.ResidentID,
			"layout", e.Layout,
			"error", err,
		)
		return
	}
	slog.Debug("card export logged",
		"resident", e.ResidentID,
		"layout", e.Layout,
		"format", e.Format,
	)
}

// Recent returns the most recent exports, newest first.
func (s *ExportLogStore) Recent(ctx context.Context, limit int) ([]ExportLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resident_id, layout, template_id, format, bytes, archive_url, exported_at
		FROM card_export_log
		ORDER BY exported_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query export log: %w", err)
	}
	defer rows.Close()

	entries := []ExportLogEntry{}
	for rows.Next() {
		var (
			e       ExportLogEntry
			tmpl    uuid.NullUUID
			archive sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ResidentID, &e.Layout, &tmpl, &e.Format, &e.Bytes, &archive, &e.ExportedAt); err != nil {
			return nil, fmt.Errorf("scan export log: %w", err)
		}
		if tmpl.Valid {
			e.TemplateID = &tmpl.UUID
		}
		e.ArchiveURL = archive.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
