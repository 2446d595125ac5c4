package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"idcards/internal/models"
)

// Seed populates the role suggestion list with the default roles when it
// is empty. Roles discovered later are never removed.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM roles").Scan(&count); err != nil {
		return fmt.Errorf("seed check roles: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, name := range models.DefaultRoles {
		if _, err := db.Exec(`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed insert role %q: %w", name, err)
		}
	}

	slog.Info("database seeded with default roles", "count", len(models.DefaultRoles))
	return nil
}
