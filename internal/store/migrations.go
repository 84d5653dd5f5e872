package store

import (
	"database/sql"
	"fmt"
)

// Migration is a single schema migration.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// AllMigrations contains all schema migrations in order. The base schema in
// initSchema is always applied first; migrations cover databases created by
// earlier releases.
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add event_type index for type-filtered reads",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
		`,
	},
}

// runMigrations applies all pending migrations, tracking the applied
// version in schema_migrations.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		if _, err := db.Exec(migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		_, err = db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
