package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ... ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Projects and tasks keep separate AUTOINCREMENT sequences, so the same
// numeric id routinely exists in both tables.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(start_date <= end_date)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id  INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id   INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
		name        TEXT NOT NULL,
		assigned_to TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		deadline    TEXT NOT NULL,
		priority    INTEGER NOT NULL DEFAULT 0,
		progress    INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		CHECK(start_date <= deadline),
		CHECK(parent_id IS NULL OR parent_id != id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,
}
