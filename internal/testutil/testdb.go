package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/timeline/internal/db"
)

// NewTestDB opens a migrated in-memory store holding the projects and tasks
// tables. It is closed when t finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW returns the transactional boundary the entity service uses.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
