package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/timeline/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func insertProject(ctx context.Context, tx db.DBTX, name string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO projects (name, start_date, end_date, created_at, updated_at)
		VALUES (?, '2024-01-01', '2024-01-31', 'now', 'now')`, name)
	return err
}

func countProjects(t *testing.T, uow *db.SQLiteUnitOfWork, name string) int {
	t.Helper()
	var n int
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE name = ?`, name).Scan(&n)
	}))
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertProject(ctx, tx, "Roadmap")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countProjects(t, uow, "Roadmap"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := newUoW(t)
	deliberate := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertProject(ctx, tx, "Roadmap"); err != nil {
			return err
		}
		return deliberate
	})
	assert.ErrorIs(t, err, deliberate)
	assert.Zero(t, countProjects(t, uow, "Roadmap"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertProject(ctx, tx, "Roadmap")
			panic("boom")
		})
	})
	assert.Zero(t, countProjects(t, uow, "Roadmap"))
}
