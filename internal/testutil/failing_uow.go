package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/timeline/internal/db"
)

// RejectingUoW wraps a real unit of work and fails the first statement
// whose SQL contains Match, as a remote store would reject a write after
// its own checks passed. Reads go through untouched.
type RejectingUoW struct {
	DB    *sql.DB
	Match string
	Err   error
}

func (u *RejectingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &rejectingTx{DBTX: tx, match: u.Match, err: u.Err})
	})
}

type rejectingTx struct {
	db.DBTX
	match string
	err   error
}

func (r *rejectingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.Contains(query, r.match) {
		return nil, r.err
	}
	return r.DBTX.ExecContext(ctx, query, args...)
}
