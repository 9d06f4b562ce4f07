package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
)

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// nullableIntToValue converts a *int to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the int value.
func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// intPtrFromNull converts a sql.NullInt64 back to a *int.
func intPtrFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// parseDates parses the stored start and end calendar dates.
func parseDates(e *domain.Entity, start, end string) error {
	var err error
	if e.StartDate, err = time.Parse(domain.DateLayout, start); err != nil {
		return fmt.Errorf("parsing start_date: %w", err)
	}
	if e.EndDate, err = time.Parse(domain.DateLayout, end); err != nil {
		return fmt.Errorf("parsing end date: %w", err)
	}
	return nil
}

// expectOneRow turns a zero-row UPDATE or DELETE into ErrNotFound.
func expectOneRow(res sql.Result, what string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows affected: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
