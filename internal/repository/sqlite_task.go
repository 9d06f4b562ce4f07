package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/timeline/internal/db"
	"github.com/alexanderramin/timeline/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo over a *sql.DB or *sql.Tx.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, project_id, parent_id, name, assigned_to, start_date, deadline, priority, progress`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Entity) error {
	if !t.IsTask() {
		return fmt.Errorf("%w: creating task from %s entity", domain.ErrValidation, t.Kind)
	}
	now := nowUTC()
	query := `INSERT INTO tasks (project_id, parent_id, name, assigned_to, start_date, deadline, priority, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		t.ProjectID,
		nullableIntToValue(t.ParentID),
		t.Name,
		t.Assignee,
		domain.FormatDate(t.StartDate),
		domain.FormatDate(t.EndDate),
		t.Priority,
		t.Progress,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	t.ID = int(id)
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int) (*domain.Entity, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return t, err
}

// List returns every task in creation order.
func (r *SQLiteTaskRepo) List(ctx context.Context) ([]*domain.Entity, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID int) ([]*domain.Entity, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY id`, projectID)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentID int) ([]*domain.Entity, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE parent_id = ? ORDER BY id`, parentID)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Entity) error {
	query := `UPDATE tasks SET project_id = ?, parent_id = ?, name = ?, assigned_to = ?,
		start_date = ?, deadline = ?, priority = ?, progress = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.ProjectID,
		nullableIntToValue(t.ParentID),
		t.Name,
		t.Assignee,
		domain.FormatDate(t.StartDate),
		domain.FormatDate(t.EndDate),
		t.Priority,
		t.Progress,
		nowUTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectOneRow(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectOneRow(res, "task", id)
}

func (r *SQLiteTaskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Entity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Entity
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s scanner) (*domain.Entity, error) {
	t := domain.Entity{Kind: domain.KindTask}
	var parent sql.NullInt64
	var start, deadline string
	err := s.Scan(
		&t.ID, &t.ProjectID, &parent, &t.Name, &t.Assignee,
		&start, &deadline, &t.Priority, &t.Progress,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.ParentID = intPtrFromNull(parent)
	if err := parseDates(&t, start, deadline); err != nil {
		return nil, err
	}
	return &t, nil
}
