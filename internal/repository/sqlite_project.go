package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/timeline/internal/db"
	"github.com/alexanderramin/timeline/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo over a *sql.DB or *sql.Tx.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, name, start_date, end_date`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Entity) error {
	if !p.IsProject() {
		return fmt.Errorf("%w: creating project from %s entity", domain.ErrValidation, p.Kind)
	}
	now := nowUTC()
	query := `INSERT INTO projects (name, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		domain.FormatDate(p.StartDate),
		domain.FormatDate(p.EndDate),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = int(id)
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id int) (*domain.Entity, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, err
}

// List returns projects in creation order.
func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Entity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Entity
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Entity) error {
	query := `UPDATE projects SET name = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		domain.FormatDate(p.StartDate),
		domain.FormatDate(p.EndDate),
		nowUTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return expectOneRow(res, "project", p.ID)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return expectOneRow(res, "project", id)
}

func scanProject(s scanner) (*domain.Entity, error) {
	p := domain.Entity{Kind: domain.KindProject}
	var start, end string
	if err := s.Scan(&p.ID, &p.Name, &start, &end); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	if err := parseDates(&p, start, end); err != nil {
		return nil, err
	}
	return &p, nil
}
