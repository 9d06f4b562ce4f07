package repository

import (
	"context"

	"github.com/alexanderramin/timeline/internal/domain"
)

// ProjectRepo persists project entities. Ids are allocated by the database.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Entity) error
	GetByID(ctx context.Context, id int) (*domain.Entity, error)
	List(ctx context.Context) ([]*domain.Entity, error)
	Update(ctx context.Context, p *domain.Entity) error
	Delete(ctx context.Context, id int) error
}

// TaskRepo persists task and subtask entities. Task ids are a separate
// sequence from project ids.
type TaskRepo interface {
	Create(ctx context.Context, t *domain.Entity) error
	GetByID(ctx context.Context, id int) (*domain.Entity, error)
	List(ctx context.Context) ([]*domain.Entity, error)
	ListByProject(ctx context.Context, projectID int) ([]*domain.Entity, error)
	ListChildren(ctx context.Context, parentID int) ([]*domain.Entity, error)
	Update(ctx context.Context, t *domain.Entity) error
	Delete(ctx context.Context, id int) error
}
