// Package service implements the remote store behind the timeline: it lists
// entities for the initial load and applies updates routed by kind.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/timeline/internal/db"
	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/repository"
)

// EntityService is the remote entity source and update sink.
type EntityService interface {
	ListProjects(ctx context.Context) ([]domain.Entity, error)
	ListTasks(ctx context.Context) ([]domain.Entity, error)
	Get(ctx context.Context, key domain.RowKey) (domain.Entity, error)
	CreateProject(ctx context.Context, p *domain.Entity) error
	CreateTask(ctx context.Context, t *domain.Entity) error
	Update(ctx context.Context, kind domain.Kind, id int, e domain.Entity) (domain.Entity, error)
}

type entityService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewEntityService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) EntityService {
	return &entityService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *entityService) ListProjects(ctx context.Context) (out []domain.Entity, err error) {
	defer observe(ctx, s.observer, "list-projects", time.Now().UTC(), &err)

	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	return deref(projects), nil
}

func (s *entityService) ListTasks(ctx context.Context) (out []domain.Entity, err error) {
	defer observe(ctx, s.observer, "list-tasks", time.Now().UTC(), &err)

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return deref(tasks), nil
}

func (s *entityService) Get(ctx context.Context, key domain.RowKey) (domain.Entity, error) {
	var (
		e   *domain.Entity
		err error
	)
	switch key.Kind {
	case domain.KindProject:
		e, err = s.projects.GetByID(ctx, key.ID)
	case domain.KindTask:
		e, err = s.tasks.GetByID(ctx, key.ID)
	default:
		return domain.Entity{}, fmt.Errorf("%w: %q", domain.ErrMalformedRowKey, key.String())
	}
	if err != nil {
		return domain.Entity{}, err
	}
	return *e, nil
}

func (s *entityService) CreateProject(ctx context.Context, p *domain.Entity) (err error) {
	defer observe(ctx, s.observer, "create-project", time.Now().UTC(), &err, "name", p.Name)

	p.Kind = domain.KindProject
	if err = p.Validate(); err != nil {
		return err
	}
	return s.projects.Create(ctx, p)
}

func (s *entityService) CreateTask(ctx context.Context, t *domain.Entity) (err error) {
	defer observe(ctx, s.observer, "create-task", time.Now().UTC(), &err,
		"name", t.Name, "project_id", t.ProjectID)

	t.Kind = domain.KindTask
	if err = t.Validate(); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkOwnership(ctx, repository.NewSQLiteProjectRepo(tx), repository.NewSQLiteTaskRepo(tx), *t); err != nil {
			return err
		}
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, t)
	})
}

// Update writes e as the full new value of the (kind, id) record and returns
// the stored result. The kind selects the table; id and kind on e itself are
// ignored.
func (s *entityService) Update(ctx context.Context, kind domain.Kind, id int, e domain.Entity) (out domain.Entity, err error) {
	defer observe(ctx, s.observer, "update-"+string(kind), time.Now().UTC(), &err, "id", id)

	e.Kind, e.ID = kind, id
	if err = e.Validate(); err != nil {
		return domain.Entity{}, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		tasks := repository.NewSQLiteTaskRepo(tx)

		var stored *domain.Entity
		switch kind {
		case domain.KindProject:
			if err := projects.Update(ctx, &e); err != nil {
				return err
			}
			got, err := projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			stored = got
		case domain.KindTask:
			if err := checkOwnership(ctx, projects, tasks, e); err != nil {
				return err
			}
			if err := tasks.Update(ctx, &e); err != nil {
				return err
			}
			got, err := tasks.GetByID(ctx, id)
			if err != nil {
				return err
			}
			stored = got
		}
		out = *stored
		return nil
	})
	if err != nil {
		return domain.Entity{}, fmt.Errorf("updating %s: %w", domain.RowKey{Kind: kind, ID: id}, err)
	}
	return out, nil
}

// checkOwnership verifies that a task's project exists and that its parent,
// if any, belongs to the same project and is not one of its descendants.
func checkOwnership(ctx context.Context, projects repository.ProjectRepo, tasks repository.TaskRepo, t domain.Entity) error {
	if _, err := projects.GetByID(ctx, t.ProjectID); err != nil {
		return err
	}
	if t.ParentID == nil {
		return nil
	}
	parentID := *t.ParentID
	for steps := 0; ; steps++ {
		parent, err := tasks.GetByID(ctx, parentID)
		if err != nil {
			return fmt.Errorf("parent: %w", err)
		}
		if steps == 0 && parent.ProjectID != t.ProjectID {
			return fmt.Errorf("%w: parent task %d belongs to project %d", domain.ErrValidation, parent.ID, parent.ProjectID)
		}
		if parent.ParentID == nil {
			return nil
		}
		if t.ID != 0 && *parent.ParentID == t.ID {
			return fmt.Errorf("%w: task %d would become its own ancestor", domain.ErrValidation, t.ID)
		}
		parentID = *parent.ParentID
		if steps > 10_000 {
			return fmt.Errorf("%w: parent chain of task %d does not terminate", domain.ErrValidation, t.ID)
		}
	}
}

func deref(in []*domain.Entity) []domain.Entity {
	out := make([]domain.Entity, 0, len(in))
	for _, e := range in {
		out = append(out, *e)
	}
	return out
}
