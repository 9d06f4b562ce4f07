package app

import (
	"context"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/reconcile"
)

// EntitySource supplies the initial flat lists of projects and tasks.
type EntitySource interface {
	ListProjects(ctx context.Context) ([]domain.Entity, error)
	ListTasks(ctx context.Context) ([]domain.Entity, error)
}

// Remote is the full remote store collaborator: a source for the initial
// load and a sink for updates.
type Remote interface {
	EntitySource
	reconcile.UpdateSink
}
