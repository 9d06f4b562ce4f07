package testutil

import (
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
)

// Default fixture dates. Tasks span nine days so duration assertions have a
// non-trivial value to preserve.
var (
	DefaultProjectStart = domain.Date(2024, time.January, 1)
	DefaultProjectEnd   = domain.Date(2024, time.March, 31)
	DefaultTaskStart    = domain.Date(2024, time.January, 1)
	DefaultTaskEnd      = domain.Date(2024, time.January, 10)
)

// EntityOption customises a fixture entity.
type EntityOption func(*domain.Entity)

func WithDates(start, end time.Time) EntityOption {
	return func(e *domain.Entity) {
		e.StartDate = start
		e.EndDate = end
	}
}

func WithStart(start time.Time) EntityOption {
	return func(e *domain.Entity) {
		e.StartDate = start
	}
}

func WithParent(id int) EntityOption {
	return func(e *domain.Entity) {
		e.ParentID = &id
	}
}

func WithAssignee(name string) EntityOption {
	return func(e *domain.Entity) {
		e.Assignee = name
	}
}

func WithPriority(p int) EntityOption {
	return func(e *domain.Entity) {
		e.Priority = p
	}
}

func WithProgress(p int) EntityOption {
	return func(e *domain.Entity) {
		e.Progress = p
	}
}

// NewProject returns a project fixture with the given id.
func NewProject(id int, name string, opts ...EntityOption) domain.Entity {
	e := domain.Entity{
		ID:        id,
		Kind:      domain.KindProject,
		Name:      name,
		StartDate: DefaultProjectStart,
		EndDate:   DefaultProjectEnd,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// NewTask returns a top-level task fixture owned by projectID.
func NewTask(id, projectID int, name string, opts ...EntityOption) domain.Entity {
	e := domain.Entity{
		ID:        id,
		Kind:      domain.KindTask,
		Name:      name,
		StartDate: DefaultTaskStart,
		EndDate:   DefaultTaskEnd,
		ProjectID: projectID,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Ptr returns a pointer to v. Handy for building domain.Patch values.
func Ptr[T any](v T) *T {
	return &v
}
