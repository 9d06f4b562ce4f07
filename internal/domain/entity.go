package domain

import (
	"fmt"
	"time"
)

// Entity is a project or a task/subtask. Both kinds share one shape and are
// told apart by Kind; ids are unique only within a kind.
type Entity struct {
	ID        int
	Kind      Kind
	Name      string
	StartDate time.Time
	EndDate   time.Time

	// ParentID is nil for top-level tasks and always nil for projects.
	ParentID *int
	// ProjectID is the owning project of a task, stored directly on every
	// task regardless of nesting depth. Zero for projects.
	ProjectID int

	// Pass-through attributes for the edit panel.
	Assignee string
	Priority int
	Progress int
}

// Key returns the entity's row-key.
func (e Entity) Key() RowKey {
	return RowKey{Kind: e.Kind, ID: e.ID}
}

// IsProject reports whether e is a project.
func (e Entity) IsProject() bool { return e.Kind == KindProject }

// IsTask reports whether e is a task or subtask.
func (e Entity) IsTask() bool { return e.Kind == KindTask }

// ParentKey returns the row-key of the declared parent task, or the zero key.
func (e Entity) ParentKey() RowKey {
	if e.ParentID == nil {
		return RowKey{}
	}
	return TaskKey(*e.ParentID)
}

// Clone returns a deep copy; the ParentID pointer is not shared.
func (e Entity) Clone() Entity {
	if e.ParentID != nil {
		p := *e.ParentID
		e.ParentID = &p
	}
	return e
}

// Equal compares two entities field by field, dereferencing ParentID.
func (e Entity) Equal(o Entity) bool {
	if (e.ParentID == nil) != (o.ParentID == nil) {
		return false
	}
	if e.ParentID != nil && *e.ParentID != *o.ParentID {
		return false
	}
	return e.ID == o.ID && e.Kind == o.Kind && e.Name == o.Name &&
		e.StartDate.Equal(o.StartDate) && e.EndDate.Equal(o.EndDate) &&
		e.ProjectID == o.ProjectID && e.Assignee == o.Assignee &&
		e.Priority == o.Priority && e.Progress == o.Progress
}

// BarStart is the left edge used for layout: the start of StartDate's day.
func (e Entity) BarStart() time.Time {
	return StartOfDay(e.StartDate)
}

// BarEnd is the right edge used for layout. A task's end date is inclusive
// of its full day; a project's end date is taken at the start of the day.
func (e Entity) BarEnd() time.Time {
	if e.IsTask() {
		return EndOfDay(e.EndDate)
	}
	return StartOfDay(e.EndDate)
}

// Span is the rendered duration of the bar.
func (e Entity) Span() time.Duration {
	return e.BarEnd().Sub(e.BarStart())
}

// Validate checks the invariants every stored entity must hold.
func (e Entity) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrValidation, e.Kind)
	}
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if e.StartDate.After(e.EndDate) {
		return fmt.Errorf("%w: start date %s is after end date %s",
			ErrValidation, FormatDate(e.StartDate), FormatDate(e.EndDate))
	}
	if e.Progress < 0 || e.Progress > 100 {
		return fmt.Errorf("%w: progress %d outside 0-100", ErrValidation, e.Progress)
	}
	switch e.Kind {
	case KindProject:
		if e.ParentID != nil || e.ProjectID != 0 {
			return fmt.Errorf("%w: a project has no parent or owning project", ErrValidation)
		}
	case KindTask:
		if e.ProjectID <= 0 {
			return fmt.Errorf("%w: task requires a project", ErrValidation)
		}
		if e.ParentID != nil && *e.ParentID == e.ID && e.ID != 0 {
			return fmt.Errorf("%w: task %d cannot be its own parent", ErrValidation, e.ID)
		}
	}
	return nil
}
