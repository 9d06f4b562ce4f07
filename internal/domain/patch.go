package domain

import (
	"fmt"
	"time"
)

// Patch is the edit panel's payload. Name, StartDate and EndDate are always
// required; ProjectID is required for tasks. Nil optional fields keep the
// current value.
type Patch struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
	ProjectID *int

	ParentID *int
	Assignee *string
	Priority *int
	Progress *int
}

// Validate checks the patch against the kind it will be applied to.
func (p Patch) Validate(kind Kind) error {
	if p.Name == nil || *p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.StartDate == nil || p.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrValidation)
	}
	if p.EndDate == nil || p.EndDate.IsZero() {
		return fmt.Errorf("%w: end date is required", ErrValidation)
	}
	if DateOf(*p.StartDate).After(DateOf(*p.EndDate)) {
		return fmt.Errorf("%w: start date is after end date", ErrValidation)
	}
	if kind == KindTask && (p.ProjectID == nil || *p.ProjectID <= 0) {
		return fmt.Errorf("%w: project is required for tasks", ErrValidation)
	}
	if p.Progress != nil && (*p.Progress < 0 || *p.Progress > 100) {
		return fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	}
	return nil
}

// ApplyTo returns a copy of e with the patch applied. Dates are truncated to
// calendar days. For projects, ProjectID and ParentID are ignored.
func (p Patch) ApplyTo(e Entity) Entity {
	out := e.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.StartDate != nil {
		out.StartDate = DateOf(*p.StartDate)
	}
	if p.EndDate != nil {
		out.EndDate = DateOf(*p.EndDate)
	}
	if p.Assignee != nil {
		out.Assignee = *p.Assignee
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Progress != nil {
		out.Progress = *p.Progress
	}
	if out.IsTask() {
		if p.ProjectID != nil {
			out.ProjectID = *p.ProjectID
		}
		if p.ParentID != nil {
			parent := *p.ParentID
			out.ParentID = &parent
		}
	}
	return out
}
