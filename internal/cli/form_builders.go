package cli

import (
	"strconv"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/charmbracelet/huh"
)

// editPanelValues holds the edit panel's text fields. It is seeded from the
// row's entity snapshot and converted back to a Patch on submit.
type editPanelValues struct {
	Name     string
	Start    string
	End      string
	Project  string
	Parent   string
	Assignee string
	Priority string
	Progress string
}

func newEditPanelValues(e domain.Entity) *editPanelValues {
	v := &editPanelValues{
		Name:     e.Name,
		Start:    domain.FormatDate(e.StartDate),
		End:      domain.FormatDate(e.EndDate),
		Assignee: e.Assignee,
		Priority: strconv.Itoa(e.Priority),
		Progress: strconv.Itoa(e.Progress),
	}
	if e.IsTask() {
		v.Project = strconv.Itoa(e.ProjectID)
		if e.ParentID != nil {
			v.Parent = strconv.Itoa(*e.ParentID)
		}
	}
	return v
}

// patch converts the fields into a Patch for kind. Required fields are
// always set so the reconciler can validate them; a blank parent keeps the
// current one.
func (v *editPanelValues) patch(kind domain.Kind) domain.Patch {
	name := v.Name
	p := domain.Patch{
		Name:      &name,
		StartDate: parseDatePtr(v.Start),
		EndDate:   parseDatePtr(v.End),
		Assignee:  &v.Assignee,
		Priority:  parseIntPtr(v.Priority),
		Progress:  parseIntPtr(v.Progress),
	}
	if kind == domain.KindTask {
		p.ProjectID = parseIntPtr(v.Project)
		p.ParentID = parseIntPtr(v.Parent)
	}
	return p
}

func parseDatePtr(s string) *time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func parseIntPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// dateInput returns a huh.Input for a required YYYY-MM-DD date.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2026-06-30").
		Value(value).
		Validate(validateDate)
}

// editPanelForm builds the edit panel for an entity of the given kind. Tasks
// get an extra group for their placement in the tree.
func editPanelForm(kind domain.Kind, v *editPanelValues) *huh.Form {
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&v.Name).
				Validate(validateRequired("name")),
			dateInput("Start Date", &v.Start),
			dateInput("End Date", &v.End),
		),
	}

	if kind == domain.KindTask {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Project ID").
				Value(&v.Project).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Parent Task ID").
				Description("Blank keeps the current parent.").
				Value(&v.Parent).
				Validate(validateOptionalPositiveInt),
		))
	}

	groups = append(groups, huh.NewGroup(
		huh.NewInput().
			Title("Assignee").
			Value(&v.Assignee),
		huh.NewInput().
			Title("Priority").
			Value(&v.Priority).
			Validate(validateOptionalInt),
		huh.NewInput().
			Title("Progress (%)").
			Value(&v.Progress).
			Validate(validateProgress),
	))

	return huh.NewForm(groups...).WithTheme(timelineHuhTheme()).WithShowHelp(false)
}
