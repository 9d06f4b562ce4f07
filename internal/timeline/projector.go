// Package timeline derives the visible rows of the project/task timeline and
// owns the time window they are drawn against.
package timeline

import (
	"slices"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
)

// Source is the read side of the entity store consumed by the projector.
// ChildrenOf must never lead back to an ancestor; tasks on a parent cycle
// belong in TopLevelTasksOf and Orphans.
type Source interface {
	Projects() []domain.Entity
	TopLevelTasksOf(projectID int) []domain.Entity
	ChildrenOf(taskID int) []domain.Entity
	Orphans() []domain.Entity
}

// Row is one visible timeline line. Rows are rebuilt on every projection
// and never mutated afterwards.
type Row struct {
	Key       domain.RowKey
	ParentKey domain.RowKey
	Depth     int
	Label     string
	BarStart  time.Time
	BarEnd    time.Time
	Entity    domain.Entity

	CanMove   bool
	CanResize bool

	// Expandable is true for projects and for tasks with at least one child.
	Expandable bool
	Expanded   bool
}

// Projection is the result of one projector pass.
type Projection struct {
	Rows []Row
	// Orphans are tasks whose declared parent does not resolve or loops
	// back to them, placed at the top level of their project, and tasks of
	// an unknown project, which get no row.
	Orphans []domain.Entity
}

// Project derives the ordered visible rows from src and the expand state.
// It has no side effects and is deterministic for equal inputs. drag may be
// nil, in which case no row can move or resize.
func Project(src Source, expand *ExpandState, drag DragGate) Projection {
	p := projector{src: src, expand: expand, drag: drag}
	for _, proj := range src.Projects() {
		key := proj.Key()
		expanded := expand.IsExpanded(key)
		p.emit(proj, domain.RowKey{}, 0, true, expanded)
		if !expanded {
			continue
		}
		for _, task := range sortSiblings(src.TopLevelTasksOf(proj.ID)) {
			p.walk(task, key, 1)
		}
	}
	return Projection{Rows: p.rows, Orphans: src.Orphans()}
}

type projector struct {
	src    Source
	expand *ExpandState
	drag   DragGate
	rows   []Row
}

func (p *projector) walk(task domain.Entity, parent domain.RowKey, depth int) {
	children := p.src.ChildrenOf(task.ID)
	key := task.Key()
	expanded := p.expand.IsExpanded(key)
	p.emit(task, parent, depth, len(children) > 0, expanded)
	if !expanded || len(children) == 0 {
		return
	}
	for _, child := range sortSiblings(children) {
		p.walk(child, key, depth+1)
	}
}

func (p *projector) emit(e domain.Entity, parent domain.RowKey, depth int, expandable, expanded bool) {
	key := e.Key()
	armed := p.drag != nil && p.drag.DragEnabled(key)
	p.rows = append(p.rows, Row{
		Key:        key,
		ParentKey:  parent,
		Depth:      depth,
		Label:      e.Name,
		BarStart:   e.BarStart(),
		BarEnd:     e.BarEnd(),
		Entity:     e,
		CanMove:    armed,
		CanResize:  armed,
		Expandable: expandable,
		Expanded:   expandable && expanded,
	})
}

// sortSiblings orders tasks by start date, then id.
func sortSiblings(tasks []domain.Entity) []domain.Entity {
	slices.SortStableFunc(tasks, func(a, b domain.Entity) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return tasks
}

// IndexOf returns the position of key within rows, or -1.
func IndexOf(rows []Row, key domain.RowKey) int {
	return slices.IndexFunc(rows, func(r Row) bool { return r.Key == key })
}
