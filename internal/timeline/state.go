package timeline

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/timeline/internal/domain"
)

// ExpandState is the pair of expanded-project and expanded-task sets. Keys
// are tagged row-keys, so the kind of an entry is never ambiguous.
type ExpandState struct {
	projects map[int]struct{}
	tasks    map[int]struct{}
}

// NewExpandState returns an empty (fully collapsed) state.
func NewExpandState() *ExpandState {
	return &ExpandState{
		projects: make(map[int]struct{}),
		tasks:    make(map[int]struct{}),
	}
}

// ParseExpandState builds a state from the string row-keys of each set.
// A key in the wrong set (e.g. "task-3" among projects) is rejected.
func ParseExpandState(projects, tasks []string) (*ExpandState, error) {
	s := NewExpandState()
	for _, raw := range projects {
		key, err := domain.ParseRowKey(raw)
		if err != nil {
			return nil, err
		}
		if !key.IsProject() {
			return nil, fmt.Errorf("%w: %q is not a project row-key", domain.ErrMalformedRowKey, raw)
		}
		s.Set(key, true)
	}
	for _, raw := range tasks {
		key, err := domain.ParseRowKey(raw)
		if err != nil {
			return nil, err
		}
		if !key.IsTask() {
			return nil, fmt.Errorf("%w: %q is not a task row-key", domain.ErrMalformedRowKey, raw)
		}
		s.Set(key, true)
	}
	return s, nil
}

// IsExpanded reports whether key is currently showing its children.
func (s *ExpandState) IsExpanded(key domain.RowKey) bool {
	if s == nil {
		return false
	}
	set := s.set(key.Kind)
	if set == nil {
		return false
	}
	_, ok := set[key.ID]
	return ok
}

// Set expands or collapses key.
func (s *ExpandState) Set(key domain.RowKey, expanded bool) {
	set := s.set(key.Kind)
	if set == nil {
		return
	}
	if expanded {
		set[key.ID] = struct{}{}
	} else {
		delete(set, key.ID)
	}
}

// Toggle flips key and returns the new expanded value.
func (s *ExpandState) Toggle(key domain.RowKey) bool {
	next := !s.IsExpanded(key)
	s.Set(key, next)
	return next
}

// ExpandedProjects returns the expanded project row-keys, sorted by id.
func (s *ExpandState) ExpandedProjects() []string {
	return keysOf(domain.KindProject, s.projects)
}

// ExpandedTasks returns the expanded task row-keys, sorted by id.
func (s *ExpandState) ExpandedTasks() []string {
	return keysOf(domain.KindTask, s.tasks)
}

// Clone returns an independent copy.
func (s *ExpandState) Clone() *ExpandState {
	out := NewExpandState()
	for id := range s.projects {
		out.projects[id] = struct{}{}
	}
	for id := range s.tasks {
		out.tasks[id] = struct{}{}
	}
	return out
}

// Replace overwrites s in place with the contents of other.
func (s *ExpandState) Replace(other *ExpandState) {
	clear(s.projects)
	clear(s.tasks)
	if other == nil {
		return
	}
	for id := range other.projects {
		s.projects[id] = struct{}{}
	}
	for id := range other.tasks {
		s.tasks[id] = struct{}{}
	}
}

func (s *ExpandState) set(kind domain.Kind) map[int]struct{} {
	switch kind {
	case domain.KindProject:
		return s.projects
	case domain.KindTask:
		return s.tasks
	}
	return nil
}

func keysOf(kind domain.Kind, set map[int]struct{}) []string {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = domain.RowKey{Kind: kind, ID: id}.String()
	}
	return out
}

// DragGate reports whether move/resize gestures on a row are honored.
type DragGate interface {
	DragEnabled(key domain.RowKey) bool
}

// DragState holds the per-row drag permission flags. Rows default to
// disabled. The interaction machine is the only writer.
type DragState struct {
	enabled map[domain.RowKey]bool
}

// NewDragState returns a state with every row disabled.
func NewDragState() *DragState {
	return &DragState{enabled: make(map[domain.RowKey]bool)}
}

// DragEnabled implements DragGate.
func (d *DragState) DragEnabled(key domain.RowKey) bool {
	if d == nil {
		return false
	}
	return d.enabled[key]
}

// Toggle flips the flag for key and returns the new value.
func (d *DragState) Toggle(key domain.RowKey) bool {
	if d.enabled[key] {
		delete(d.enabled, key)
		return false
	}
	d.enabled[key] = true
	return true
}

// Reset disables dragging for key.
func (d *DragState) Reset(key domain.RowKey) {
	delete(d.enabled, key)
}

// Armed returns the drag-enabled row-keys in kind then id order.
func (d *DragState) Armed() []domain.RowKey {
	out := make([]domain.RowKey, 0, len(d.enabled))
	for k := range d.enabled {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b domain.RowKey) int {
		if a.Kind != b.Kind {
			if a.Kind < b.Kind {
				return -1
			}
			return 1
		}
		return a.ID - b.ID
	})
	return out
}
