// Package store holds the flat, in-memory collections of projects and tasks
// the timeline renders from. Entities live in an arena keyed by (kind, id);
// the hierarchy is recovered through parent and project indexes rather than
// a nested tree.
package store

import (
	"slices"

	"github.com/alexanderramin/timeline/internal/domain"
)

// Store is the Entity Store. It is not safe for concurrent use: it is owned
// by a single logical thread and written only by the mutation reconciler.
type Store struct {
	entities map[domain.RowKey]domain.Entity

	// projectOrder keeps projects in arrival order.
	projectOrder []int
	// children indexes task ids by declared parent task id.
	children map[int][]int
	// byProject indexes parentless task ids by owning project id.
	byProject map[int][]int
}

// New creates a store seeded with entities, in order.
func New(entities ...domain.Entity) *Store {
	s := &Store{
		entities:  make(map[domain.RowKey]domain.Entity),
		children:  make(map[int][]int),
		byProject: make(map[int][]int),
	}
	for _, e := range entities {
		s.Upsert(e)
	}
	return s
}

// Upsert replaces the record with the same (kind, id) or inserts a new one.
// The entity is stored whole; fields are never merged.
func (s *Store) Upsert(e domain.Entity) {
	key := e.Key()
	prev, exists := s.entities[key]
	if exists {
		s.unindex(prev)
	} else if e.IsProject() {
		s.projectOrder = append(s.projectOrder, e.ID)
	}
	e = e.Clone()
	s.entities[key] = e
	s.index(e)
}

// Get looks up an entity by row-key. A missing record is reported through
// ok rather than an error: stale keys are expected during reconciliation.
func (s *Store) Get(key domain.RowKey) (domain.Entity, bool) {
	e, ok := s.entities[key]
	if !ok {
		return domain.Entity{}, false
	}
	return e.Clone(), true
}

// GetByID looks up an entity by kind and numeric id.
func (s *Store) GetByID(kind domain.Kind, id int) (domain.Entity, bool) {
	return s.Get(domain.RowKey{Kind: kind, ID: id})
}

// Projects returns all projects in arrival order.
func (s *Store) Projects() []domain.Entity {
	out := make([]domain.Entity, 0, len(s.projectOrder))
	for _, id := range s.projectOrder {
		out = append(out, s.entities[domain.ProjectKey(id)].Clone())
	}
	return out
}

// ChildrenOf returns the tasks whose ParentID is taskID, unordered. Tasks
// sitting on a parent cycle are left out; they are listed at the top level
// instead.
func (s *Store) ChildrenOf(taskID int) []domain.Entity {
	return slices.DeleteFunc(s.tasks(s.children[taskID]), s.IsOrphan)
}

// HasChildren reports whether key has anything to expand into. Projects
// always can; tasks only when at least one task names them as parent.
func (s *Store) HasChildren(key domain.RowKey) bool {
	if key.IsProject() {
		_, ok := s.entities[key]
		return ok
	}
	return slices.ContainsFunc(s.children[key.ID], func(id int) bool {
		return !s.IsOrphan(s.entities[domain.TaskKey(id)])
	})
}

// TopLevelTasksOf returns the tasks attached directly to projectID: tasks
// with no parent, plus orphans.
func (s *Store) TopLevelTasksOf(projectID int) []domain.Entity {
	out := s.tasks(s.byProject[projectID])
	for _, e := range s.entities {
		if e.IsTask() && e.ProjectID == projectID && s.IsOrphan(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// IsOrphan reports whether a task cannot hang under its declared parent,
// either because that parent does not exist or because following parents
// upwards leads back to the task itself.
func (s *Store) IsOrphan(e domain.Entity) bool {
	if !e.IsTask() || e.ParentID == nil {
		return false
	}
	if _, ok := s.entities[domain.TaskKey(*e.ParentID)]; !ok {
		return true
	}
	return s.onCycle(e.ID)
}

func (s *Store) onCycle(taskID int) bool {
	seen := make(map[int]bool)
	id := taskID
	for {
		t, ok := s.entities[domain.TaskKey(id)]
		if !ok || t.ParentID == nil {
			return false
		}
		id = *t.ParentID
		if id == taskID {
			return true
		}
		// A loop further up that does not pass through taskID.
		if seen[id] {
			return false
		}
		seen[id] = true
	}
}

// HasProject reports whether a project with id is stored.
func (s *Store) HasProject(id int) bool {
	_, ok := s.entities[domain.ProjectKey(id)]
	return ok
}

// Orphans returns, ordered by id, every task the hierarchy cannot place
// where it says it belongs: orphans, which are shown at the top level of
// their project, and tasks naming an unknown project, which are not shown
// at all.
func (s *Store) Orphans() []domain.Entity {
	var out []domain.Entity
	for _, e := range s.entities {
		if s.IsOrphan(e) || (e.IsTask() && !s.HasProject(e.ProjectID)) {
			out = append(out, e.Clone())
		}
	}
	slices.SortFunc(out, func(a, b domain.Entity) int { return a.ID - b.ID })
	return out
}

// Len returns the number of stored entities of both kinds.
func (s *Store) Len() int {
	return len(s.entities)
}

func (s *Store) tasks(ids []int) []domain.Entity {
	out := make([]domain.Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.entities[domain.TaskKey(id)].Clone())
	}
	return out
}

func (s *Store) index(e domain.Entity) {
	if !e.IsTask() {
		return
	}
	if e.ParentID != nil {
		s.children[*e.ParentID] = append(s.children[*e.ParentID], e.ID)
		return
	}
	s.byProject[e.ProjectID] = append(s.byProject[e.ProjectID], e.ID)
}

func (s *Store) unindex(e domain.Entity) {
	if !e.IsTask() {
		return
	}
	if e.ParentID != nil {
		s.children[*e.ParentID] = remove(s.children[*e.ParentID], e.ID)
		return
	}
	s.byProject[e.ProjectID] = remove(s.byProject[e.ProjectID], e.ID)
}

func remove(ids []int, id int) []int {
	return slices.DeleteFunc(ids, func(v int) bool { return v == id })
}
