package store

import (
	"testing"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetByKindKeepsNamespacesApart(t *testing.T) {
	proj := testutil.NewProject(5, "Apollo")
	task := testutil.NewTask(5, 5, "Design")
	s := New(proj, task)

	gotProj, ok := s.GetByID(domain.KindProject, 5)
	require.True(t, ok)
	assert.Equal(t, "Apollo", gotProj.Name)

	gotTask, ok := s.GetByID(domain.KindTask, 5)
	require.True(t, ok)
	assert.Equal(t, "Design", gotTask.Name)
	assert.Equal(t, 2, s.Len())
}

func TestStore_GetMissingIsSilent(t *testing.T) {
	s := New()
	_, ok := s.Get(domain.TaskKey(42))
	assert.False(t, ok)
}

func TestStore_UpsertReplacesWholeRecord(t *testing.T) {
	task := testutil.NewTask(1, 1, "Old", testutil.WithAssignee("ana"))
	s := New(testutil.NewProject(1, "P"), task)

	replacement := testutil.NewTask(1, 1, "New")
	s.Upsert(replacement)

	got, ok := s.Get(domain.TaskKey(1))
	require.True(t, ok)
	assert.Equal(t, "New", got.Name)
	assert.Empty(t, got.Assignee, "upsert must not merge old fields")
}

func TestStore_UpsertReindexesParent(t *testing.T) {
	s := New(
		testutil.NewProject(1, "P"),
		testutil.NewTask(1, 1, "A"),
		testutil.NewTask(2, 1, "B"),
		testutil.NewTask(3, 1, "C", testutil.WithParent(1)),
	)
	require.Len(t, s.ChildrenOf(1), 1)

	s.Upsert(testutil.NewTask(3, 1, "C", testutil.WithParent(2)))

	assert.Empty(t, s.ChildrenOf(1))
	require.Len(t, s.ChildrenOf(2), 1)
	assert.Equal(t, 3, s.ChildrenOf(2)[0].ID)
	assert.False(t, s.HasChildren(domain.TaskKey(1)))
	assert.True(t, s.HasChildren(domain.TaskKey(2)))
}

func TestStore_ProjectsKeepArrivalOrder(t *testing.T) {
	s := New(
		testutil.NewProject(9, "Nine"),
		testutil.NewProject(2, "Two"),
		testutil.NewProject(5, "Five"),
	)
	s.Upsert(testutil.NewProject(2, "Two renamed"))

	var names []string
	for _, p := range s.Projects() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Nine", "Two renamed", "Five"}, names)
}

func TestStore_TopLevelTasksIncludeOrphans(t *testing.T) {
	s := New(
		testutil.NewProject(1, "P"),
		testutil.NewProject(2, "Q"),
		testutil.NewTask(1, 1, "Root"),
		testutil.NewTask(2, 1, "Child", testutil.WithParent(1)),
		testutil.NewTask(3, 1, "Orphan", testutil.WithParent(99)),
		testutil.NewTask(4, 2, "Other project"),
	)

	var ids []int
	for _, e := range s.TopLevelTasksOf(1) {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []int{1, 3}, ids)

	orphans := s.Orphans()
	require.Len(t, orphans, 1)
	assert.Equal(t, 3, orphans[0].ID)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := New(testutil.NewProject(1, "P"), testutil.NewTask(2, 1, "T", testutil.WithParent(1)))

	got, _ := s.Get(domain.TaskKey(2))
	*got.ParentID = 77
	got.Name = "mutated"

	again, _ := s.Get(domain.TaskKey(2))
	assert.Equal(t, "T", again.Name)
	assert.Equal(t, 1, *again.ParentID)
}

func TestStore_HasChildrenForProjects(t *testing.T) {
	s := New(testutil.NewProject(1, "Empty"))
	assert.True(t, s.HasChildren(domain.ProjectKey(1)))
	assert.False(t, s.HasChildren(domain.ProjectKey(2)))
}

func TestStore_ParentCycleMembersAreOrphans(t *testing.T) {
	s := New(
		testutil.NewProject(1, "P"),
		testutil.NewTask(1, 1, "A", testutil.WithParent(2)),
		testutil.NewTask(2, 1, "B", testutil.WithParent(1)),
		testutil.NewTask(3, 1, "Below the loop", testutil.WithParent(2)),
		testutil.NewTask(4, 1, "Self", testutil.WithParent(4)),
	)

	assert.True(t, s.IsOrphan(mustGet(t, s, 1)))
	assert.True(t, s.IsOrphan(mustGet(t, s, 4)))
	assert.False(t, s.IsOrphan(mustGet(t, s, 3)), "leads into the loop without being on it")

	var ids []int
	for _, e := range s.TopLevelTasksOf(1) {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []int{1, 2, 4}, ids)

	require.Len(t, s.ChildrenOf(2), 1)
	assert.Equal(t, 3, s.ChildrenOf(2)[0].ID)
	assert.False(t, s.HasChildren(domain.TaskKey(1)))
	assert.False(t, s.HasChildren(domain.TaskKey(4)))
	assert.True(t, s.HasChildren(domain.TaskKey(2)))
}

func TestStore_OrphansIncludeUnknownProject(t *testing.T) {
	s := New(
		testutil.NewProject(1, "P"),
		testutil.NewTask(1, 1, "Placed"),
		testutil.NewTask(2, 99, "Stray"),
	)

	assert.False(t, s.HasProject(99))
	orphans := s.Orphans()
	require.Len(t, orphans, 1)
	assert.Equal(t, 2, orphans[0].ID)
}

func mustGet(t *testing.T, s *Store, id int) domain.Entity {
	t.Helper()
	e, ok := s.GetByID(domain.KindTask, id)
	require.True(t, ok)
	return e
}
