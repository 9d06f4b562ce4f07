package timeline

import (
	"testing"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/store"
	"github.com/alexanderramin/timeline/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return domain.Date(2024, time.January, d)
}

// sampleStore builds:
//
//	project-1 Apollo
//	  task-1 Design (Jan 5)
//	    task-3 Sketch (Jan 6)
//	      task-5 Wireframe (Jan 7)
//	    task-4 Review (Jan 6)
//	  task-2 Build (Jan 2)
//	project-2 Zephyr
func sampleStore() *store.Store {
	return store.New(
		testutil.NewProject(1, "Apollo"),
		testutil.NewProject(2, "Zephyr"),
		testutil.NewTask(1, 1, "Design", testutil.WithDates(day(5), day(9))),
		testutil.NewTask(2, 1, "Build", testutil.WithDates(day(2), day(20))),
		testutil.NewTask(4, 1, "Review", testutil.WithDates(day(6), day(8)), testutil.WithParent(1)),
		testutil.NewTask(3, 1, "Sketch", testutil.WithDates(day(6), day(7)), testutil.WithParent(1)),
		testutil.NewTask(5, 1, "Wireframe", testutil.WithDates(day(7), day(7)), testutil.WithParent(3)),
	)
}

func keys(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Key.String()
	}
	return out
}

func TestProject_CollapsedShowsOnlyProjects(t *testing.T) {
	p := Project(sampleStore(), NewExpandState(), nil)
	assert.Equal(t, []string{"project-1", "project-2"}, keys(p.Rows))
	for _, r := range p.Rows {
		assert.Equal(t, 0, r.Depth)
		assert.True(t, r.ParentKey.IsZero())
	}
}

func TestProject_ExpandedProjectSortsTopLevelByStart(t *testing.T) {
	expand := NewExpandState()
	expand.Set(domain.ProjectKey(1), true)

	p := Project(sampleStore(), expand, nil)
	assert.Equal(t, []string{"project-1", "task-2", "task-1", "project-2"}, keys(p.Rows))
	assert.Equal(t, 1, p.Rows[1].Depth)
	assert.Equal(t, domain.ProjectKey(1), p.Rows[1].ParentKey)
}

func TestProject_CollapsePrunesDescendants(t *testing.T) {
	expand := NewExpandState()
	expand.Set(domain.ProjectKey(1), true)
	// task-3 is expanded but its ancestor task-1 is not: nothing below task-1 shows.
	expand.Set(domain.TaskKey(3), true)

	p := Project(sampleStore(), expand, nil)
	assert.Equal(t, []string{"project-1", "task-2", "task-1", "project-2"}, keys(p.Rows))
	assert.True(t, p.Rows[2].Expandable)
	assert.False(t, p.Rows[2].Expanded)
}

func TestProject_ExpandedDescendantsOrderedByStartThenID(t *testing.T) {
	expand, err := ParseExpandState([]string{"project-1"}, []string{"task-1", "task-3"})
	require.NoError(t, err)

	p := Project(sampleStore(), expand, nil)
	assert.Equal(t,
		[]string{"project-1", "task-2", "task-1", "task-3", "task-5", "task-4", "project-2"},
		keys(p.Rows))

	depths := make([]int, len(p.Rows))
	for i, r := range p.Rows {
		depths[i] = r.Depth
	}
	assert.Equal(t, []int{0, 1, 1, 2, 3, 2, 0}, depths)
	assert.Equal(t, domain.TaskKey(3), p.Rows[4].ParentKey)
}

func TestProject_LeafIsNotExpandable(t *testing.T) {
	expand, err := ParseExpandState([]string{"project-1"}, []string{"task-2"})
	require.NoError(t, err)

	p := Project(sampleStore(), expand, nil)
	i := IndexOf(p.Rows, domain.TaskKey(2))
	require.GreaterOrEqual(t, i, 0)
	assert.False(t, p.Rows[i].Expandable)
	assert.False(t, p.Rows[i].Expanded)
}

func TestProject_IsPureAndDeterministic(t *testing.T) {
	s := sampleStore()
	expand, err := ParseExpandState([]string{"project-1", "project-2"}, []string{"task-1"})
	require.NoError(t, err)
	drag := NewDragState()
	drag.Toggle(domain.TaskKey(1))

	before := expand.Clone()
	first := Project(s, expand, drag)
	second := Project(s, expand, drag)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("projection not deterministic (-first +second):\n%s", diff)
	}
	assert.Equal(t, before.ExpandedProjects(), expand.ExpandedProjects())
	assert.Equal(t, before.ExpandedTasks(), expand.ExpandedTasks())
	assert.Equal(t, 7, s.Len())
}

func TestProject_OrphanPlacedAtTopLevel(t *testing.T) {
	s := store.New(
		testutil.NewProject(1, "P"),
		testutil.NewTask(1, 1, "Root", testutil.WithDates(day(3), day(4))),
		testutil.NewTask(2, 1, "Lost", testutil.WithDates(day(1), day(2)), testutil.WithParent(404)),
	)
	expand := NewExpandState()
	expand.Set(domain.ProjectKey(1), true)

	p := Project(s, expand, nil)
	assert.Equal(t, []string{"project-1", "task-2", "task-1"}, keys(p.Rows))
	require.Len(t, p.Orphans, 1)
	assert.Equal(t, 2, p.Orphans[0].ID)
	assert.Equal(t, 1, p.Rows[1].Depth)
}

func TestProject_EmptyProjectStillEmitsRow(t *testing.T) {
	s := store.New(testutil.NewProject(7, "Empty"))
	expand := NewExpandState()
	expand.Set(domain.ProjectKey(7), true)

	p := Project(s, expand, nil)
	require.Len(t, p.Rows, 1)
	assert.True(t, p.Rows[0].Expanded)
}

func TestProject_SameIDAcrossKindsDoNotCollide(t *testing.T) {
	s := store.New(
		testutil.NewProject(5, "Project five"),
		testutil.NewTask(5, 5, "Task five"),
	)
	expand := NewExpandState()
	expand.Set(domain.ProjectKey(5), true)

	p := Project(s, expand, nil)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, "Project five", p.Rows[0].Label)
	assert.Equal(t, "Task five", p.Rows[1].Label)
	assert.False(t, p.Rows[1].Expandable, "task-5 must not inherit project-5's expansion")
}

func TestProject_DragFlagsDriveCanMoveAndResize(t *testing.T) {
	drag := NewDragState()
	drag.Toggle(domain.ProjectKey(2))

	p := Project(sampleStore(), NewExpandState(), drag)
	assert.False(t, p.Rows[0].CanMove)
	assert.True(t, p.Rows[1].CanMove)
	assert.True(t, p.Rows[1].CanResize)
}

func TestProject_BarEdges(t *testing.T) {
	expand := NewExpandState()
	expand.Set(domain.ProjectKey(1), true)
	p := Project(sampleStore(), expand, nil)

	proj := p.Rows[0]
	assert.Equal(t, testutil.DefaultProjectEnd, proj.BarEnd, "project ends at start of its end day")

	task := p.Rows[1] // task-2, Jan 2..Jan 20
	assert.Equal(t, day(2), task.BarStart)
	assert.Equal(t, day(21).Add(-time.Nanosecond), task.BarEnd, "task end is inclusive of the whole day")
}

func TestProject_CycleMembersPlacedAtTopLevel(t *testing.T) {
	s := store.New(
		testutil.NewProject(1, "P"),
		testutil.NewTask(1, 1, "Root"),
		testutil.NewTask(2, 1, "A", testutil.WithParent(1)),
		testutil.NewTask(3, 1, "Leaf", testutil.WithParent(2), testutil.WithDates(day(3), day(4))),
	)
	// Re-parent task-1 under its own child to form a loop.
	s.Upsert(testutil.NewTask(1, 1, "Root", testutil.WithParent(2)))
	expand, err := ParseExpandState([]string{"project-1"}, []string{"task-1", "task-2"})
	require.NoError(t, err)

	p := Project(s, expand, nil)
	assert.Equal(t, []string{"project-1", "task-1", "task-2", "task-3"}, keys(p.Rows))
	assert.False(t, p.Rows[1].Expandable, "task-1's only child sits on the loop")
	assert.True(t, p.Rows[2].Expanded)
	assert.Equal(t, 1, p.Rows[2].Depth)
	assert.Equal(t, 2, p.Rows[3].Depth, "task-3 still hangs under task-2")

	var orphans []int
	for _, o := range p.Orphans {
		orphans = append(orphans, o.ID)
	}
	assert.Equal(t, []int{1, 2}, orphans)
}

func TestProject_UnknownProjectReportedNotRendered(t *testing.T) {
	s := store.New(
		testutil.NewProject(1, "P"),
		testutil.NewTask(3, 99, "Stray"),
	)
	expand, err := ParseExpandState([]string{"project-1", "project-99"}, nil)
	require.NoError(t, err)

	p := Project(s, expand, nil)
	assert.Equal(t, []string{"project-1"}, keys(p.Rows))
	require.Len(t, p.Orphans, 1)
	assert.Equal(t, 3, p.Orphans[0].ID)
}
