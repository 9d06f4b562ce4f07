package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/timeline/internal/config"
	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/repository"
	"github.com/alexanderramin/timeline/internal/service"
	"github.com/alexanderramin/timeline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow puts the initial viewport (±1 month) around the fixture dates.
var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	svc := service.NewEntityService(
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteTaskRepo(database),
		testutil.NewTestUoW(database),
	)
	return &App{
		Entities: svc,
		Config:   config.Default(),
		Now:      func() time.Time { return testNow },
	}
}

// seedTimeline creates:
//
//	project-1 Platform
//	  task-1 Design        (2024-01-01 .. 2024-01-10)
//	    task-2 Sketch      (2024-01-02 .. 2024-01-04)
//	  task-3 Build         (2024-01-15 .. 2024-01-25)
//	project-2 Website
//
// Project and task ids collide on purpose.
func seedTimeline(t *testing.T, app *App) {
	t.Helper()
	ctx := context.Background()

	platform := testutil.NewProject(0, "Platform")
	require.NoError(t, app.Entities.CreateProject(ctx, &platform))
	website := testutil.NewProject(0, "Website",
		testutil.WithDates(domain.Date(2024, time.February, 1), domain.Date(2024, time.February, 28)))
	require.NoError(t, app.Entities.CreateProject(ctx, &website))

	design := testutil.NewTask(0, platform.ID, "Design")
	require.NoError(t, app.Entities.CreateTask(ctx, &design))
	sketch := testutil.NewTask(0, platform.ID, "Sketch",
		testutil.WithParent(design.ID),
		testutil.WithDates(domain.Date(2024, time.January, 2), domain.Date(2024, time.January, 4)))
	require.NoError(t, app.Entities.CreateTask(ctx, &sketch))
	build := testutil.NewTask(0, platform.ID, "Build",
		testutil.WithDates(domain.Date(2024, time.January, 15), domain.Date(2024, time.January, 25)))
	require.NoError(t, app.Entities.CreateTask(ctx, &build))

	require.Equal(t, []int{1, 2, 1, 2, 3}, []int{platform.ID, website.ID, design.ID, sketch.ID, build.ID})
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func getEntity(t *testing.T, app *App, key string) domain.Entity {
	t.Helper()
	k, err := domain.ParseRowKey(key)
	require.NoError(t, err)
	e, err := app.Entities.Get(context.Background(), k)
	require.NoError(t, err)
	return e
}

// --- project ---

func TestProjectAdd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add", "--name", "Platform", "--start", "2024-01-01", "--end", "2024-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Platform [project-1]")

	p := getEntity(t, app, "project-1")
	assert.Equal(t, domain.Date(2024, time.March, 31), p.EndDate)
}

func TestProjectAdd_InvalidDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "X", "--start", "01/02/2024", "--end", "2024-03-31")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectAdd_RequiresFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "X")
	require.Error(t, err)
}

func TestProjectList_Empty(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects yet")
}

func TestProjectList(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "project-1")
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "91 days")
	assert.Contains(t, out, "Website")
}

// --- task ---

func TestTaskAdd_Subtask(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "task", "add", "--project", "1", "--parent", "3",
		"--name", "Wire up", "--start", "2024-01-16", "--end", "2024-01-17", "--assignee", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Created task Wire up [task-4] in project-1")

	task := getEntity(t, app, "task-4")
	require.NotNil(t, task.ParentID)
	assert.Equal(t, 3, *task.ParentID)
	assert.Equal(t, "ana", task.Assignee)
}

func TestTaskAdd_ParentInOtherProject(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	_, err := executeCmd(t, app, "task", "add", "--project", "2", "--parent", "1",
		"--name", "Stray", "--start", "2024-02-01", "--end", "2024-02-02")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskList_FilterByProject(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "task", "list", "--project", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Sketch")
	assert.Contains(t, out, "task-1")

	out, err = executeCmd(t, app, "task", "list", "--project", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

// --- rows ---

func TestRows_CollapsedByDefault(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "rows")
	require.NoError(t, err)
	assert.Contains(t, out, "Platform +")
	assert.Contains(t, out, "Website +")
	assert.NotContains(t, out, "Design")
}

func TestRows_ExpandProject(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "rows", "--expand", "project-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Platform -")
	assert.Contains(t, out, "├─ Design +")
	assert.Contains(t, out, "└─ Build")
	assert.NotContains(t, out, "Sketch")
}

func TestRows_TaskKeyDoesNotExpandProjectWithSameID(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "rows", "--expand", "task-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Platform +")
	assert.NotContains(t, out, "Design")

	out, err = executeCmd(t, app, "rows", "--expand", "project-1,task-1")
	require.NoError(t, err)
	assert.Contains(t, out, "│  └─ Sketch")
}

func TestRows_All(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "rows", "--all")
	require.NoError(t, err)
	for _, label := range []string{"Platform -", "Design -", "Sketch", "Build", "Website -"} {
		assert.Contains(t, out, label)
	}
}

func TestRows_MalformedKey(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	_, err := executeCmd(t, app, "rows", "--expand", "milestone-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedRowKey)
}

func TestRows_WidthDrawsBars(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "rows", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-12-15 → 2024-02-15")
	assert.Contains(t, out, "█")
}

// --- move / resize / edit ---

func TestMove_PreservesDurationAndLeavesProjectAlone(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "move", "task-1", "2024-02-01")
	require.NoError(t, err)
	assert.Contains(t, out, "move task-1: 2024-02-01 → 2024-02-10")

	task := getEntity(t, app, "task-1")
	assert.Equal(t, domain.Date(2024, time.February, 1), task.StartDate)
	assert.Equal(t, domain.Date(2024, time.February, 10), task.EndDate)

	project := getEntity(t, app, "project-1")
	assert.Equal(t, testutil.DefaultProjectStart, project.StartDate)
}

func TestMove_NotFound(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "move", "task-99", "2024-02-01")
	require.Error(t, err)
	assert.Contains(t, out, "no such row")
}

func TestResize_RightEdge(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	_, err := executeCmd(t, app, "resize", "project-2", "right", "2024-03-15")
	require.NoError(t, err)

	p := getEntity(t, app, "project-2")
	assert.Equal(t, domain.Date(2024, time.February, 1), p.StartDate)
	assert.Equal(t, domain.Date(2024, time.March, 15), p.EndDate)
}

func TestResize_InvertedRange(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	_, err := executeCmd(t, app, "resize", "task-1", "right", "2023-12-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	task := getEntity(t, app, "task-1")
	assert.Equal(t, testutil.DefaultTaskEnd, task.EndDate)
}

func TestResize_BadEdge(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	_, err := executeCmd(t, app, "resize", "task-1", "middle", "2024-01-05")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left or right")
}

func TestEdit_KeepsUnsetFields(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	_, err := executeCmd(t, app, "edit", "task-3", "--progress", "40", "--assignee", "ana")
	require.NoError(t, err)

	task := getEntity(t, app, "task-3")
	assert.Equal(t, "Build", task.Name)
	assert.Equal(t, 40, task.Progress)
	assert.Equal(t, "ana", task.Assignee)
	assert.Equal(t, domain.Date(2024, time.January, 15), task.StartDate)
}

func TestEdit_InvalidProgressNeverReachesStore(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	_, err := executeCmd(t, app, "edit", "task-3", "--progress", "140")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, getEntity(t, app, "task-3").Progress)
}

func TestEdit_RemoteRejectionIsReported(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	// task-2 is a child of task-1, so this would create a cycle.
	out, err := executeCmd(t, app, "edit", "task-1", "--parent", "2")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteRejected)
	assert.Contains(t, out, "rejected")
	assert.Contains(t, out, "(reverted)")

	assert.Nil(t, getEntity(t, app, "task-1").ParentID)
}

// --- export ---

func TestExport_WritesProjectedRows(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)
	path := filepath.Join(t.TempDir(), "rows.json")

	out, err := executeCmd(t, app, "export", path, "--expand", "project-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 4 rows")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc exportDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	keys := make([]string, len(doc.Rows))
	for i, r := range doc.Rows {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"project-1", "task-1", "task-3", "project-2"}, keys)
	assert.Equal(t, "project-1", doc.Rows[1].Parent)
	assert.Equal(t, "2024-01-10", doc.Rows[1].EndDate)
	assert.True(t, doc.Rows[1].Expandable)
	assert.False(t, doc.Rows[1].Expanded)
	assert.True(t, testNow.Equal(doc.GeneratedAt))
}

func TestExport_Stdout(t *testing.T) {
	app := testApp(t)
	seedTimeline(t, app)

	out, err := executeCmd(t, app, "export", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"key": "project-1"`)
	assert.Contains(t, out, `"key": "project-2"`)
}
