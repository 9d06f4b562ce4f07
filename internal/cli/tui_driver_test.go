package cli

import (
	"regexp"
	"testing"

	"github.com/alexanderramin/timeline/internal/app"
	"github.com/alexanderramin/timeline/internal/teatest"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences so screen assertions are
// terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

const (
	testWidth  = 120
	testHeight = 40
)

// TestDriver wraps teatest.Driver with timeline-specific inspection methods.
// It provides access to appModel internals (view stack, shared state, the
// workspace) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver loads the App's entities into a workspace, constructs the
// appModel at a fixed terminal size and drains Init().
func NewTestDriver(t *testing.T, a *App) *TestDriver {
	t.Helper()

	ws, err := a.openWorkspace(t.Context())
	require.NoError(t, err)

	m := newAppModel(&SharedState{App: a, Workspace: ws})
	d := teatest.New(t, m, teatest.WithSize(testWidth, testHeight))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

// ── Timeline-specific inspection ─────────────────────────────────────────────

func (d *TestDriver) appModel() *appModel {
	m := d.Model.(appModel)
	return &m
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	v := d.appModel().activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Workspace returns the engine behind the TUI.
func (d *TestDriver) Workspace() *app.Workspace {
	return d.appModel().state.Workspace
}

// Timeline returns the timeline view at the bottom of the stack.
func (d *TestDriver) Timeline() *timelineView {
	return d.appModel().viewStack[0].(*timelineView)
}

// Flash returns the transient status message, without styling.
func (d *TestDriver) Flash() string {
	return stripANSI(d.appModel().flash)
}

// Screen returns the rendered output without styling.
func (d *TestDriver) Screen() string {
	return stripANSI(d.View())
}

// wizard returns the form view on top of the stack.
func (d *TestDriver) wizard() *wizardView {
	d.T.Helper()
	m := d.appModel()
	w, ok := m.activeView().(*wizardView)
	require.True(d.T, ok, "top view is %T, not a form", m.activeView())
	return w
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// RowY returns the terminal line of the i-th visible row.
func RowY(i int) int {
	return headerLines + axisLines + i
}

// ChartX returns the terminal column of chart column col.
func ChartX(col int) int {
	return labelWidth + 1 + col
}
