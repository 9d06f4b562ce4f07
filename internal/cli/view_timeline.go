package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timeline/internal/cli/formatter"
	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/interaction"
	"github.com/alexanderramin/timeline/internal/reconcile"
	"github.com/alexanderramin/timeline/internal/timeline"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// labelWidth is the width of the row label column, including the
	// one-cell cursor marker. The chart starts one column after it.
	labelWidth     = 28
	minChartWidth  = 10
	axisLabelEvery = 16
	// Lines of the view above the first row (the date axis).
	axisLines = 1

	mutationTimeout = 10 * time.Second
)

// mutationSentMsg carries a remote response back to the UI goroutine, where
// it is settled into the workspace.
type mutationSentMsg struct {
	resp reconcile.Response
}

// entitiesFetchedMsg carries a fresh copy of the remote entities.
type entitiesFetchedMsg struct {
	projects []domain.Entity
	tasks    []domain.Entity
	err      error
}

// fetchedEntities replays already-fetched lists as an EntitySource.
type fetchedEntities struct {
	projects []domain.Entity
	tasks    []domain.Entity
}

func (f fetchedEntities) ListProjects(context.Context) ([]domain.Entity, error) {
	return f.projects, nil
}

func (f fetchedEntities) ListTasks(context.Context) ([]domain.Entity, error) {
	return f.tasks, nil
}

// barPress is a left-button press on a drag-enabled bar, completed into a
// move or resize drop when the button is released.
type barPress struct {
	key    domain.RowKey
	x      int
	kind   interaction.DropKind
	edge   domain.ResizeEdge
	window timeline.Window
	width  int
}

// timelineView draws the projected rows against the viewport and turns
// mouse and key input into pointer events, drops and viewport gestures.
type timelineView struct {
	state *SharedState
	keys  timelineKeyMap
	help  help.Model

	showHelp bool
	cursor   int
	selected domain.RowKey
	offset   int
	press    *barPress
	pending  int
}

func newTimelineView(state *SharedState) *timelineView {
	v := &timelineView{
		state: state,
		keys:  newTimelineKeyMap(),
		help:  help.New(),
	}
	v.help.ShowAll = true
	v.sync()
	return v
}

func (v *timelineView) Init() tea.Cmd { return nil }

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.help.Width = msg.Width
	case tea.KeyMsg:
		cmd = v.handleKey(msg)
	case tea.MouseMsg:
		cmd = v.handleMouse(msg)
	case mutationSentMsg:
		out := v.state.Workspace.Settle(msg.resp)
		v.pending--
		cmd = flash(describeOutcome(out))
	case entitiesFetchedMsg:
		cmd = v.reloaded(msg)
	}
	v.sync()
	return v, cmd
}

// ── input ────────────────────────────────────────────────────────────────────

func (v *timelineView) handleKey(msg tea.KeyMsg) tea.Cmd {
	ws := v.state.Workspace

	switch {
	case key.Matches(msg, v.keys.Help):
		v.showHelp = !v.showHelp
		return nil
	case key.Matches(msg, v.keys.ZoomIn):
		ws.Wheel(true, timeline.ZoomIn)
		return nil
	case key.Matches(msg, v.keys.ZoomOut):
		ws.Wheel(true, timeline.ZoomOut)
		return nil
	case key.Matches(msg, v.keys.PanLeft):
		ws.Pan(true, -ws.Window().Width()/10)
		return nil
	case key.Matches(msg, v.keys.PanRight):
		ws.Pan(true, ws.Window().Width()/10)
		return nil
	case key.Matches(msg, v.keys.Reload):
		return v.fetch()
	case key.Matches(msg, v.keys.Up):
		v.moveCursor(-1)
		return nil
	case key.Matches(msg, v.keys.Down):
		v.moveCursor(1)
		return nil
	}

	row, ok := v.selectedRow()
	if !ok {
		return nil
	}
	x, y := v.pointFor(row)

	switch {
	case key.Matches(msg, v.keys.Toggle):
		v.pointer(interaction.PointerDown, row.Key, x, y, interaction.ButtonLeft)
		return v.pointer(interaction.PointerUp, row.Key, x, y, interaction.ButtonLeft)
	case key.Matches(msg, v.keys.Arm):
		return v.pointer(interaction.PointerDown, row.Key, x, y, interaction.ButtonMiddle)
	case key.Matches(msg, v.keys.Edit):
		return v.pointer(interaction.PointerContext, row.Key, x, y, interaction.ButtonRight)
	case key.Matches(msg, v.keys.MoveLeft):
		return v.drop(interaction.DropEvent{Kind: interaction.DropMove, Key: row.Key, At: row.Entity.StartDate.AddDate(0, 0, -1)})
	case key.Matches(msg, v.keys.MoveRight):
		return v.drop(interaction.DropEvent{Kind: interaction.DropMove, Key: row.Key, At: row.Entity.StartDate.AddDate(0, 0, 1)})
	case key.Matches(msg, v.keys.StartLeft):
		return v.drop(resizeDrop(row, domain.EdgeLeft, -1))
	case key.Matches(msg, v.keys.StartRight):
		return v.drop(resizeDrop(row, domain.EdgeLeft, 1))
	case key.Matches(msg, v.keys.EndLeft):
		return v.drop(resizeDrop(row, domain.EdgeRight, -1))
	case key.Matches(msg, v.keys.EndRight):
		return v.drop(resizeDrop(row, domain.EdgeRight, 1))
	}
	return nil
}

func resizeDrop(row timeline.Row, edge domain.ResizeEdge, days int) interaction.DropEvent {
	at := row.Entity.EndDate
	if edge == domain.EdgeLeft {
		at = row.Entity.StartDate
	}
	return interaction.DropEvent{Kind: interaction.DropResize, Key: row.Key, Edge: edge, At: at.AddDate(0, 0, days)}
}

func (v *timelineView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	ws := v.state.Workspace
	inChart := msg.X >= labelWidth+1

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ws.Wheel(inChart, timeline.ZoomIn)
		return nil
	case tea.MouseButtonWheelDown:
		ws.Wheel(inChart, timeline.ZoomOut)
		return nil
	case tea.MouseButtonWheelLeft:
		ws.Pan(inChart, -ws.Window().Width()/20)
		return nil
	case tea.MouseButtonWheelRight:
		ws.Pan(inChart, ws.Window().Width()/20)
		return nil
	}

	rows := ws.Rows()
	idx, onRow := v.rowAt(msg.Y, len(rows))

	switch msg.Action {
	case tea.MouseActionPress:
		btn, ok := pointerButton(msg.Button)
		if !ok || !onRow {
			return nil
		}
		row := rows[idx]
		v.cursor, v.selected = idx, row.Key
		if btn == interaction.ButtonLeft && ws.DragEnabled(row.Key) {
			v.press = v.pressOn(row, msg.X)
		}
		return v.pointer(interaction.PointerDown, row.Key, msg.X, msg.Y, btn)

	case tea.MouseActionRelease:
		if p := v.press; p != nil {
			v.press = nil
			return v.finishDrag(p, msg.X)
		}
		var target domain.RowKey
		if onRow {
			target = rows[idx].Key
		}
		return v.pointer(interaction.PointerUp, target, msg.X, msg.Y, interaction.ButtonLeft)
	}
	return nil
}

func pointerButton(b tea.MouseButton) (interaction.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return interaction.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return interaction.ButtonMiddle, true
	case tea.MouseButtonRight:
		return interaction.ButtonRight, true
	}
	return 0, false
}

// pressOn classifies a press on a drag-enabled row: the first and last
// column of a bar wider than two columns grab an edge, anything else on the
// bar grabs the whole bar. Presses beside the bar start nothing.
func (v *timelineView) pressOn(row timeline.Row, x int) *barPress {
	win, width := v.state.Workspace.Window(), v.chartWidth()
	bar := timeline.Layout([]timeline.Row{row}, win, width)[0]
	col := x - labelWidth - 1
	if !bar.Visible || col < bar.StartCol || col >= bar.EndCol {
		return nil
	}
	p := &barPress{key: row.Key, x: x, kind: interaction.DropMove, window: win, width: width}
	if bar.EndCol-bar.StartCol > 2 {
		switch col {
		case bar.StartCol:
			p.kind, p.edge = interaction.DropResize, domain.EdgeLeft
		case bar.EndCol - 1:
			p.kind, p.edge = interaction.DropResize, domain.EdgeRight
		}
	}
	return p
}

// finishDrag converts the horizontal displacement of a bar press into a
// drop on the nearest day. A displacement that rounds back onto the grabbed
// date drops nothing and leaves the row armed.
func (v *timelineView) finishDrag(p *barPress, x int) tea.Cmd {
	dx := x - p.x
	if dx == 0 {
		return nil
	}
	e, ok := v.state.Workspace.Get(p.key)
	if !ok {
		return nil
	}
	base := e.EndDate
	if p.kind == interaction.DropMove || p.edge == domain.EdgeLeft {
		base = e.StartDate
	}
	shift := timeline.ShiftInstant(p.window, p.width, dx)
	at := domain.DateOf(base.Add(shift + 12*time.Hour))
	if at.Equal(base) {
		return nil
	}
	return v.drop(interaction.DropEvent{Kind: p.kind, Key: p.key, Edge: p.edge, At: at})
}

// ── intents and mutations ────────────────────────────────────────────────────

func (v *timelineView) pointer(phase interaction.Phase, key domain.RowKey, x, y int, btn interaction.Button) tea.Cmd {
	ev := interaction.PointerEvent{Phase: phase, Key: key, X: x, Y: y, Button: btn}
	var cmds []tea.Cmd
	for _, intent := range v.state.Workspace.Pointer(ev) {
		switch in := intent.(type) {
		case interaction.ToggleDragEnabled:
			if in.Enabled {
				cmds = append(cmds, flash(formatter.StyleYellow.Render("✥ ")+fmt.Sprintf("Dragging enabled for %s", in.Key)))
			} else {
				cmds = append(cmds, flash(formatter.Dim(fmt.Sprintf("Dragging disabled for %s", in.Key))))
			}
		case interaction.OpenEditPanel:
			cmds = append(cmds, v.openEditPanel(in))
		}
	}
	return tea.Batch(cmds...)
}

func (v *timelineView) drop(ev interaction.DropEvent) tea.Cmd {
	m, out, ok := v.state.Workspace.Drop(ev)
	if !ok {
		return flash(formatter.Dim(fmt.Sprintf("%s is locked. Press m to enable dragging.", ev.Key)))
	}
	return v.track(m, out)
}

// track sends a begun mutation in the background. Outcomes without a
// mutation are final and only reported.
func (v *timelineView) track(m *reconcile.Mutation, out reconcile.Outcome) tea.Cmd {
	if m == nil {
		return flash(describeOutcome(out))
	}
	v.pending++
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		return mutationSentMsg{resp: m.Send(ctx)}
	}
}

func (v *timelineView) openEditPanel(in interaction.OpenEditPanel) tea.Cmd {
	values := newEditPanelValues(in.Snapshot)
	form := editPanelForm(in.Key.Kind, values)
	return startWizardCmd(v.state, "Edit "+in.Key.String(), form, func() tea.Cmd {
		return v.track(v.state.Workspace.BeginEdit(in.Key, values.patch(in.Key.Kind)))
	})
}

func (v *timelineView) fetch() tea.Cmd {
	entities := v.state.App.Entities
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		projects, err := entities.ListProjects(ctx)
		if err != nil {
			return entitiesFetchedMsg{err: err}
		}
		tasks, err := entities.ListTasks(ctx)
		return entitiesFetchedMsg{projects: projects, tasks: tasks, err: err}
	}
}

func (v *timelineView) reloaded(msg entitiesFetchedMsg) tea.Cmd {
	if msg.err != nil {
		return flash(formatter.StyleRed.Render("✖ ") + "reload failed: " + msg.err.Error())
	}
	src := fetchedEntities{projects: msg.projects, tasks: msg.tasks}
	if err := v.state.Workspace.Load(context.Background(), src); err != nil {
		return flash(formatter.StyleRed.Render("✖ ") + err.Error())
	}
	return flash(formatter.Dim(fmt.Sprintf("Reloaded %d projects, %d tasks.", len(msg.projects), len(msg.tasks))))
}

// ── geometry ─────────────────────────────────────────────────────────────────

func (v *timelineView) chartWidth() int {
	return max(v.state.Width-labelWidth-1, minChartWidth)
}

// visibleRows is the number of row lines between the axis and the
// view's own status line.
func (v *timelineView) visibleRows() int {
	return max(v.state.ContentHeight()-axisLines-1, 1)
}

// rowAt maps a terminal line to a row index.
func (v *timelineView) rowAt(y, n int) (int, bool) {
	line := y - headerLines - axisLines
	if line < 0 || line >= v.visibleRows() {
		return 0, false
	}
	idx := v.offset + line
	return idx, idx < n
}

// pointFor returns the terminal cell at the start of row's bar, used as
// the position of keyboard-driven gestures.
func (v *timelineView) pointFor(row timeline.Row) (int, int) {
	bar := timeline.Layout([]timeline.Row{row}, v.state.Workspace.Window(), v.chartWidth())[0]
	return labelWidth + 1 + bar.StartCol, headerLines + axisLines + v.cursor - v.offset
}

func (v *timelineView) selectedRow() (timeline.Row, bool) {
	rows := v.state.Workspace.Rows()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return timeline.Row{}, false
	}
	return rows[v.cursor], true
}

func (v *timelineView) moveCursor(delta int) {
	rows := v.state.Workspace.Rows()
	if len(rows) == 0 {
		return
	}
	v.cursor = min(max(v.cursor+delta, 0), len(rows)-1)
	v.selected = rows[v.cursor].Key
}

// sync keeps the cursor on the selected row across re-projections and
// scrolls it into view.
func (v *timelineView) sync() {
	rows := v.state.Workspace.Rows()
	if len(rows) == 0 {
		v.cursor, v.offset, v.selected = 0, 0, domain.RowKey{}
		return
	}
	if i := timeline.IndexOf(rows, v.selected); i >= 0 {
		v.cursor = i
	}
	v.cursor = min(max(v.cursor, 0), len(rows)-1)
	v.selected = rows[v.cursor].Key

	visible := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
	v.offset = min(v.offset, max(len(rows)-visible, 0))
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *timelineView) View() string {
	ws := v.state.Workspace
	win := ws.Window()
	width := v.chartWidth()

	lines := []string{strings.Repeat(" ", labelWidth+1) + formatter.RenderAxis(win, width, axisLabelEvery)}

	rows := ws.Rows()
	switch {
	case v.showHelp:
		lines = append(lines, "", v.help.View(v.keys))
	case len(rows) == 0:
		lines = append(lines, "", "  "+formatter.Dim("No projects yet. Create one with `timeline project add`."))
	default:
		bars := timeline.Layout(rows, win, width)
		todayCol := -1
		if now := v.state.Now(); win.Contains(now) {
			todayCol = int(timeline.ColumnAt(win, width, now))
		}
		end := min(v.offset+v.visibleRows(), len(rows))
		for i := v.offset; i < end; i++ {
			marker := " "
			if i == v.cursor {
				marker = formatter.StyleHeader.Render("›")
			}
			lines = append(lines, marker+formatter.RenderLabel(rows[i], labelWidth-1)+" "+
				formatter.RenderStrip(bars[i], width, formatter.StripOptions{
					TodayCol:    todayCol,
					DragEnabled: ws.DragEnabled(rows[i].Key),
				}))
		}
	}

	for len(lines) < axisLines+v.visibleRows() {
		lines = append(lines, "")
	}
	lines = append(lines, v.statusLine())
	return strings.Join(lines, "\n")
}

// statusLine summarizes the selected row and any unsettled mutations.
func (v *timelineView) statusLine() string {
	var parts []string
	if row, ok := v.selectedRow(); ok {
		e := row.Entity
		parts = append(parts,
			formatter.Bold(row.Key.String()),
			domain.FormatDate(e.StartDate)+" → "+domain.FormatDate(e.EndDate)+" "+
				formatter.Dim("("+formatter.DaySpan(e.StartDate, e.EndDate)+")"))
		if e.IsTask() {
			if e.Assignee != "" {
				parts = append(parts, e.Assignee)
			}
			parts = append(parts, formatter.RenderProgress(e.Progress, 8))
		}
		if badge := formatter.DragBadge(v.state.Workspace.DragEnabled(row.Key)); badge != "" {
			parts = append(parts, badge)
		}
	}
	if v.pending > 0 {
		parts = append(parts, formatter.StyleBlue.Render(fmt.Sprintf("⟳ %d saving", v.pending)))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}

func (v *timelineView) ID() ViewID               { return ViewTimeline }
func (v *timelineView) Title() string            { return "Timeline" }
func (v *timelineView) ShortHelp() []key.Binding { return v.keys.ShortHelp() }
