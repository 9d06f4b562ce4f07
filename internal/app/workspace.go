// Package app wires the timeline engine together. A Workspace owns the entity
// store, the expand and drag state, the viewport, the interaction machine and
// the reconciler, and is driven from a single goroutine.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/interaction"
	"github.com/alexanderramin/timeline/internal/reconcile"
	"github.com/alexanderramin/timeline/internal/store"
	"github.com/alexanderramin/timeline/internal/timeline"
)

// Options configures a Workspace. Zero values fall back to defaults.
type Options struct {
	Logger         *slog.Logger
	Metrics        reconcile.Metrics
	ZoomFactor     float64
	ClickThreshold float64
	Limits         timeline.Limits
	// Initial viewport; both zero means today ±1 month.
	Start, End time.Time
}

const defaultZoomFactor = 0.1

// Workspace is the timeline engine instance behind one view.
type Workspace struct {
	store    *store.Store
	expand   *timeline.ExpandState
	drag     *timeline.DragState
	viewport *timeline.Viewport
	machine  *interaction.Machine
	rec      *reconcile.Reconciler
	logger   *slog.Logger

	zoomFactor float64
	orphans    map[domain.RowKey]bool
}

// New creates an empty workspace whose mutations go to sink.
func New(sink reconcile.UpdateSink, opts Options) (*Workspace, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start, end := opts.Start, opts.End
	if start.IsZero() && end.IsZero() {
		now := time.Now()
		start, end = now.AddDate(0, -1, 0), now.AddDate(0, 1, 0)
	}
	vp, err := timeline.NewViewport(start, end, opts.Limits)
	if err != nil {
		return nil, fmt.Errorf("initial viewport: %w", err)
	}
	factor := opts.ZoomFactor
	if factor <= 0 || factor >= 1 {
		factor = defaultZoomFactor
	}

	s := store.New()
	expand := timeline.NewExpandState()
	drag := timeline.NewDragState()

	var machineOpts []interaction.Option
	if opts.ClickThreshold > 0 {
		machineOpts = append(machineOpts, interaction.WithClickThreshold(opts.ClickThreshold))
	}

	return &Workspace{
		store:      s,
		expand:     expand,
		drag:       drag,
		viewport:   vp,
		machine:    interaction.New(s, expand, drag, machineOpts...),
		rec:        reconcile.New(s, sink, reconcile.WithLogger(logger), reconcile.WithMetrics(opts.Metrics)),
		logger:     logger,
		zoomFactor: factor,
		orphans:    make(map[domain.RowKey]bool),
	}, nil
}

// Load fetches every project and task from src into the store. Projects keep
// the order src returns them in.
func (w *Workspace) Load(ctx context.Context, src EntitySource) error {
	projects, err := src.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	tasks, err := src.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	for _, p := range projects {
		w.store.Upsert(p)
	}
	for _, t := range tasks {
		w.store.Upsert(t)
	}
	w.logger.Debug("workspace_loaded", "projects", len(projects), "tasks", len(tasks))
	return nil
}

// Projection derives the visible rows from the current state. Tasks the
// hierarchy cannot place are logged once each.
func (w *Workspace) Projection() timeline.Projection {
	p := timeline.Project(w.store, w.expand, w.drag)
	for _, o := range p.Orphans {
		if w.orphans[o.Key()] {
			continue
		}
		w.orphans[o.Key()] = true
		attrs := []any{"task_id", o.ID, "project_id", o.ProjectID}
		if o.ParentID != nil {
			attrs = append(attrs, "parent_id", *o.ParentID)
		}
		w.logger.Warn("orphan_reference", attrs...)
	}
	return p
}

// Rows is Projection().Rows.
func (w *Workspace) Rows() []timeline.Row {
	return w.Projection().Rows
}

// Get returns the stored entity for key.
func (w *Workspace) Get(key domain.RowKey) (domain.Entity, bool) {
	return w.store.Get(key)
}

// Len returns the number of stored entities.
func (w *Workspace) Len() int { return w.store.Len() }

// Window returns the current viewport.
func (w *Workspace) Window() timeline.Window { return w.viewport.Window() }

// Wheel zooms about the viewport center by the configured factor.
func (w *Workspace) Wheel(inside bool, dir timeline.ZoomDirection) timeline.Window {
	return w.viewport.Zoom(inside, dir, w.zoomFactor)
}

// Pan shifts the viewport by delta.
func (w *Workspace) Pan(inside bool, delta time.Duration) timeline.Window {
	return w.viewport.Pan(inside, delta)
}

// Pointer feeds a pointer event to the interaction machine.
func (w *Workspace) Pointer(ev interaction.PointerEvent) []interaction.Intent {
	return w.machine.Handle(ev)
}

// ClickState is the interaction machine's click-tracking state.
func (w *Workspace) ClickState() interaction.State { return w.machine.State() }

// DragEnabled reports whether move/resize drops on key are honored.
func (w *Workspace) DragEnabled(key domain.RowKey) bool { return w.drag.DragEnabled(key) }

// IsExpanded reports whether key currently shows its children.
func (w *Workspace) IsExpanded(key domain.RowKey) bool { return w.expand.IsExpanded(key) }

// ExpandState returns a copy of the expand state.
func (w *Workspace) ExpandState() *timeline.ExpandState { return w.expand.Clone() }

// RestoreExpandState replaces the expand state, e.g. from saved row-keys.
func (w *Workspace) RestoreExpandState(projects, tasks []string) error {
	parsed, err := timeline.ParseExpandState(projects, tasks)
	if err != nil {
		return err
	}
	w.expand.Replace(parsed)
	return nil
}

// Drop handles a finished bar or edge drag. When the row is drag-enabled the
// mutation is applied locally and returned for the caller to Send; ok is
// false when the drop was ignored.
func (w *Workspace) Drop(ev interaction.DropEvent) (m *reconcile.Mutation, out reconcile.Outcome, ok bool) {
	for _, intent := range w.machine.Drop(ev) {
		switch in := intent.(type) {
		case interaction.Move:
			m, out = w.rec.BeginMove(in.Key, in.Start)
			return m, out, true
		case interaction.Resize:
			m, out = w.rec.BeginResize(in.Key, in.Edge, in.At)
			return m, out, true
		}
	}
	return nil, reconcile.Outcome{}, false
}

// BeginEdit applies an edit-panel patch locally and returns the mutation to
// Send. A nil mutation means the outcome is already final.
func (w *Workspace) BeginEdit(key domain.RowKey, patch domain.Patch) (*reconcile.Mutation, reconcile.Outcome) {
	return w.rec.BeginEdit(key, patch)
}

// Settle reconciles a remote response on the owning goroutine.
func (w *Workspace) Settle(resp reconcile.Response) reconcile.Outcome {
	return w.rec.Settle(resp)
}

// Commit sends a begun mutation and settles it inline. It passes through
// outcomes that never produced a mutation.
func (w *Workspace) Commit(ctx context.Context, m *reconcile.Mutation, out reconcile.Outcome) reconcile.Outcome {
	if m == nil {
		return out
	}
	return w.rec.Settle(m.Send(ctx))
}

// Reconciler exposes the mutation reconciler for non-gesture callers such as
// command-line edits, which are not gated by drag permission.
func (w *Workspace) Reconciler() *reconcile.Reconciler { return w.rec }
