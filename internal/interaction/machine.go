// Package interaction classifies pointer gestures on timeline rows into
// intents: click-to-toggle, middle-click drag arming, context-menu editing,
// and gated move/resize drops.
package interaction

import (
	"math"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/timeline"
)

// DefaultClickThreshold is the pointer displacement, in pixels, at or above
// which a press/release pair is no longer a click.
const DefaultClickThreshold = 5.0

// State is the click-tracking state of the machine.
type State int

const (
	StateIdle State = iota
	StateArmedClick
)

func (s State) String() string {
	if s == StateArmedClick {
		return "armed_click"
	}
	return "idle"
}

// Resolver looks up the entity behind a row-key.
type Resolver interface {
	Get(key domain.RowKey) (domain.Entity, bool)
	HasChildren(key domain.RowKey) bool
}

// Machine is the interaction state machine. It is the single writer of the
// expand state and the drag flags it is given.
type Machine struct {
	resolver  Resolver
	expand    *timeline.ExpandState
	drag      *timeline.DragState
	threshold float64

	state  State
	origin domain.RowKey
	ox, oy int
}

// Option configures a Machine.
type Option func(*Machine)

// WithClickThreshold overrides DefaultClickThreshold.
func WithClickThreshold(px float64) Option {
	return func(m *Machine) {
		if px > 0 {
			m.threshold = px
		}
	}
}

// New creates a machine in the idle state.
func New(resolver Resolver, expand *timeline.ExpandState, drag *timeline.DragState, opts ...Option) *Machine {
	m := &Machine{
		resolver:  resolver,
		expand:    expand,
		drag:      drag,
		threshold: DefaultClickThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current click-tracking state.
func (m *Machine) State() State { return m.state }

// Handle feeds one pointer event through the machine.
func (m *Machine) Handle(ev PointerEvent) []Intent {
	switch {
	case ev.Phase == PointerContext || (ev.Phase == PointerDown && ev.Button == ButtonRight):
		return m.openEditor(ev.Key)

	case ev.Phase == PointerDown && ev.Button == ButtonMiddle:
		m.reset()
		enabled := m.drag.Toggle(ev.Key)
		return []Intent{ToggleDragEnabled{Key: ev.Key, Enabled: enabled}}

	case ev.Phase == PointerDown && ev.Button == ButtonLeft:
		// A press on an armed row belongs to the adapter's drag protocol.
		if m.drag.DragEnabled(ev.Key) {
			m.reset()
			return nil
		}
		m.state = StateArmedClick
		m.origin = ev.Key
		m.ox, m.oy = ev.X, ev.Y
		return nil

	case ev.Phase == PointerUp && ev.Button == ButtonLeft:
		return m.release(ev)
	}
	return nil
}

func (m *Machine) release(ev PointerEvent) []Intent {
	if m.state != StateArmedClick {
		return nil
	}
	origin := m.origin
	dist := math.Hypot(float64(ev.X-m.ox), float64(ev.Y-m.oy))
	m.reset()

	if ev.Key != origin || dist >= m.threshold {
		return nil
	}
	if !m.resolver.HasChildren(origin) {
		return nil
	}
	return []Intent{ToggleExpand{Key: origin, Expanded: m.expand.Toggle(origin)}}
}

func (m *Machine) openEditor(key domain.RowKey) []Intent {
	e, ok := m.resolver.Get(key)
	if !ok {
		return nil
	}
	return []Intent{OpenEditPanel{Key: key, Snapshot: e}}
}

// Drop handles the completion of a native bar drag or edge drag. It is
// honored only while the row is drag-enabled; the permission is consumed by
// the drop whatever the later outcome.
func (m *Machine) Drop(ev DropEvent) []Intent {
	if !m.drag.DragEnabled(ev.Key) {
		return nil
	}
	m.drag.Reset(ev.Key)
	switch ev.Kind {
	case DropMove:
		return []Intent{Move{Key: ev.Key, Start: ev.At}}
	case DropResize:
		return []Intent{Resize{Key: ev.Key, Edge: ev.Edge, At: ev.At}}
	}
	return nil
}

func (m *Machine) reset() {
	m.state = StateIdle
	m.origin = domain.RowKey{}
	m.ox, m.oy = 0, 0
}
