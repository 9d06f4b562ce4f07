package interaction

import (
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
)

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	}
	return "unknown"
}

// Phase is the pointer event type delivered by the input adapter.
type Phase int

const (
	PointerDown Phase = iota
	PointerUp
	// PointerContext is a context-activate gesture (right-click).
	PointerContext
)

// PointerEvent is a raw pointer event over a timeline row.
type PointerEvent struct {
	Phase  Phase
	Key    domain.RowKey
	X, Y   int
	Button Button
}

// DropKind distinguishes the completion events of the adapter's native
// drag protocol.
type DropKind int

const (
	DropMove DropKind = iota
	DropResize
)

// DropEvent reports that a bar drag or edge drag finished at At.
type DropEvent struct {
	Kind DropKind
	Key  domain.RowKey
	At   time.Time
	Edge domain.ResizeEdge
}

// Intent is an action emitted by the machine for the workspace to carry out.
type Intent interface {
	RowKey() domain.RowKey
}

// ToggleExpand reports that a row was expanded or collapsed.
type ToggleExpand struct {
	Key      domain.RowKey
	Expanded bool
}

// ToggleDragEnabled reports a change of a row's drag permission.
type ToggleDragEnabled struct {
	Key     domain.RowKey
	Enabled bool
}

// OpenEditPanel asks for the edit panel with a snapshot of the row's entity.
type OpenEditPanel struct {
	Key      domain.RowKey
	Snapshot domain.Entity
}

// Move asks to translate a row's bar so that it starts at Start.
type Move struct {
	Key   domain.RowKey
	Start time.Time
}

// Resize asks to move one edge of a row's bar to At.
type Resize struct {
	Key  domain.RowKey
	Edge domain.ResizeEdge
	At   time.Time
}

func (i ToggleExpand) RowKey() domain.RowKey      { return i.Key }
func (i ToggleDragEnabled) RowKey() domain.RowKey { return i.Key }
func (i OpenEditPanel) RowKey() domain.RowKey     { return i.Key }
func (i Move) RowKey() domain.RowKey              { return i.Key }
func (i Resize) RowKey() domain.RowKey            { return i.Key }
