package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewID tells the app model how to route keys to a view.
type ViewID int

const (
	// ViewTimeline is the chart at the bottom of the stack.
	ViewTimeline ViewID = iota
	// ViewForm is the edit panel. It receives every key, including q and esc.
	ViewForm
)

// View is one entry of the app model's view stack.
type View interface {
	tea.Model
	ID() ViewID
	// Title is the view's breadcrumb in the header.
	Title() string
	// ShortHelp lists the hints shown in the status bar when no flash is up.
	ShortHelp() []key.Binding
}
