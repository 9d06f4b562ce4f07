package cli

import "github.com/charmbracelet/bubbles/key"

// timelineKeyMap is the timeline view's key bindings. It implements
// help.KeyMap.
type timelineKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Arm        key.Binding
	Edit       key.Binding
	MoveLeft   key.Binding
	MoveRight  key.Binding
	StartLeft  key.Binding
	StartRight key.Binding
	EndLeft    key.Binding
	EndRight   key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	PanLeft    key.Binding
	PanRight   key.Binding
	Reload     key.Binding
	Help       key.Binding
}

func newTimelineKeyMap() timelineKeyMap {
	return timelineKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		Arm:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "drag on/off")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		MoveLeft:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move -1d")),
		MoveRight:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move +1d")),
		StartLeft:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "start -1d")),
		StartRight: key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "start +1d")),
		EndLeft:    key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "end -1d")),
		EndRight:   key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "end +1d")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		PanLeft:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "earlier")),
		PanRight:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "later")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k timelineKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Arm, k.Edit, k.MoveRight, k.ZoomIn, k.Help}
}

func (k timelineKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Reload},
		{k.Arm, k.MoveLeft, k.MoveRight, k.Edit},
		{k.StartLeft, k.StartRight, k.EndLeft, k.EndRight},
		{k.ZoomIn, k.ZoomOut, k.PanLeft, k.PanRight},
	}
}
