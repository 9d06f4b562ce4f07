package cli

import tea "github.com/charmbracelet/bubbletea"

// pushViewMsg puts a view, in practice the edit panel, on top of the
// timeline.
type pushViewMsg struct {
	view View
}

// flashMsg replaces the status bar hints until the next key press.
type flashMsg struct {
	text string
}

// wizardCompleteMsg pops the edit panel. nextCmd carries whatever the panel
// started on submit, usually the update send, or a "Cancelled." flash.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func flash(text string) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text} }
}
