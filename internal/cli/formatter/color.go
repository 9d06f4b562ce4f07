package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorBg     = lipgloss.Color("#282828")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// levelColors bands rows by depth: projects, top-level tasks, subtasks, and
// everything deeper.
var levelColors = []lipgloss.Color{ColorPurple, ColorBlue, ColorAqua, ColorGreen}

// LevelColor returns the bar color for a row at the given depth.
func LevelColor(depth int) lipgloss.Color {
	if depth < 0 {
		depth = 0
	}
	if depth >= len(levelColors) {
		depth = len(levelColors) - 1
	}
	return levelColors[depth]
}

// LevelStyle returns a foreground style in the row's level color.
func LevelStyle(depth int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LevelColor(depth))
}

// DragBadge marks a row whose bar can currently be moved or resized.
func DragBadge(enabled bool) string {
	if !enabled {
		return ""
	}
	return StyleYellow.Render("✥ drag")
}

// ExpandMarker returns the "+"/"-" suffix shown after expandable labels.
func ExpandMarker(expandable, expanded bool) string {
	switch {
	case !expandable:
		return ""
	case expanded:
		return " -"
	default:
		return " +"
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
