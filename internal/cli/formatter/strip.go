package formatter

import (
	"strings"

	"github.com/alexanderramin/timeline/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

// StripOptions controls how a bar strip is decorated.
type StripOptions struct {
	// TodayCol is the column of the today marker, or -1 when today is off-screen.
	TodayCol int
	// DragEnabled paints the bar in the highlight color.
	DragEnabled bool
}

const (
	barCell   = "█"
	emptyCell = " "
	todayCell = "┊"
	clipLeft  = "◀"
	clipRight = "▶"
)

// RenderStrip draws one row's bar across width columns.
func RenderStrip(bar timeline.Bar, width int, opts StripOptions) string {
	if width <= 0 {
		return ""
	}

	barStyle := LevelStyle(bar.Row.Depth)
	if opts.DragEnabled {
		barStyle = StyleYellow.Bold(true)
	}
	todayStyle := StyleRed

	var b strings.Builder
	for col := 0; col < width; col++ {
		inBar := bar.Visible && col >= bar.StartCol && col < bar.EndCol
		switch {
		case inBar && col == bar.StartCol && bar.ClippedLeft:
			b.WriteString(barStyle.Render(clipLeft))
		case inBar && col == bar.EndCol-1 && bar.ClippedRight:
			b.WriteString(barStyle.Render(clipRight))
		case inBar:
			b.WriteString(barStyle.Render(barCell))
		case col == opts.TodayCol:
			b.WriteString(todayStyle.Render(todayCell))
		default:
			b.WriteString(emptyCell)
		}
	}
	return b.String()
}

// RenderLabel draws the fixed-width label column for a row: indentation by
// depth, the label in its level color and the expand marker.
func RenderLabel(row timeline.Row, width int) string {
	indent := strings.Repeat("  ", row.Depth)
	marker := ExpandMarker(row.Expandable, row.Expanded)
	text := Truncate(indent+row.Label+marker, width)
	return PadRight(LevelStyle(row.Depth).Render(text), width)
}

// RenderAxis draws a date ruler of width columns with a tick label roughly
// every labelEvery columns.
func RenderAxis(w timeline.Window, width, labelEvery int) string {
	if width <= 0 {
		return ""
	}
	if labelEvery < 12 {
		labelEvery = 12
	}
	layout := "2006-01-02"
	if w.Width().Hours() < 72 {
		layout = "01-02 15:04"
	}

	cells := []rune(strings.Repeat(" ", width))
	for col := 0; col+len(layout) <= width; col += labelEvery {
		label := timeline.InstantAt(w, width, col).Format(layout)
		copy(cells[col:], []rune(label))
	}
	return lipgloss.NewStyle().Foreground(ColorDim).Render(string(cells))
}
