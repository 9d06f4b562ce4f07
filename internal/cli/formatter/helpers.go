package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a short relative day count such as "in 3d" or
// "2w ago" measured from now.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("in %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("in %dw", days/7)
	case days > 0:
		return fmt.Sprintf("in %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DaySpan formats the inclusive number of calendar days between two dates.
func DaySpan(start, end time.Time) string {
	days := int(math.Round(end.Sub(start).Hours()/24)) + 1
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// WindowLabel describes a viewport such as "2026-09-16 → 2026-11-16 (61d)".
func WindowLabel(start, end time.Time) string {
	days := end.Sub(start).Hours() / 24
	var span string
	switch {
	case days >= 730:
		span = fmt.Sprintf("%.0fy", days/365)
	case days >= 1:
		span = fmt.Sprintf("%.0fd", days)
	default:
		span = fmt.Sprintf("%.0fh", days*24)
	}
	return fmt.Sprintf("%s → %s (%s)", start.Format("2006-01-02"), end.Format("2006-01-02"), span)
}

// Truncate shortens s to at most width visible cells, ending with "…".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// PadRight pads s with spaces to width visible cells.
func PadRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
