package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a rendered row tree.
type TreeItem struct {
	Label string
	Level int
	// Expandable/Expanded drive the "+"/"-" marker.
	Expandable bool
	Expanded   bool
	Detail     string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items, given in depth-first order, as an indented tree
// with box-drawing connectors. Labels are colored by level and details are
// aligned in a column to the right.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	last := lastSiblings(items)
	contents := make([]string, len(items))
	widest := 0
	// open[l] is true while the ancestor at level l still has siblings below.
	var open []bool

	for i, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for l := 1; l < item.Level; l++ {
				if l < len(open) && open[l] {
					prefix.WriteString(treePipe)
				} else {
					prefix.WriteString(treeBlank)
				}
			}
			if last[i] {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		for len(open) <= item.Level {
			open = append(open, false)
		}
		open[item.Level] = !last[i]

		label := LevelStyle(item.Level).Render(item.Label) +
			Dim(ExpandMarker(item.Expandable, item.Expanded))
		contents[i] = prefix.String() + label
		widest = max(widest, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		if item.Detail == "" {
			b.WriteString(contents[i] + "\n")
			continue
		}
		b.WriteString(PadRight(contents[i], widest) + "  " + item.Detail + "\n")
	}
	return b.String()
}

// lastSiblings reports, for each item, whether no later sibling follows it
// under the same parent.
func lastSiblings(items []TreeItem) []bool {
	last := make([]bool, len(items))
	for i, item := range items {
		last[i] = true
		for _, next := range items[i+1:] {
			if next.Level < item.Level {
				break
			}
			if next.Level == item.Level {
				last[i] = false
				break
			}
		}
	}
	return last
}
