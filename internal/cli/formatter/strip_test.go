package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/timeline"
	"github.com/stretchr/testify/assert"
)

func TestRenderStrip(t *testing.T) {
	bar := timeline.Bar{StartCol: 2, EndCol: 5, Visible: true}

	assert.Equal(t, "  ███ ┊  ", stripANSI(RenderStrip(bar, 9, StripOptions{TodayCol: 6})))
	assert.Equal(t, "  ███    ", stripANSI(RenderStrip(bar, 9, StripOptions{TodayCol: -1})))
	assert.Empty(t, RenderStrip(bar, 0, StripOptions{TodayCol: -1}))
}

func TestRenderStrip_BarCoversTodayMarker(t *testing.T) {
	bar := timeline.Bar{StartCol: 0, EndCol: 4, Visible: true}
	assert.Equal(t, "████", stripANSI(RenderStrip(bar, 4, StripOptions{TodayCol: 2})))
}

func TestRenderStrip_ClippedEdges(t *testing.T) {
	bar := timeline.Bar{StartCol: 0, EndCol: 5, Visible: true, ClippedLeft: true, ClippedRight: true}
	assert.Equal(t, "◀███▶", stripANSI(RenderStrip(bar, 5, StripOptions{TodayCol: -1})))
}

func TestRenderStrip_InvisibleBar(t *testing.T) {
	got := stripANSI(RenderStrip(timeline.Bar{}, 6, StripOptions{TodayCol: -1}))
	assert.Equal(t, strings.Repeat(" ", 6), got)
}

func TestRenderLabel(t *testing.T) {
	row := timeline.Row{
		Key:        domain.TaskKey(3),
		Depth:      1,
		Label:      "Design",
		Expandable: true,
	}
	assert.Equal(t, "  Design +  ", stripANSI(RenderLabel(row, 12)))
	assert.Equal(t, "  Des…", stripANSI(RenderLabel(row, 6)))
}

func TestRenderAxis(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	w := timeline.Window{Start: start, End: start.AddDate(0, 0, 30)}

	got := stripANSI(RenderAxis(w, 30, 20))
	assert.Len(t, []rune(got), 30)
	assert.True(t, strings.HasPrefix(got, "2026-03-01"))
}
