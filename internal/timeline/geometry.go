package timeline

import (
	"math"
	"time"
)

// Bar is a row's drawable span in column space. StartCol is inclusive and
// EndCol exclusive; both are clipped to [0, width).
type Bar struct {
	Row      Row
	StartCol int
	EndCol   int
	// Visible is false when the bar lies entirely outside the window.
	Visible bool
	// ClippedLeft/ClippedRight mark bars that continue past an edge.
	ClippedLeft  bool
	ClippedRight bool
}

// Layout maps rows onto a strip of width columns covering w. Every visible
// bar is at least one column wide.
func Layout(rows []Row, w Window, width int) []Bar {
	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = layoutRow(r, w, width)
	}
	return bars
}

func layoutRow(r Row, w Window, width int) Bar {
	b := Bar{Row: r}
	if width <= 0 || !r.BarEnd.After(w.Start) || !r.BarStart.Before(w.End) {
		return b
	}
	start := ColumnAt(w, width, r.BarStart)
	end := ColumnAt(w, width, r.BarEnd)
	b.ClippedLeft = start < 0
	b.ClippedRight = end > float64(width)
	b.StartCol = int(math.Floor(math.Max(start, 0)))
	b.EndCol = int(math.Ceil(math.Min(end, float64(width))))
	if b.EndCol <= b.StartCol {
		b.EndCol = b.StartCol + 1
	}
	if b.StartCol >= width {
		b.StartCol = width - 1
		b.EndCol = width
	}
	b.Visible = true
	return b
}

// ColumnAt converts an instant to a fractional column. Values outside
// [0, width] lie off-screen.
func ColumnAt(w Window, width int, t time.Time) float64 {
	span := float64(w.Width())
	if span <= 0 {
		return 0
	}
	return float64(t.Sub(w.Start)) / span * float64(width)
}

// InstantAt converts a column back to the instant at its left edge.
func InstantAt(w Window, width int, col int) time.Time {
	if width <= 0 {
		return w.Start
	}
	offset := float64(w.Width()) * float64(col) / float64(width)
	return w.Start.Add(time.Duration(offset))
}

// ShiftInstant converts a horizontal pixel/column displacement into a time
// offset at the window's current scale.
func ShiftInstant(w Window, width int, dx int) time.Duration {
	if width <= 0 {
		return 0
	}
	return time.Duration(float64(w.Width()) * float64(dx) / float64(width))
}
