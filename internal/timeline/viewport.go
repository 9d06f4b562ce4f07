package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Width returns End - Start.
func (w Window) Width() time.Duration { return w.End.Sub(w.Start) }

// Center returns the midpoint of the window.
func (w Window) Center() time.Time { return w.Start.Add(w.Width() / 2) }

// Contains reports whether t lies in [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Limits bounds the viewport width to keep zoom arithmetic sane.
type Limits struct {
	Min time.Duration
	Max time.Duration
}

// DefaultLimits allows windows between one minute and fifty years.
func DefaultLimits() Limits {
	return Limits{Min: time.Minute, Max: 50 * 365 * 24 * time.Hour}
}

func (l Limits) normalized() Limits {
	def := DefaultLimits()
	if l.Min <= 0 {
		l.Min = def.Min
	}
	if l.Max <= 0 {
		l.Max = def.Max
	}
	return l
}

func (l Limits) clamp(d time.Duration) time.Duration {
	return min(max(d, l.Min), l.Max)
}

// ZoomDirection selects narrowing or widening.
type ZoomDirection int

const (
	ZoomIn ZoomDirection = iota
	ZoomOut
)

func (d ZoomDirection) String() string {
	if d == ZoomOut {
		return "out"
	}
	return "in"
}

// Viewport is the visible time window. Its bounds change only through Zoom
// and Pan.
type Viewport struct {
	win    Window
	limits Limits
}

// NewViewport creates a viewport over [start, end). The width is clamped
// into limits around the window's center.
func NewViewport(start, end time.Time, limits Limits) (*Viewport, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: viewport start %s must precede end %s",
			domain.ErrValidation, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	v := &Viewport{limits: limits.normalized()}
	v.resize(Window{Start: start, End: end}, end.Sub(start))
	return v, nil
}

// Window returns the current bounds.
func (v *Viewport) Window() Window { return v.win }

// Limits returns the width bounds in effect.
func (v *Viewport) Limits() Limits { return v.limits }

// Zoom scales the window symmetrically about its center: the half-width is
// multiplied by (1 - factor) when zooming in and (1 + factor) when zooming
// out. Gestures outside the timeline (inside == false) and non-positive
// factors leave the viewport unchanged.
func (v *Viewport) Zoom(inside bool, dir ZoomDirection, factor float64) Window {
	if !inside || factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return v.win
	}
	scale := 1 + factor
	if dir == ZoomIn {
		scale = 1 - factor
	}
	half := float64(v.win.Width()/2) * scale
	width := time.Duration(math.MaxInt64)
	if 2*half < float64(math.MaxInt64) {
		width = time.Duration(2 * half)
	}
	v.resize(v.win, width)
	return v.win
}

// Pan shifts both edges by delta. Gestures outside the timeline are ignored.
func (v *Viewport) Pan(inside bool, delta time.Duration) Window {
	if !inside || delta == 0 {
		return v.win
	}
	v.win = Window{Start: v.win.Start.Add(delta), End: v.win.End.Add(delta)}
	return v.win
}

// resize sets the width (clamped) while keeping around's center fixed.
func (v *Viewport) resize(around Window, width time.Duration) {
	half := v.limits.clamp(width) / 2
	center := around.Center()
	v.win = Window{Start: center.Add(-half), End: center.Add(half)}
}
