package timeline

import (
	"testing"
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secs(n int64) time.Time { return time.Unix(n, 0).UTC() }

func newTestViewport(t *testing.T, start, end time.Time) *Viewport {
	t.Helper()
	v, err := NewViewport(start, end, DefaultLimits())
	require.NoError(t, err)
	return v
}

func TestViewport_ZoomInIsSymmetricAboutCenter(t *testing.T) {
	v := newTestViewport(t, secs(100), secs(200))

	w := v.Zoom(true, ZoomIn, 0.1)

	assert.Equal(t, secs(105), w.Start)
	assert.Equal(t, secs(195), w.End)
	assert.Equal(t, w.Start.Sub(secs(100)), secs(200).Sub(w.End), "edges move by equal amounts")
	assert.Equal(t, secs(150), w.Center())
}

func TestViewport_ZoomOutWidens(t *testing.T) {
	v := newTestViewport(t, secs(100), secs(200))

	w := v.Zoom(true, ZoomOut, 0.1)

	assert.Equal(t, secs(95), w.Start)
	assert.Equal(t, secs(205), w.End)
}

func TestViewport_IgnoresGesturesOutsideTimeline(t *testing.T) {
	v := newTestViewport(t, secs(100), secs(200))
	before := v.Window()

	assert.Equal(t, before, v.Zoom(false, ZoomIn, 0.5))
	assert.Equal(t, before, v.Pan(false, time.Hour))
	assert.Equal(t, before, v.Window())
}

func TestViewport_PanShiftsBothEdges(t *testing.T) {
	v := newTestViewport(t, secs(100), secs(200))

	w := v.Pan(true, -30*time.Second)

	assert.Equal(t, secs(70), w.Start)
	assert.Equal(t, secs(170), w.End)
}

func TestViewport_ClampsToMinimumWidth(t *testing.T) {
	v := newTestViewport(t, secs(0), secs(120))

	for range 20 {
		v.Zoom(true, ZoomIn, 0.5)
	}

	w := v.Window()
	assert.Equal(t, time.Minute, w.Width())
	assert.Equal(t, secs(60), w.Center())
}

func TestViewport_ClampsToMaximumWidth(t *testing.T) {
	start := domain.Date(2024, time.January, 1)
	v := newTestViewport(t, start, start.AddDate(1, 0, 0))

	for range 200 {
		v.Zoom(true, ZoomOut, 0.9)
	}

	assert.Equal(t, DefaultLimits().Max, v.Window().Width())
}

func TestViewport_InvalidWindowRejected(t *testing.T) {
	_, err := NewViewport(secs(10), secs(10), DefaultLimits())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestViewport_NonPositiveFactorIsNoop(t *testing.T) {
	v := newTestViewport(t, secs(100), secs(200))
	before := v.Window()
	assert.Equal(t, before, v.Zoom(true, ZoomIn, 0))
	assert.Equal(t, before, v.Zoom(true, ZoomOut, -1))
}

func TestViewport_CustomLimits(t *testing.T) {
	v, err := NewViewport(secs(0), secs(10), Limits{Min: 5 * time.Second, Max: 20 * time.Second})
	require.NoError(t, err)

	v.Zoom(true, ZoomOut, 5)
	assert.Equal(t, 20*time.Second, v.Window().Width())
}
