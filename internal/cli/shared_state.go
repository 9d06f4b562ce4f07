package cli

import (
	"time"

	"github.com/alexanderramin/timeline/internal/app"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App       *App
	Workspace *app.Workspace

	// Terminal dimensions
	Width  int
	Height int
}

// Now returns the current time from the App's clock.
func (s *SharedState) Now() time.Time {
	return s.App.now()
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
