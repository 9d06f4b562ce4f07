package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/timeline/internal/app"
	"github.com/alexanderramin/timeline/internal/config"
	"github.com/alexanderramin/timeline/internal/reconcile"
	"github.com/alexanderramin/timeline/internal/service"
	"github.com/alexanderramin/timeline/internal/timeline"
	"github.com/spf13/cobra"
)

// App holds the collaborators shared by every command.
type App struct {
	Entities service.EntityService
	Config   config.Config
	Logger   *slog.Logger
	Metrics  reconcile.Metrics

	// Now is the clock used for the initial viewport and the today marker.
	// Nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// openWorkspace builds a Workspace from the config and loads every entity
// from the remote store into it.
func (a *App) openWorkspace(ctx context.Context) (*app.Workspace, error) {
	start, end := a.Config.InitialWindow(a.now())
	ws, err := app.New(a.Entities, app.Options{
		Logger:         a.Logger,
		Metrics:        a.Metrics,
		ZoomFactor:     a.Config.ZoomFactor,
		ClickThreshold: a.Config.ClickThresholdPx,
		Limits:         timeline.Limits{Min: a.Config.MinViewport, Max: a.Config.MaxViewport},
		Start:          start,
		End:            end,
	})
	if err != nil {
		return nil, err
	}
	if err := ws.Load(ctx, a.Entities); err != nil {
		return nil, err
	}
	return ws, nil
}

// NewRootCmd creates the top-level "timeline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "timeline",
		Short:         "Hierarchical project and task timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newRowsCmd(app),
		newExportCmd(app),
		newMoveCmd(app),
		newResizeCmd(app),
		newEditCmd(app),
		newTUICmd(app),
	)

	return root
}
