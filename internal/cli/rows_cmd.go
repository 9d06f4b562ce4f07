package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/timeline/internal/app"
	"github.com/alexanderramin/timeline/internal/cli/formatter"
	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/timeline"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rowsOptions selects which rows a non-interactive projection shows.
type rowsOptions struct {
	expand []string
	all    bool
}

func (o *rowsOptions) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.expand, "expand", nil, "Row-keys to expand, e.g. project-1,task-4")
	fs.BoolVar(&o.all, "all", false, "Expand every project and task")
}

// apply sets the workspace's expand state from the flags.
func (o rowsOptions) apply(ws *app.Workspace) error {
	if o.all {
		return expandAll(ws)
	}
	projects, tasks, err := splitRowKeys(o.expand)
	if err != nil {
		return err
	}
	return ws.RestoreExpandState(projects, tasks)
}

// splitRowKeys sorts raw row-keys into the project and task sets.
func splitRowKeys(raw []string) (projects, tasks []string, err error) {
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key, err := domain.ParseRowKey(s)
		if err != nil {
			return nil, nil, err
		}
		if key.IsProject() {
			projects = append(projects, key.String())
		} else {
			tasks = append(tasks, key.String())
		}
	}
	return projects, tasks, nil
}

// expandAll opens expandable rows level by level until nothing collapsed
// remains visible.
func expandAll(ws *app.Workspace) error {
	for {
		var projects, tasks []string
		collapsed := false
		for _, r := range ws.Rows() {
			if !r.Expandable {
				continue
			}
			collapsed = collapsed || !r.Expanded
			if r.Key.IsProject() {
				projects = append(projects, r.Key.String())
			} else {
				tasks = append(tasks, r.Key.String())
			}
		}
		if !collapsed {
			return nil
		}
		if err := ws.RestoreExpandState(projects, tasks); err != nil {
			return err
		}
	}
}

func newRowsCmd(app *App) *cobra.Command {
	var (
		opts  rowsOptions
		width int
	)

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Print the visible timeline rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			if err := opts.apply(ws); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := ws.Rows()
			if len(rows) == 0 {
				fmt.Fprintln(out, formatter.Dim("No projects yet. Create one with `timeline project add`."))
				return nil
			}

			win := ws.Window()
			var bars []timeline.Bar
			todayCol := -1
			if width > 0 {
				bars = timeline.Layout(rows, win, width)
				if now := app.now(); win.Contains(now) {
					todayCol = int(timeline.ColumnAt(win, width, now))
				}
				fmt.Fprintln(out, formatter.Dim(formatter.WindowLabel(win.Start, win.End)))
			}

			items := make([]formatter.TreeItem, len(rows))
			for i, r := range rows {
				detail := formatter.Dim(r.Key.String()) + "  " +
					domain.FormatDate(r.Entity.StartDate) + " → " + domain.FormatDate(r.Entity.EndDate)
				if bars != nil {
					detail += "  " + formatter.RenderStrip(bars[i], width, formatter.StripOptions{TodayCol: todayCol})
				}
				items[i] = formatter.TreeItem{
					Label:      r.Label,
					Level:      r.Depth,
					Expandable: r.Expandable,
					Expanded:   r.Expanded,
					Detail:     detail,
				}
			}
			fmt.Fprint(out, formatter.RenderTree(items))
			return nil
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().IntVar(&width, "width", 0, "Also draw bars across this many columns")

	return cmd
}

// exportDocument is the JSON shape written by the export command.
type exportDocument struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Window      exportRange `json:"window"`
	Rows        []exportRow `json:"rows"`
	Orphans     []string    `json:"orphans,omitempty"`
}

type exportRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type exportRow struct {
	Key        string `json:"key"`
	Parent     string `json:"parent,omitempty"`
	Depth      int    `json:"depth"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	ProjectID  int    `json:"project_id,omitempty"`
	Expandable bool   `json:"expandable"`
	Expanded   bool   `json:"expanded"`
	Assignee   string `json:"assignee,omitempty"`
	Priority   int    `json:"priority,omitempty"`
	Progress   int    `json:"progress"`
}

func buildExport(p timeline.Projection, win timeline.Window, now time.Time) exportDocument {
	doc := exportDocument{
		GeneratedAt: now.UTC(),
		Window:      exportRange{Start: win.Start.UTC(), End: win.End.UTC()},
		Rows:        make([]exportRow, 0, len(p.Rows)),
	}
	for _, r := range p.Rows {
		doc.Rows = append(doc.Rows, exportRow{
			Key:        r.Key.String(),
			Parent:     r.ParentKey.String(),
			Depth:      r.Depth,
			Name:       r.Entity.Name,
			StartDate:  domain.FormatDate(r.Entity.StartDate),
			EndDate:    domain.FormatDate(r.Entity.EndDate),
			ProjectID:  r.Entity.ProjectID,
			Expandable: r.Expandable,
			Expanded:   r.Expanded,
			Assignee:   r.Entity.Assignee,
			Priority:   r.Entity.Priority,
			Progress:   r.Entity.Progress,
		})
	}
	for _, o := range p.Orphans {
		doc.Orphans = append(doc.Orphans, o.Key().String())
	}
	return doc
}

func newExportCmd(app *App) *cobra.Command {
	var opts rowsOptions

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the visible rows as JSON (\"-\" for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			if err := opts.apply(ws); err != nil {
				return err
			}

			doc := buildExport(ws.Projection(), ws.Window(), app.now())
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding export: %w", err)
			}
			data = append(data, '\n')

			path := args[0]
			if path == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			// atomic.WriteFile keeps the temp file's 0600 mode on new files.
			if err := os.Chmod(path, 0o644); err != nil {
				return fmt.Errorf("chmod %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(doc.Rows), path)
			return nil
		},
	}

	opts.register(cmd.Flags())

	return cmd
}
