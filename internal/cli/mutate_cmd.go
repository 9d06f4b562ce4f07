package cli

import (
	"fmt"

	"github.com/alexanderramin/timeline/internal/cli/formatter"
	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/alexanderramin/timeline/internal/reconcile"
	"github.com/spf13/cobra"
)

// describeOutcome renders a one-line, user-facing summary of a mutation.
func describeOutcome(out reconcile.Outcome) string {
	switch out.Status {
	case reconcile.StatusOK:
		if out.Pending {
			return formatter.Dim(fmt.Sprintf("Saving %s…", out.Key))
		}
		e := out.Entity
		return formatter.StyleGreen.Render("✔ ") + fmt.Sprintf("%s %s: %s → %s",
			out.Op, out.Key, domain.FormatDate(e.StartDate), domain.FormatDate(e.EndDate))
	case reconcile.StatusNotFound:
		return formatter.StyleYellow.Render("! ") + fmt.Sprintf("%s %s: no such row", out.Op, out.Key)
	case reconcile.StatusInvalidPatch:
		return formatter.StyleRed.Render("✖ ") + fmt.Sprintf("%s %s: %v", out.Op, out.Key, out.Err)
	default:
		msg := formatter.StyleRed.Render("✖ ") + fmt.Sprintf("%s %s rejected: %v", out.Op, out.Key, out.Err)
		if out.RolledBack {
			msg += formatter.Dim(" (reverted)")
		}
		return msg
	}
}

// outcomeError turns a failed outcome into the command's error.
func outcomeError(out reconcile.Outcome) error {
	if out.OK() {
		return nil
	}
	if out.Err != nil {
		return fmt.Errorf("%s %s: %w", out.Op, out.Key, out.Err)
	}
	return fmt.Errorf("%s %s: %s", out.Op, out.Key, out.Status)
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <row-key> <start-date>",
		Short: "Move a bar so it starts on a date, keeping its length",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseRowKey(args[0])
			if err != nil {
				return err
			}
			start, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}
			ws, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}

			out := ws.Reconciler().ApplyMove(cmd.Context(), key, start)
			fmt.Fprintln(cmd.OutOrStdout(), describeOutcome(out))
			return outcomeError(out)
		},
	}
}

func newResizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <row-key> <left|right> <date>",
		Short: "Move one edge of a bar to a date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseRowKey(args[0])
			if err != nil {
				return err
			}
			edge := domain.ResizeEdge(args[1])
			if !edge.Valid() {
				return fmt.Errorf("%w: edge must be left or right, got %q", domain.ErrValidation, args[1])
			}
			at, err := domain.ParseDate(args[2])
			if err != nil {
				return err
			}
			ws, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}

			out := ws.Reconciler().ApplyResize(cmd.Context(), key, edge, at)
			fmt.Fprintln(cmd.OutOrStdout(), describeOutcome(out))
			return outcomeError(out)
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var (
		name, start, end, assignee              string
		projectID, parentID, priority, progress int
	)

	cmd := &cobra.Command{
		Use:   "edit <row-key>",
		Short: "Edit a project or task; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseRowKey(args[0])
			if err != nil {
				return err
			}
			ws, err := app.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			cur, ok := ws.Get(key)
			if !ok {
				return fmt.Errorf("%s: %w", key, domain.ErrNotFound)
			}

			patch := patchFromEntity(cur)
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("start") {
				d, err := domain.ParseDate(start)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				patch.StartDate = &d
			}
			if flags.Changed("end") {
				d, err := domain.ParseDate(end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				patch.EndDate = &d
			}
			if flags.Changed("project") {
				patch.ProjectID = &projectID
			}
			if flags.Changed("parent") {
				patch.ParentID = &parentID
			}
			if flags.Changed("assignee") {
				patch.Assignee = &assignee
			}
			if flags.Changed("priority") {
				patch.Priority = &priority
			}
			if flags.Changed("progress") {
				patch.Progress = &progress
			}

			out := ws.Reconciler().ApplyEdit(cmd.Context(), key, patch)
			fmt.Fprintln(cmd.OutOrStdout(), describeOutcome(out))
			return outcomeError(out)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&projectID, "project", 0, "Move a task to another project")
	cmd.Flags().IntVar(&parentID, "parent", 0, "New parent task id")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress percentage (0-100)")

	return cmd
}

// patchFromEntity returns a patch carrying e's required fields, so that
// applying it unchanged is a no-op.
func patchFromEntity(e domain.Entity) domain.Patch {
	name, start, end := e.Name, e.StartDate, e.EndDate
	p := domain.Patch{Name: &name, StartDate: &start, EndDate: &end}
	if e.IsTask() {
		projectID := e.ProjectID
		p.ProjectID = &projectID
	}
	return p
}
