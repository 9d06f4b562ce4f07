package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/timeline/internal/cli/formatter"
	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, endDate, err := parseDateRange(start, end)
			if err != nil {
				return err
			}

			p := &domain.Entity{
				Kind:      domain.KindProject,
				Name:      name,
				StartDate: startDate,
				EndDate:   endDate,
			}
			if err := app.Entities.CreateProject(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.Key())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Entities.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, formatter.Dim("No projects yet. Create one with `timeline project add`."))
				return nil
			}

			now := app.now()
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{
					p.Key().String(),
					p.Name,
					domain.FormatDate(p.StartDate),
					domain.FormatDate(p.EndDate),
					formatter.DaySpan(p.StartDate, p.EndDate),
					formatter.RelativeDateFrom(p.EndDate, now),
				})
			}
			fmt.Fprint(out, formatter.RenderTable(
				[]string{"KEY", "NAME", "START", "END", "SPAN", "ENDS"}, rows))
			return nil
		},
	}
}

// parseDateRange parses both bounds of a date range given on the command line.
func parseDateRange(start, end string) (startDate, endDate time.Time, err error) {
	startDate, err = domain.ParseDate(start)
	if err != nil {
		return startDate, endDate, fmt.Errorf("--start: %w", err)
	}
	endDate, err = domain.ParseDate(end)
	if err != nil {
		return startDate, endDate, fmt.Errorf("--end: %w", err)
	}
	return startDate, endDate, nil
}
