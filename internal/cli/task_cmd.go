package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/timeline/internal/cli/formatter"
	"github.com/alexanderramin/timeline/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and subtasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		name, start, end, assignee string
		projectID, parentID        int
		priority, progress         int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task, or a subtask with --parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, endDate, err := parseDateRange(start, end)
			if err != nil {
				return err
			}

			t := &domain.Entity{
				Kind:      domain.KindTask,
				Name:      name,
				StartDate: startDate,
				EndDate:   endDate,
				ProjectID: projectID,
				Assignee:  assignee,
				Priority:  priority,
				Progress:  progress,
			}
			if cmd.Flags().Changed("parent") {
				t.ParentID = &parentID
			}
			if err := app.Entities.CreateTask(cmd.Context(), t); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s [%s] in %s\n",
				t.Name, t.Key(), domain.ProjectKey(t.ProjectID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().IntVar(&projectID, "project", 0, "Owning project id")
	cmd.Flags().IntVar(&parentID, "parent", 0, "Parent task id (makes this a subtask)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress percentage (0-100)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var projectID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Entities.ListTasks(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				if projectID != 0 && t.ProjectID != projectID {
					continue
				}
				parent := formatter.Dim("-")
				if t.ParentID != nil {
					parent = domain.TaskKey(*t.ParentID).String()
				}
				assignee := t.Assignee
				if assignee == "" {
					assignee = formatter.Dim("-")
				}
				rows = append(rows, []string{
					t.Key().String(),
					t.Name,
					domain.ProjectKey(t.ProjectID).String(),
					parent,
					domain.FormatDate(t.StartDate) + " → " + domain.FormatDate(t.EndDate),
					assignee,
					strconv.Itoa(t.Priority),
					formatter.RenderProgress(t.Progress, 10),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, formatter.Dim("No tasks found."))
				return nil
			}
			fmt.Fprint(out, formatter.RenderTable(
				[]string{"KEY", "NAME", "PROJECT", "PARENT", "DATES", "ASSIGNEE", "PRI", "PROGRESS"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&projectID, "project", 0, "Only tasks of this project id")

	return cmd
}
