package main

import (
	"github.com/spf13/cobra"

	"task-tracker/pkg/task"
	"task-tracker/pkg/tracker"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task operations",
	}
	cmd.AddCommand(
		newTaskCreateCmd(a),
		newTaskListCmd(a),
		newTaskGetCmd(a),
		newTaskUpdateCmd(a),
		newTaskDeleteCmd(a),
		newTaskCompleteCmd(a),
		newTaskStatusCmd(a),
		newTaskAssignCmd(a),
	)
	return cmd
}

func taskInputFlags(cmd *cobra.Command, in *tracker.TaskInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "task title")
	cmd.Flags().StringVar(&in.Description, "description", "", "task description")
	cmd.Flags().StringVar(&in.Category, "category", "", "task category")
	cmd.Flags().Int64Var(&in.DurationMinutes, "minutes", 0, "minutes until the task is due")
}

func newTaskCreateCmd(a *app) *cobra.Command {
	var in tracker.TaskInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task owned by --as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.svc.CreateTask(cmd.Context(), a.call(), in)
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
	taskInputFlags(cmd, &in)
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	var (
		status, category, assignee, query string
		pastDue                           bool
		format                            string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally through one filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				tasks []task.Task
				err   error
			)
			switch {
			case pastDue:
				tasks, err = a.svc.PastDueTasks(ctx, a.call())
			case cmd.Flags().Changed("assignee"):
				tasks, err = a.svc.TasksByAssignee(ctx, assignee)
			case cmd.Flags().Changed("status"):
				tasks, err = a.svc.TasksByStatus(ctx, status)
			case cmd.Flags().Changed("category"):
				tasks, err = a.svc.TasksByCategory(ctx, category)
			case cmd.Flags().Changed("search"):
				tasks, err = a.svc.SearchTasks(ctx, query)
			default:
				tasks, err = a.svc.ListTasks(ctx)
			}
			if err != nil {
				return err
			}
			if format == "short" {
				printShortTasks(tasks)
				return nil
			}
			return printJSON(tasks)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "status, compared case-insensitively")
	cmd.Flags().StringVar(&category, "category", "", "exact category")
	cmd.Flags().StringVar(&assignee, "assignee", "", "employee id")
	cmd.Flags().StringVar(&query, "search", "", "text in title or description")
	cmd.Flags().BoolVar(&pastDue, "past-due", false, "only incomplete tasks past their due time")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or short")
	return cmd
}

func newTaskGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a task created by --as",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.GetTask(cmd.Context(), a.call(), args[0])
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
}

func newTaskUpdateCmd(a *app) *cobra.Command {
	var in tracker.TaskInput
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a task's fields and restart its due clock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.UpdateTask(cmd.Context(), a.call(), args[0], in)
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
	taskInputFlags(cmd, &in)
	return cmd
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.DeleteTask(cmd.Context(), a.call(), args[0])
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
}

func newTaskCompleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task Completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.CompleteTask(cmd.Context(), a.call(), args[0])
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
}

func newTaskStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.SetTaskStatus(cmd.Context(), a.call(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
}

func newTaskAssignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task-id> <employee-id>",
		Short: "Assign a task to an employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.AssignEmployee(cmd.Context(), a.call(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
}

func newAnalysisCmd(a *app) *cobra.Command {
	var assignee string
	cmd := &cobra.Command{
		Use:   "analysis",
		Short: "Summarize completion and lateness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				r   tracker.Report
				err error
			)
			if assignee != "" {
				r, err = a.svc.AnalysisForAssignee(cmd.Context(), a.call(), assignee)
			} else {
				r, err = a.svc.Analysis(cmd.Context(), a.call())
			}
			if err != nil {
				return err
			}
			return printJSON(r)
		},
	}
	cmd.Flags().StringVar(&assignee, "assignee", "", "restrict to one employee")
	return cmd
}
