package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"task-tracker/pkg/task"
	"task-tracker/pkg/tracker"
)

type taskID struct {
	ID string `json:"id" jsonschema:"task id"`
}

type taskFields struct {
	ID              string `json:"id,omitempty" jsonschema:"task id, only for update_task"`
	Title           string `json:"title" jsonschema:"non-empty title"`
	Description     string `json:"description" jsonschema:"non-empty description"`
	Category        string `json:"category,omitempty" jsonschema:"free-text category"`
	DurationMinutes int64  `json:"duration_minutes" jsonschema:"minutes from now until the task is due"`
}

func (f taskFields) input() tracker.TaskInput {
	return tracker.TaskInput{
		Title:           f.Title,
		Description:     f.Description,
		Category:        f.Category,
		DurationMinutes: f.DurationMinutes,
	}
}

type statusArgs struct {
	ID     string `json:"id" jsonschema:"task id"`
	Status string `json:"status" jsonschema:"new status"`
}

type assignArgs struct {
	TaskID     string `json:"task_id" jsonschema:"task id"`
	EmployeeID string `json:"employee_id" jsonschema:"employee id"`
}

type listArgs struct {
	Status   string `json:"status,omitempty" jsonschema:"status, compared case-insensitively"`
	Category string `json:"category,omitempty" jsonschema:"exact category"`
	Assignee string `json:"assignee,omitempty" jsonschema:"employee id"`
	Search   string `json:"search,omitempty" jsonschema:"text in title or description"`
	PastDue  bool   `json:"past_due,omitempty" jsonschema:"only incomplete tasks past their due time"`
}

type analysisArgs struct {
	Assignee string `json:"assignee,omitempty" jsonschema:"restrict to one employee"`
}

type employeeArgs struct {
	Name  string `json:"name" jsonschema:"employee name"`
	Email string `json:"email" jsonschema:"employee email"`
}

type employeeID struct {
	ID string `json:"id" jsonschema:"employee id"`
}

type noArgs struct{}

// tools binds each tracker operation to an MCP tool. Every call acts as
// principal at the time now returns.
type tools struct {
	svc       *tracker.Service
	principal string
	now       func() time.Time
}

func (t *tools) call() tracker.Call {
	return tracker.Call{Caller: t.principal, Now: t.now()}
}

// result renders v as JSON text, or err as a tool error the model can read.
func result(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		}, nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}, nil, nil
}

func newServer(svc *tracker.Service, principal string, now func() time.Time) *mcp.Server {
	t := &tools{svc: svc, principal: principal, now: now}
	server := mcp.NewServer(&mcp.Implementation{Name: "taskmcp", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: "create_task", Description: "Create a task owned by the configured principal."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in taskFields) (*mcp.CallToolResult, any, error) {
			return result(t.svc.CreateTask(ctx, t.call(), in.input()))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "get_task", Description: "Fetch a task created by the configured principal."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in taskID) (*mcp.CallToolResult, any, error) {
			return result(t.svc.GetTask(ctx, t.call(), in.ID))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "update_task", Description: "Replace a task's title, description and category and restart its due clock."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in taskFields) (*mcp.CallToolResult, any, error) {
			return result(t.svc.UpdateTask(ctx, t.call(), in.ID, in.input()))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "delete_task", Description: "Delete a task and return it."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in taskID) (*mcp.CallToolResult, any, error) {
			return result(t.svc.DeleteTask(ctx, t.call(), in.ID))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "complete_task", Description: "Mark a task Completed."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in taskID) (*mcp.CallToolResult, any, error) {
			return result(t.svc.CompleteTask(ctx, t.call(), in.ID))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "set_task_status", Description: "Set a task's status to any non-empty value."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in statusArgs) (*mcp.CallToolResult, any, error) {
			return result(t.svc.SetTaskStatus(ctx, t.call(), in.ID, in.Status))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "assign_employee", Description: "Assign a task to an employee."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in assignArgs) (*mcp.CallToolResult, any, error) {
			return result(t.svc.AssignEmployee(ctx, t.call(), in.TaskID, in.EmployeeID))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "list_tasks", Description: "List all tasks, or the tasks matching one filter."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in listArgs) (*mcp.CallToolResult, any, error) {
			return result(t.list(ctx, in))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "analysis", Description: "Completed and past-due percentages over all tasks or one assignee's."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in analysisArgs) (*mcp.CallToolResult, any, error) {
			if in.Assignee != "" {
				return result(t.svc.AnalysisForAssignee(ctx, t.call(), in.Assignee))
			}
			return result(t.svc.Analysis(ctx, t.call()))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "create_employee", Description: "Create an employee."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in employeeArgs) (*mcp.CallToolResult, any, error) {
			return result(t.svc.CreateEmployee(ctx, t.call(), in.Name, in.Email))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "get_employee", Description: "Fetch an employee."},
		func(ctx context.Context, _ *mcp.CallToolRequest, in employeeID) (*mcp.CallToolResult, any, error) {
			return result(t.svc.GetEmployee(ctx, in.ID))
		})
	mcp.AddTool(server, &mcp.Tool{Name: "list_employees", Description: "List every employee."},
		func(ctx context.Context, _ *mcp.CallToolRequest, _ noArgs) (*mcp.CallToolResult, any, error) {
			return result(t.svc.ListEmployees(ctx))
		})
	return server
}

func (t *tools) list(ctx context.Context, in listArgs) ([]task.Task, error) {
	switch {
	case in.PastDue:
		return t.svc.PastDueTasks(ctx, t.call())
	case in.Assignee != "":
		return t.svc.TasksByAssignee(ctx, in.Assignee)
	case in.Status != "":
		return t.svc.TasksByStatus(ctx, in.Status)
	case in.Category != "":
		return t.svc.TasksByCategory(ctx, in.Category)
	case in.Search != "":
		return t.svc.SearchTasks(ctx, in.Search)
	}
	return t.svc.ListTasks(ctx)
}
