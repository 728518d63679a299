package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"task-tracker/pkg/employee"
	"task-tracker/pkg/task"
	"task-tracker/pkg/tracker"
)

func connect(t *testing.T, principal string, svc *tracker.Service) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	now := func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	serverT, clientT := mcp.NewInMemoryTransports()
	if _, err := newServer(svc, principal, now).Connect(ctx, serverT, nil); err != nil {
		t.Fatalf("server connect: %v", err)
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("CallTool(%s): want one content block, got %d", name, len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): content is %T", name, res.Content[0])
	}
	return text.Text, res.IsError
}

func TestToolsActAsPrincipal(t *testing.T) {
	svc := tracker.New(task.NewMemStore(), employee.NewMemStore())
	alice := connect(t, "alice", svc)
	bob := connect(t, "bob", svc)

	out, isErr := callTool(t, alice, "create_task", map[string]any{
		"title": "draft", "description": "first pass", "duration_minutes": 60,
	})
	if isErr {
		t.Fatalf("create_task failed: %s", out)
	}
	var created task.Task
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if created.Creator != "alice" {
		t.Fatalf("creator: %s", created.Creator)
	}

	out, isErr = callTool(t, bob, "complete_task", map[string]any{"id": created.ID})
	if !isErr {
		t.Fatalf("bob completed alice's task: %s", out)
	}

	out, isErr = callTool(t, alice, "complete_task", map[string]any{"id": created.ID})
	if isErr {
		t.Fatalf("complete_task failed: %s", out)
	}

	out, isErr = callTool(t, bob, "list_tasks", map[string]any{"status": "completed"})
	if isErr {
		t.Fatalf("list_tasks failed: %s", out)
	}
	var listed []task.Task
	if err := json.Unmarshal([]byte(out), &listed); err != nil || len(listed) != 1 {
		t.Fatalf("list_tasks: %s (%v)", out, err)
	}
}

func TestAnalysisToolReportsEmpty(t *testing.T) {
	svc := tracker.New(task.NewMemStore(), employee.NewMemStore())
	cs := connect(t, "alice", svc)

	out, isErr := callTool(t, cs, "analysis", map[string]any{})
	if !isErr || out != "no tasks found" {
		t.Fatalf("analysis on empty store: %q (error=%v)", out, isErr)
	}
}
