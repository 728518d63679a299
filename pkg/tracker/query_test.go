package tracker

import (
	"context"
	"testing"
	"time"

	"task-tracker/pkg/task"
)

func ids(tasks []task.Task) map[string]bool {
	out := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		out[t.ID] = true
	}
	return out
}

func TestListTasksIsNotFilteredByCaller(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	_, err := s.ListTasks(ctx)
	wantKind(t, err, ErrNotFound)

	mustCreate(t, s, as("alice", t0), "a", 5)
	mustCreate(t, s, as("bob", t0), "b", 5)

	all, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 tasks, got %d", len(all))
	}
}

func TestTasksByStatusIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	done := mustCreate(t, s, as("alice", t0), "done", 5)
	mustCreate(t, s, as("alice", t0), "open", 5)
	if _, err := s.CompleteTask(ctx, as("alice", t0), done.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	lower, err := s.TasksByStatus(ctx, "completed")
	if err != nil {
		t.Fatalf("TasksByStatus(completed): %v", err)
	}
	upper, err := s.TasksByStatus(ctx, "Completed")
	if err != nil {
		t.Fatalf("TasksByStatus(Completed): %v", err)
	}
	if len(lower) != 1 || len(upper) != 1 || lower[0].ID != done.ID || upper[0].ID != done.ID {
		t.Fatalf("case-insensitive status mismatch: %+v vs %+v", lower, upper)
	}

	_, err = s.TasksByStatus(ctx, "archived")
	wantKind(t, err, ErrNotFound)
}

func TestTasksByCategoryIsExact(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	tk, err := s.CreateTask(ctx, as("alice", t0), TaskInput{Title: "t", Description: "d", Category: "Ops", DurationMinutes: 5})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := s.TasksByCategory(ctx, "Ops")
	if err != nil || len(got) != 1 || got[0].ID != tk.ID {
		t.Fatalf("TasksByCategory(Ops): %+v, %v", got, err)
	}
	_, err = s.TasksByCategory(ctx, "ops")
	wantKind(t, err, ErrNotFound)
}

func TestSearchTasks(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	byTitle, _ := s.CreateTask(ctx, as("alice", t0), TaskInput{Title: "Quarterly Report", Description: "numbers", DurationMinutes: 5})
	byDesc, _ := s.CreateTask(ctx, as("bob", t0), TaskInput{Title: "slides", Description: "for the REPORT review", DurationMinutes: 5})
	mustCreate(t, s, as("alice", t0), "unrelated", 5)

	got, err := s.SearchTasks(ctx, "report")
	if err != nil {
		t.Fatalf("SearchTasks: %v", err)
	}
	found := ids(got)
	if len(got) != 2 || !found[byTitle.ID] || !found[byDesc.ID] {
		t.Fatalf("SearchTasks(report): %+v", got)
	}

	all, err := s.SearchTasks(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("empty search should match all: %d, %v", len(all), err)
	}

	_, err = s.SearchTasks(ctx, "zebra")
	wantKind(t, err, ErrNotFound)
}

func TestPastDueTasks(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	tk := mustCreate(t, s, as("alice", t0), "hourly", 60)
	due := t0.Add(60 * time.Minute)

	_, err := s.PastDueTasks(ctx, as("alice", t0))
	wantKind(t, err, ErrNotFound)

	_, err = s.PastDueTasks(ctx, as("alice", due))
	wantKind(t, err, ErrNotFound)

	late, err := s.PastDueTasks(ctx, as("alice", due.Add(time.Nanosecond)))
	if err != nil {
		t.Fatalf("PastDueTasks after due: %v", err)
	}
	if len(late) != 1 || late[0].ID != tk.ID {
		t.Fatalf("PastDueTasks: %+v", late)
	}

	if _, err := s.CompleteTask(ctx, as("alice", due.Add(time.Hour)), tk.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	_, err = s.PastDueTasks(ctx, as("alice", due.Add(24*time.Hour)))
	wantKind(t, err, ErrNotFound)
}

func TestPastDueExcludesCompletedInAnyCase(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	tk := mustCreate(t, s, as("alice", t0), "t", 1)
	if _, err := s.SetTaskStatus(ctx, as("alice", t0), tk.ID, "COMPLETED"); err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
	_, err := s.PastDueTasks(ctx, as("alice", t0.Add(time.Hour)))
	wantKind(t, err, ErrNotFound)
}
