package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"task-tracker/pkg/employee"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/task"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func as(caller string, now time.Time) Call {
	return Call{Caller: caller, Now: now}
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestService(opts ...Option) *Service {
	opts = append([]Option{WithIDFunc(seqIDs("id"))}, opts...)
	return New(task.NewMemStore(), employee.NewMemStore(), opts...)
}

func mustCreate(t *testing.T, s *Service, call Call, title string, minutes int64) task.Task {
	t.Helper()
	tk, err := s.CreateTask(context.Background(), call, TaskInput{
		Title:           title,
		Description:     title + " description",
		Category:        "general",
		DurationMinutes: minutes,
	})
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return tk
}

func mustEmployee(t *testing.T, s *Service, name string) employee.Employee {
	t.Helper()
	e, err := s.CreateEmployee(context.Background(), as("admin", t0), name, name+"@example.com")
	if err != nil {
		t.Fatalf("CreateEmployee(%q): %v", name, err)
	}
	return e
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

// --- Failing collaborators ---

type failingJournal struct {
	eventgraph.EventStore
}

func (failingJournal) Append(context.Context, string, string, string, time.Time, map[string]any) (*eventgraph.Event, error) {
	return nil, errors.New("journal offline")
}

type failingTaskStore struct {
	task.Store
}

func (failingTaskStore) Put(context.Context, task.Task) error {
	return errors.New("disk full")
}

func (failingTaskStore) Get(context.Context, string) (task.Task, bool, error) {
	return task.Task{}, false, nil
}

type unreachableTaskStore struct {
	task.Store
}

func (unreachableTaskStore) Get(context.Context, string) (task.Task, bool, error) {
	return task.Task{}, false, errors.New("connection refused")
}

type unreachableEmployeeStore struct {
	employee.Store
}

func (unreachableEmployeeStore) Get(context.Context, string) (employee.Employee, bool, error) {
	return employee.Employee{}, false, errors.New("connection refused")
}

// --- Journal ---

func TestMutationsAreJournaled(t *testing.T) {
	ctx := context.Background()
	j := eventgraph.NewMemStore()
	s := newTestService(WithJournal(j))

	emp := mustEmployee(t, s, "erin")
	tk := mustCreate(t, s, as("alice", t0), "write report", 60)
	if _, err := s.AssignEmployee(ctx, as("alice", t0.Add(time.Minute)), tk.ID, emp.ID); err != nil {
		t.Fatalf("AssignEmployee: %v", err)
	}
	if _, err := s.CompleteTask(ctx, as("alice", t0.Add(2*time.Minute)), tk.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if _, err := s.DeleteTask(ctx, as("alice", t0.Add(3*time.Minute)), tk.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	events, err := j.BySubject(ctx, tk.ID, 10)
	if err != nil {
		t.Fatalf("BySubject: %v", err)
	}
	want := []string{"task.created", "task.assigned", "task.status_changed", "task.deleted"}
	if len(events) != len(want) {
		t.Fatalf("want %d events, got %d", len(want), len(events))
	}
	for i, e := range events {
		if e.Type != want[i] {
			t.Errorf("event %d: want type %s, got %s", i, want[i], e.Type)
		}
		if e.Source != "alice" {
			t.Errorf("event %d: want source alice, got %s", i, e.Source)
		}
	}
	if got := events[2].Content["status"]; got != task.StatusCompleted {
		t.Errorf("status_changed snapshot: want Completed, got %v", got)
	}
	if !events[1].Timestamp.Equal(t0.Add(time.Minute)) {
		t.Errorf("assigned timestamp: want call time, got %v", events[1].Timestamp)
	}

	empEvents, _ := j.BySubject(ctx, emp.ID, 10)
	if len(empEvents) != 1 || empEvents[0].Type != "employee.created" {
		t.Errorf("want one employee.created event, got %+v", empEvents)
	}
	if err := j.VerifyChain(ctx); err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
}

func TestFailedMutationIsNotJournaled(t *testing.T) {
	ctx := context.Background()
	j := eventgraph.NewMemStore()
	s := newTestService(WithJournal(j))

	tk := mustCreate(t, s, as("alice", t0), "mine", 60)
	if _, err := s.CompleteTask(ctx, as("bob", t0), tk.ID); err == nil {
		t.Fatal("expected authorization failure")
	}
	n, _ := j.Count(ctx)
	if n != 1 {
		t.Fatalf("want only the create event, got %d events", n)
	}
}

func TestJournalFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := newTestService(WithJournal(failingJournal{}), WithLogger(zap.New(core)))

	tk := mustCreate(t, s, as("alice", t0), "still stored", 60)

	got, err := s.GetTask(context.Background(), as("alice", t0), tk.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Title != "still stored" {
		t.Fatalf("unexpected task %+v", got)
	}
	entries := logs.FilterMessage("journal append failed").All()
	if len(entries) != 1 {
		t.Fatalf("want one warning, got %d", len(entries))
	}
	if subj := entries[0].ContextMap()["subject"]; subj != tk.ID {
		t.Errorf("warning subject: want %s, got %v", tk.ID, subj)
	}
}

// --- Errors ---

func TestKindClassifiesErrors(t *testing.T) {
	s := newTestService()
	_, err := s.GetTask(context.Background(), as("alice", t0), "missing")
	if Kind(err) != ErrNotFound {
		t.Fatalf("Kind: want ErrNotFound, got %v", Kind(err))
	}
	if err.Error() != "task missing not found" {
		t.Fatalf("message: got %q", err.Error())
	}
	if Kind(errors.New("other")) != nil {
		t.Fatal("Kind of a foreign error should be nil")
	}
}
