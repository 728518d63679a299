package tracker

import (
	"context"
	"math"
	"strings"
	"time"

	"task-tracker/pkg/optional"
	"task-tracker/pkg/task"
)

// maxDurationMinutes keeps now + duration inside time.Duration's range.
const maxDurationMinutes = int64(math.MaxInt64 / int64(time.Minute))

// TaskInput holds the caller-supplied fields of createTask and updateTask.
type TaskInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DurationMinutes int64  `json:"duration_minutes"`
}

func (in TaskInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || in.DurationMinutes == 0 {
		return validationf("title, description and duration are required")
	}
	if in.DurationMinutes < 0 || in.DurationMinutes > maxDurationMinutes {
		return validationf("duration must be between 1 and %d minutes", maxDurationMinutes)
	}
	return nil
}

// storable truncates call.Now to microseconds, the finest precision a
// TIMESTAMPTZ column keeps, so a returned record equals its stored copy.
func storable(call Call) Call {
	call.Now = call.Now.Truncate(time.Microsecond)
	return call
}

// dueAt converts a relative duration in minutes to an absolute due time.
func dueAt(now time.Time, minutes int64) time.Time {
	return now.Add(time.Duration(minutes) * time.Minute)
}

// CreateTask stores a new task owned by call.Caller.
func (s *Service) CreateTask(ctx context.Context, call Call, in TaskInput) (task.Task, error) {
	if err := in.validate(); err != nil {
		return task.Task{}, err
	}
	call = storable(call)

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	_, exists, err := s.tasks.Get(ctx, id)
	if err != nil {
		return task.Task{}, creationf("failed to create task: %v", err)
	}
	if exists {
		return task.Task{}, creationf("failed to create task: identifier %s is unavailable", id)
	}

	t := task.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      task.StatusCreated,
		Creator:     call.Caller,
		Assignee:    optional.None[string](),
		DueAt:       dueAt(call.Now, in.DurationMinutes),
		CreatedAt:   call.Now,
		UpdatedAt:   optional.None[time.Time](),
	}
	if err := s.tasks.Put(ctx, t); err != nil {
		return task.Task{}, creationf("failed to create task: %v", err)
	}
	s.record(ctx, call, "task.created", t.ID, t)
	return t, nil
}

// UpdateTask overwrites title, description and category and restarts the due
// clock: the new due time is call.Now plus the new duration.
func (s *Service) UpdateTask(ctx context.Context, call Call, id string, in TaskInput) (task.Task, error) {
	call = storable(call)
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.owned(ctx, call, id)
	if err != nil {
		return task.Task{}, err
	}
	if err := in.validate(); err != nil {
		return task.Task{}, err
	}

	t.Title = in.Title
	t.Description = in.Description
	t.Category = in.Category
	t.DueAt = dueAt(call.Now, in.DurationMinutes)
	t.UpdatedAt = optional.Some(call.Now)
	if err := s.tasks.Put(ctx, t); err != nil {
		return task.Task{}, storageErr("update task "+id, err)
	}
	s.record(ctx, call, "task.updated", t.ID, t)
	return t, nil
}

// CompleteTask sets the status to Completed. Completing a completed task
// succeeds again.
func (s *Service) CompleteTask(ctx context.Context, call Call, id string) (task.Task, error) {
	return s.setStatus(ctx, call, id, task.StatusCompleted)
}

// SetTaskStatus sets the status to an arbitrary non-empty value.
func (s *Service) SetTaskStatus(ctx context.Context, call Call, id, status string) (task.Task, error) {
	return s.setStatus(ctx, call, id, status)
}

func (s *Service) setStatus(ctx context.Context, call Call, id, status string) (task.Task, error) {
	call = storable(call)
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.owned(ctx, call, id)
	if err != nil {
		return task.Task{}, err
	}
	if strings.TrimSpace(status) == "" {
		return task.Task{}, validationf("status is required")
	}
	t.Status = status
	t.UpdatedAt = optional.Some(call.Now)
	if err := s.tasks.Put(ctx, t); err != nil {
		return task.Task{}, storageErr("update task "+id, err)
	}
	s.record(ctx, call, "task.status_changed", t.ID, t)
	return t, nil
}

// AssignEmployee sets the task's assignee, replacing any previous one.
// The last-updated time is left as is.
func (s *Service) AssignEmployee(ctx context.Context, call Call, taskID, employeeID string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.owned(ctx, call, taskID)
	if err != nil {
		return task.Task{}, err
	}
	_, ok, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return task.Task{}, storageErr("get employee "+employeeID, err)
	}
	if !ok {
		return task.Task{}, notFoundf("employee %s not found", employeeID)
	}

	t.Assignee = optional.Some(employeeID)
	if err := s.tasks.Put(ctx, t); err != nil {
		return task.Task{}, storageErr("update task "+taskID, err)
	}
	s.record(ctx, call, "task.assigned", t.ID, t)
	return t, nil
}

// DeleteTask removes the task and returns it as it was before removal.
func (s *Service) DeleteTask(ctx context.Context, call Call, id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.owned(ctx, call, id)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.tasks.Remove(ctx, id); err != nil {
		return task.Task{}, storageErr("delete task "+id, err)
	}
	s.record(ctx, call, "task.deleted", t.ID, t)
	return t, nil
}

// owned loads a task and checks that call.Caller created it. The caller must
// hold s.mu.
func (s *Service) owned(ctx context.Context, call Call, id string) (task.Task, error) {
	t, ok, err := s.tasks.Get(ctx, id)
	if err != nil {
		return task.Task{}, storageErr("get task "+id, err)
	}
	if !ok {
		return task.Task{}, notFoundf("task %s not found", id)
	}
	if t.Creator != call.Caller {
		return task.Task{}, unauthorizedf("not authorized: task %s belongs to another principal", id)
	}
	return t, nil
}
