package tracker

import (
	"context"
	"strings"
	"time"

	"task-tracker/pkg/task"
)

// Every list query reports an empty result as ErrNotFound with a message
// naming the filter, rather than as an empty slice.

// GetTask returns one task. Only its creator may read it.
func (s *Service) GetTask(ctx context.Context, call Call, id string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owned(ctx, call, id)
}

// ListTasks returns every task regardless of who created it.
func (s *Service) ListTasks(ctx context.Context) ([]task.Task, error) {
	return s.filter(ctx, "no tasks found", func(task.Task) bool { return true })
}

// TasksByStatus matches status case-insensitively.
func (s *Service) TasksByStatus(ctx context.Context, status string) ([]task.Task, error) {
	return s.filter(ctx, "no tasks found with status "+status, func(t task.Task) bool {
		return strings.EqualFold(t.Status, status)
	})
}

// TasksByCategory matches category exactly.
func (s *Service) TasksByCategory(ctx context.Context, category string) ([]task.Task, error) {
	return s.filter(ctx, "no tasks found in category "+category, func(t task.Task) bool {
		return t.Category == category
	})
}

// TasksByAssignee returns tasks currently assigned to employeeID.
func (s *Service) TasksByAssignee(ctx context.Context, employeeID string) ([]task.Task, error) {
	return s.filter(ctx, "no tasks found for assignee "+employeeID, func(t task.Task) bool {
		return assignedTo(t, employeeID)
	})
}

// SearchTasks matches text case-insensitively as a substring of the title or
// the description.
func (s *Service) SearchTasks(ctx context.Context, text string) ([]task.Task, error) {
	needle := strings.ToLower(text)
	return s.filter(ctx, "no tasks found matching "+text, func(t task.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle)
	})
}

// PastDueTasks returns tasks due before call.Now that are not completed.
func (s *Service) PastDueTasks(ctx context.Context, call Call) ([]task.Task, error) {
	return s.filter(ctx, "no past due tasks found", func(t task.Task) bool {
		return pastDue(t, call.Now)
	})
}

func (s *Service) filter(ctx context.Context, emptyMsg string, keep func(task.Task) bool) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.tasks.List(ctx)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	var out []task.Task
	for _, t := range all {
		if keep(t) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, notFoundf("%s", emptyMsg)
	}
	return out, nil
}

func isCompleted(t task.Task) bool {
	return strings.EqualFold(t.Status, task.StatusCompleted)
}

func pastDue(t task.Task, now time.Time) bool {
	return t.DueAt.Before(now) && !isCompleted(t)
}

func assignedTo(t task.Task, employeeID string) bool {
	id, ok := t.Assignee.Get()
	return ok && id == employeeID
}
