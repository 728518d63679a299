package task

import (
	"context"
	"time"

	"task-tracker/pkg/optional"
)

// Sentinel statuses. Status is free text; these are the values the system
// itself writes.
const (
	StatusCreated   = "Created"
	StatusCompleted = "Completed"
)

// Task is a unit of tracked work owned by the principal that created it.
type Task struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Category    string                    `json:"category"`
	Status      string                    `json:"status"`
	Creator     string                    `json:"creator"`    // caller identity at creation, never changed
	Assignee    optional.Value[string]    `json:"assignee"`   // employee ID
	DueAt       time.Time                 `json:"due_at"`     // absolute, never a raw duration
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   optional.Value[time.Time] `json:"updated_at"` // absent until the first update
}

// Store is a keyed collection of tasks. Get reports a missing ID as
// ok=false, never as an error; List enumerates in insertion order.
type Store interface {
	Put(ctx context.Context, t Task) error
	Get(ctx context.Context, id string) (Task, bool, error)
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]Task, error)
}
