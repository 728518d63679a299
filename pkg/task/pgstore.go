package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"task-tracker/pkg/optional"
)

// PgStore is a PostgreSQL-backed task store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			seq         BIGSERIAL,
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			creator     TEXT NOT NULL,
			assignee    TEXT,
			due_at      TIMESTAMPTZ NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_seq ON tasks(seq)`)
	return err
}

// Put inserts t or replaces the row with the same ID. Replacing keeps the
// original seq so enumeration order is unchanged. creator and created_at are
// never overwritten.
func (s *PgStore) Put(ctx context.Context, t Task) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, category, status, creator, assignee, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			assignee = EXCLUDED.assignee,
			due_at = EXCLUDED.due_at,
			updated_at = EXCLUDED.updated_at`,
		t.ID, t.Title, t.Description, t.Category, t.Status, t.Creator,
		t.Assignee.Ptr(), t.DueAt, t.CreatedAt, t.UpdatedAt.Ptr())
	if err != nil {
		return fmt.Errorf("put task %s: %w", t.ID, err)
	}
	return nil
}

// Get retrieves a single task by ID.
func (s *PgStore) Get(ctx context.Context, id string) (Task, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, description, category, status, creator, assignee, due_at, created_at, updated_at
		FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, false, nil
	}
	if err != nil {
		return Task{}, false, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, true, nil
}

// Remove deletes a task. Removing a missing ID is a no-op.
func (s *PgStore) Remove(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("remove task %s: %w", id, err)
	}
	return nil
}

// List returns all tasks in insertion order.
func (s *PgStore) List(ctx context.Context) ([]Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, category, status, creator, assignee, due_at, created_at, updated_at
		FROM tasks ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	var assignee *string
	var updatedAt *time.Time
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Status, &t.Creator,
		&assignee, &t.DueAt, &t.CreatedAt, &updatedAt)
	if err != nil {
		return Task{}, err
	}
	t.Assignee = optional.FromPtr(assignee)
	t.UpdatedAt = optional.FromPtr(updatedAt)
	return t, nil
}
