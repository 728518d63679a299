package task

import (
	"context"

	"task-tracker/internal/kv"
)

// MemStore is an in-process task store.
type MemStore struct {
	kv *kv.Memory[Task]
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{kv: kv.NewMemory[Task]()}
}

func (s *MemStore) Put(ctx context.Context, t Task) error { return s.kv.Put(ctx, t.ID, t) }

func (s *MemStore) Get(ctx context.Context, id string) (Task, bool, error) { return s.kv.Get(ctx, id) }

func (s *MemStore) Remove(ctx context.Context, id string) error { return s.kv.Remove(ctx, id) }

func (s *MemStore) List(ctx context.Context) ([]Task, error) { return s.kv.Values(ctx) }
