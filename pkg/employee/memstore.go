package employee

import (
	"context"

	"task-tracker/internal/kv"
)

// MemStore is an in-process employee store.
type MemStore struct {
	kv *kv.Memory[Employee]
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{kv: kv.NewMemory[Employee]()}
}

func (s *MemStore) Put(ctx context.Context, e Employee) error { return s.kv.Put(ctx, e.ID, e) }

func (s *MemStore) Get(ctx context.Context, id string) (Employee, bool, error) {
	return s.kv.Get(ctx, id)
}

func (s *MemStore) List(ctx context.Context) ([]Employee, error) { return s.kv.Values(ctx) }
