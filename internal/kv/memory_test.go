package kv

import (
	"context"
	"sync"
	"testing"
)

type rec struct {
	ID   string
	Name string
}

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[rec]()
	if err := m.Put(ctx, "a", rec{ID: "a", Name: "first"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := m.Get(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Name != "first" {
		t.Fatalf("expected name first, got %q", got.Name)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory[rec]()
	_, ok, err := m.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("missing key must not be an error: %v", err)
	}
	if ok {
		t.Fatal("expected absent")
	}
}

func TestMemoryReplaceKeepsPosition(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[rec]()
	m.Put(ctx, "a", rec{ID: "a"})
	m.Put(ctx, "b", rec{ID: "b"})
	m.Put(ctx, "a", rec{ID: "a", Name: "replaced"})

	vals, _ := m.Values(ctx)
	if len(vals) != 2 {
		t.Fatalf("expected 2 values, got %d", len(vals))
	}
	if vals[0].ID != "a" || vals[0].Name != "replaced" || vals[1].ID != "b" {
		t.Fatalf("unexpected order/content: %+v", vals)
	}
}

func TestMemoryRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[rec]()
	m.Put(ctx, "a", rec{ID: "a"})
	m.Put(ctx, "b", rec{ID: "b"})
	m.Put(ctx, "c", rec{ID: "c"})

	if err := m.Remove(ctx, "b"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := m.Remove(ctx, "missing"); err != nil {
		t.Fatalf("Remove of missing key should be a no-op: %v", err)
	}
	vals, _ := m.Values(ctx)
	if len(vals) != 2 || vals[0].ID != "a" || vals[1].ID != "c" {
		t.Fatalf("unexpected values after remove: %+v", vals)
	}
}

func TestMemoryValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[rec]()
	m.Put(ctx, "a", rec{ID: "a", Name: "orig"})

	vals, _ := m.Values(ctx)
	vals[0].Name = "mutated"

	got, _, _ := m.Get(ctx, "a")
	if got.Name != "orig" {
		t.Fatalf("caller mutation leaked into the collection: %q", got.Name)
	}
}

func TestMemoryConcurrentPut(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[rec]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('A' + i))
			m.Put(ctx, id, rec{ID: id})
		}(i)
	}
	wg.Wait()
	if vals, _ := m.Values(ctx); len(vals) != 50 {
		t.Fatalf("expected 50 values, got %d", len(vals))
	}
}
