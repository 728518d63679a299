package backend

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"task-tracker/internal/config"
)

func TestOpenMemory(t *testing.T) {
	b, err := Open(context.Background(), config.Config{StoreBackend: config.BackendMemory}, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()
	if b.Kind != config.BackendMemory {
		t.Errorf("Kind: want memory, got %s", b.Kind)
	}
	if b.Tasks == nil || b.Employees == nil || b.Journal == nil {
		t.Fatalf("memory backend has nil stores: %+v", b)
	}
	if err := b.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := Open(context.Background(), config.Config{StoreBackend: "sqlite"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
