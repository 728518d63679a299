package main

import (
	"context"
	"errors"
	"testing"

	"task-tracker/pkg/tracker"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")
	root := newRootCmd()
	root.SetArgs(append([]string{"--env-dir", t.TempDir()}, args...))
	return root.ExecuteContext(context.Background())
}

func TestCommandsReachTheService(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantKind error
	}{
		{"init", []string{"init"}, nil},
		{"status", []string{"status"}, nil},
		{"create task", []string{"--as", "alice", "task", "create", "--title", "t", "--description", "d", "--minutes", "5"}, nil},
		{"invalid task", []string{"task", "create", "--title", "t"}, tracker.ErrValidation},
		{"missing task", []string{"task", "get", "nope"}, tracker.ErrNotFound},
		{"empty list", []string{"task", "list", "--past-due"}, tracker.ErrNotFound},
		{"empty analysis", []string{"analysis"}, tracker.ErrNotFound},
		{"create employee", []string{"employee", "create", "--name", "Erin", "--email", "erin@example.com"}, nil},
		{"verify", []string{"events", "verify"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, tt.args...)
			if tt.wantKind == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("want %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if err := run(t, "token", "alice"); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestCountSurfacesStorageFailures(t *testing.T) {
	n, err := count([]string(nil), &tracker.Error{Kind: tracker.ErrNotFound, Msg: "no tasks found"})
	if err != nil || n != 0 {
		t.Fatalf("empty store: want 0, nil; got %d, %v", n, err)
	}

	n, err = count([]string{"a", "b"}, nil)
	if err != nil || n != 2 {
		t.Fatalf("want 2, nil; got %d, %v", n, err)
	}

	_, err = count([]string(nil), &tracker.Error{Kind: tracker.ErrStorage, Msg: "list tasks: connection refused"})
	if !errors.Is(err, tracker.ErrStorage) {
		t.Fatalf("want storage error, got %v", err)
	}
}
