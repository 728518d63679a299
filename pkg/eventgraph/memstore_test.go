package eventgraph

import (
	"context"
	"testing"
	"time"
)

func appendN(t *testing.T, s EventStore, subjects ...string) []*Event {
	t.Helper()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var out []*Event
	for i, subj := range subjects {
		e, err := s.Append(context.Background(), "task.updated", "alice", subj, at.Add(time.Duration(i)*time.Second), map[string]any{"n": i})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		out = append(out, e)
	}
	return out
}

func TestMemStoreChainLinks(t *testing.T) {
	s := NewMemStore()
	events := appendN(t, s, "t1", "t2", "t1")

	if events[0].PrevHash != "" {
		t.Fatalf("first event should have empty prev_hash, got %q", events[0].PrevHash)
	}
	for i := 1; i < len(events); i++ {
		if events[i].PrevHash != events[i-1].Hash {
			t.Fatalf("event %d does not link to event %d", i, i-1)
		}
	}
	if err := s.VerifyChain(context.Background()); err != nil {
		t.Fatalf("VerifyChain: %v", err)
	}
}

func TestMemStoreVerifyDetectsTampering(t *testing.T) {
	s := NewMemStore()
	appendN(t, s, "t1", "t2")

	s.events[0].Source = "mallory"
	if err := s.VerifyChain(context.Background()); err == nil {
		t.Fatal("expected hash mismatch after tampering")
	}
}

func TestMemStoreQueries(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	events := appendN(t, s, "t1", "t2", "t1", "t3")

	n, _ := s.Count(ctx)
	if n != 4 {
		t.Fatalf("Count: want 4, got %d", n)
	}

	recent, _ := s.Recent(ctx, 2)
	if len(recent) != 2 || recent[0].ID != events[3].ID || recent[1].ID != events[2].ID {
		t.Fatalf("Recent should be newest first: %+v", recent)
	}

	bySubj, _ := s.BySubject(ctx, "t1", 10)
	if len(bySubj) != 2 || bySubj[0].ID != events[0].ID || bySubj[1].ID != events[2].ID {
		t.Fatalf("BySubject(t1) unexpected: %+v", bySubj)
	}

	since, _ := s.Since(ctx, events[1].ID, 10)
	if len(since) != 2 || since[0].ID != events[2].ID {
		t.Fatalf("Since unexpected: %+v", since)
	}

	if _, err := s.Get(ctx, "missing"); err == nil {
		t.Fatal("Get of missing ID should fail")
	}
	got, err := s.Get(ctx, events[1].ID)
	if err != nil || got.Subject != "t2" {
		t.Fatalf("Get: %v, %+v", err, got)
	}
}

func TestBusFansOut(t *testing.T) {
	bus := NewBus(NewMemStore())
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	e, err := bus.Append(context.Background(), "employee.created", "alice", "emp-1", time.Now(), nil)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	select {
	case got := <-ch:
		if got.ID != e.ID {
			t.Fatalf("subscriber got %s, want %s", got.ID, e.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}
}
