package eventgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-process EventStore. Events are kept in append order.
type MemStore struct {
	mu     sync.Mutex
	events []Event
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Append creates and stores a new event, computing the hash chain.
func (s *MemStore) Append(_ context.Context, eventType, source, subject string, at time.Time, content map[string]any) (*Event, error) {
	if content == nil {
		content = map[string]any{}
	}
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevHash := ""
	if n := len(s.events); n > 0 {
		prevHash = s.events[n-1].Hash
	}
	id := uuid.Must(uuid.NewV7()).String()
	e := Event{
		ID:        id,
		Type:      eventType,
		Timestamp: at,
		Source:    source,
		Subject:   subject,
		Content:   content,
		Hash:      computeHash(prevHash, id, eventType, source, subject, at, contentJSON),
		PrevHash:  prevHash,
	}
	s.events = append(s.events, e)
	return &e, nil
}

// Get retrieves a single event by ID.
func (s *MemStore) Get(_ context.Context, id string) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			return &e, nil
		}
	}
	return nil, fmt.Errorf("get event %s: not found", id)
}

// Recent returns the most recent events, newest first.
func (s *MemStore) Recent(_ context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// BySubject returns the events for one record, oldest first.
func (s *MemStore) BySubject(_ context.Context, subject string, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if len(out) >= limit {
			break
		}
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out, nil
}

// Since returns events appended after the given ID, for polling/SSE.
func (s *MemStore) Since(_ context.Context, afterID string, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := -1
	for i := range s.events {
		if s.events[i].ID == afterID {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, nil
	}
	var out []Event
	for _, e := range s.events[start:] {
		if len(out) >= limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

// Count returns the total number of events.
func (s *MemStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events), nil
}

// VerifyChain walks the journal in append order and verifies hash integrity.
func (s *MemStore) VerifyChain(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevHash := ""
	for i, e := range s.events {
		if e.PrevHash != prevHash {
			return fmt.Errorf("event %d (%s): prev_hash mismatch: got %s, want %s", i, e.ID, e.PrevHash, prevHash)
		}
		contentJSON, err := json.Marshal(e.Content)
		if err != nil {
			return fmt.Errorf("event %d (%s): marshal content: %w", i, e.ID, err)
		}
		if want := computeHash(prevHash, e.ID, e.Type, e.Source, e.Subject, e.Timestamp, contentJSON); e.Hash != want {
			return fmt.Errorf("event %d (%s): hash mismatch: got %s, want %s", i, e.ID, e.Hash, want)
		}
		prevHash = e.Hash
	}
	return nil
}
