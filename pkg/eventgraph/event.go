// Package eventgraph is the append-only, hash-chained journal of mutations.
// Every successful change to a record appends one event naming the record
// (subject), the principal that made the change (source) and a snapshot of
// the record afterwards (content).
package eventgraph

import (
	"context"
	"time"
)

// Event is a single entry in the journal.
type Event struct {
	ID        string         `json:"id"`        // UUID v7 (time-ordered)
	Type      string         `json:"type"`      // e.g. "task.created", "task.assigned"
	Timestamp time.Time      `json:"timestamp"` // time of the mutation
	Source    string         `json:"source"`    // principal that made the change
	Subject   string         `json:"subject"`   // ID of the record changed
	Content   map[string]any `json:"content"`   // record snapshot
	Hash      string         `json:"hash"`      // SHA-256 of canonical form
	PrevHash  string         `json:"prev_hash"` // hash chain link
}

// EventStore is the contract for journal persistence.
type EventStore interface {
	Append(ctx context.Context, eventType, source, subject string, at time.Time, content map[string]any) (*Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Recent(ctx context.Context, limit int) ([]Event, error)
	BySubject(ctx context.Context, subject string, limit int) ([]Event, error)
	Since(ctx context.Context, afterID string, limit int) ([]Event, error)
	Count(ctx context.Context) (int, error)
	VerifyChain(ctx context.Context) error
}
