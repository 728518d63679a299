// Package tracker is the task and employee record store together with its
// query and authorization rules.
//
// Caller identity and the current time are explicit inputs to every
// operation (see Call). Operations are serialized: each one runs to
// completion against fully committed state before the next begins.
package tracker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-tracker/pkg/employee"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/task"
)

// Call carries the inputs the execution environment supplies per operation.
// Caller is opaque and only ever compared for equality.
type Call struct {
	Caller string
	Now    time.Time
}

// Service owns the task and employee stores.
type Service struct {
	mu        sync.Mutex
	tasks     task.Store
	employees employee.Store
	journal   eventgraph.EventStore // nil disables journaling
	newID     func() string
	log       *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every successful mutation in j.
func WithJournal(j eventgraph.EventStore) Option {
	return func(s *Service) { s.journal = j }
}

// WithIDFunc replaces the identifier generator. f must return values unique
// for the lifetime of the stores.
func WithIDFunc(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// WithLogger sets the logger used for failures that do not fail the call.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service over the given stores.
func New(tasks task.Store, employees employee.Store, opts ...Option) *Service {
	s := &Service{
		tasks:     tasks,
		employees: employees,
		newID:     newUUID,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// record appends a journal event. The mutation has already been written, so
// a journal failure is logged and otherwise ignored.
func (s *Service) record(ctx context.Context, call Call, eventType, subject string, v any) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.Append(ctx, eventType, call.Caller, subject, call.Now, snapshot(v)); err != nil {
		s.log.Warn("journal append failed",
			zap.String("type", eventType),
			zap.String("subject", subject),
			zap.Error(err))
	}
}

// snapshot converts a record into plain JSON values so the journal hashes
// the same bytes it later reads back.
func snapshot(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}
	return m
}
