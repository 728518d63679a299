// Package api exposes the tracker over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"task-tracker/internal/identity"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/tracker"
)

// Server is the HTTP API server.
type Server struct {
	svc     *tracker.Service
	journal eventgraph.EventStore
	bus     *eventgraph.Bus
	log     *zap.Logger
	now     func() time.Time
	ping    func(context.Context) error
	backend string
	webDir  string
	ident   identity.Middleware
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClock replaces time.Now as the source of each call's current time.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithIdentity sets how callers are identified. The default trusts the
// X-Principal header.
func WithIdentity(m identity.Middleware) Option {
	return func(s *Server) { s.ident = m }
}

// WithHealthCheck reports the backend name on /api/status and uses ping for
// /health.
func WithHealthCheck(backend string, ping func(context.Context) error) Option {
	return func(s *Server) {
		s.backend = backend
		s.ping = ping
	}
}

// WithWebDir serves static files from dir for paths outside /api/.
func WithWebDir(dir string) Option {
	return func(s *Server) { s.webDir = dir }
}

// New creates a Server. When journal is a *eventgraph.Bus, GET
// /api/events/stream pushes events as they are appended.
func New(svc *tracker.Service, journal eventgraph.EventStore, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		journal: journal,
		log:     zap.NewNop(),
		now:     time.Now,
		backend: "memory",
		ident:   identity.New(""),
	}
	if b, ok := journal.(*eventgraph.Bus); ok {
		s.bus = b
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.logRequests(s.routes())
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	api := http.NewServeMux()

	// Tasks
	api.HandleFunc("GET /api/tasks", s.handleTaskList)
	api.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	api.HandleFunc("GET /api/tasks/{id}", s.handleTaskGet)
	api.HandleFunc("PUT /api/tasks/{id}", s.handleTaskUpdate)
	api.HandleFunc("DELETE /api/tasks/{id}", s.handleTaskDelete)
	api.HandleFunc("POST /api/tasks/{id}/complete", s.handleTaskComplete)
	api.HandleFunc("PUT /api/tasks/{id}/status", s.handleTaskStatus)
	api.HandleFunc("PUT /api/tasks/{id}/assignee", s.handleTaskAssign)
	api.HandleFunc("GET /api/analysis", s.handleAnalysis)

	// Employees
	api.HandleFunc("GET /api/employees", s.handleEmployeeList)
	api.HandleFunc("POST /api/employees", s.handleEmployeeCreate)
	api.HandleFunc("GET /api/employees/{id}", s.handleEmployeeGet)

	// Journal
	api.HandleFunc("GET /api/events", s.handleEventList)
	api.HandleFunc("GET /api/events/verify", s.handleEventVerify)
	api.HandleFunc("GET /api/events/stream", s.handleEventStream)
	api.HandleFunc("GET /api/events/{id}", s.handleEventGet)

	// System
	api.HandleFunc("GET /api/status", s.handleStatus)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.ident.Wrap(api))
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.webDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.webDir)))
	}
	return mux
}

// call builds the core's per-operation inputs from the request.
func (s *Server) call(r *http.Request) tracker.Call {
	p, ok := identity.FromContext(r.Context())
	if !ok {
		p = identity.Anonymous
	}
	return tracker.Call{Caller: p, Now: s.now()}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := map[string]any{
		"backend":   s.backend,
		"principal": s.call(r).Caller,
		"time":      s.now().UTC(),
	}

	tasks, err := s.svc.ListTasks(ctx)
	if err != nil && !errors.Is(err, tracker.ErrNotFound) {
		s.fail(w, err)
		return
	}
	status["tasks"] = len(tasks)

	employees, err := s.svc.ListEmployees(ctx)
	if err != nil && !errors.Is(err, tracker.ErrNotFound) {
		s.fail(w, err)
		return
	}
	status["employees"] = len(employees)

	if s.journal != nil {
		n, err := s.journal.Count(ctx)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		status["events"] = n
	}
	writeJSON(w, http.StatusOK, status)
}

// statusFor maps a core error kind to an HTTP status.
func statusFor(err error) int {
	switch tracker.Kind(err) {
	case tracker.ErrValidation:
		return http.StatusBadRequest
	case tracker.ErrNotFound:
		return http.StatusNotFound
	case tracker.ErrUnauthorized:
		return http.StatusForbidden
	case tracker.ErrStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= 500 {
		s.log.Error("request failed", zap.Error(err))
	}
	writeError(w, code, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
