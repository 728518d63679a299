package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"task-tracker/pkg/eventgraph"
)

func (s *Server) handleEventList(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotFound, "journal disabled")
		return
	}
	ctx := r.Context()
	limit := queryInt(r, "limit", 50)

	var (
		events []eventgraph.Event
		err    error
	)
	if subj := r.URL.Query().Get("subject"); subj != "" {
		events, err = s.journal.BySubject(ctx, subj, limit)
	} else {
		events, err = s.journal.Recent(ctx, limit)
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if events == nil {
		events = []eventgraph.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleEventGet(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotFound, "journal disabled")
		return
	}
	e, err := s.journal.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleEventVerify(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotFound, "journal disabled")
		return
	}
	ctx := r.Context()
	n, err := s.journal.Count(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	res := map[string]any{"valid": true, "count": n}
	if err := s.journal.VerifyChain(ctx); err != nil {
		res["valid"] = false
		res["error"] = err.Error()
		s.log.Warn("journal verification failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, res)
}

// handleEventStream pushes journal events as server-sent events. With
// ?after=<id> the events appended after id are replayed first.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	if s.bus == nil {
		writeError(w, http.StatusNotImplemented, "event stream requires a journal bus")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ch := s.bus.Subscribe()
	defer s.bus.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	seen := map[string]bool{}
	if after := r.URL.Query().Get("after"); after != "" {
		backlog, err := s.bus.Since(ctx, after, 500)
		if err != nil {
			s.log.Warn("event stream replay", zap.Error(err))
		}
		for i := range backlog {
			seen[backlog[i].ID] = true
			writeEvent(w, &backlog[i])
		}
		flusher.Flush()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-ch:
			if seen[e.ID] {
				continue
			}
			writeEvent(w, e)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, e *eventgraph.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Type, data)
}
