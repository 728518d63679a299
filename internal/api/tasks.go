package api

import (
	"net/http"

	"task-tracker/pkg/task"
	"task-tracker/pkg/tracker"
)

// handleTaskList serves the unfiltered list or one derived view. When several
// filters are given the first of past_due, assignee, status, category, q
// wins.
func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		tasks []task.Task
		err   error
	)
	switch {
	case q.Get("past_due") == "true":
		tasks, err = s.svc.PastDueTasks(ctx, s.call(r))
	case q.Has("assignee"):
		tasks, err = s.svc.TasksByAssignee(ctx, q.Get("assignee"))
	case q.Has("status"):
		tasks, err = s.svc.TasksByStatus(ctx, q.Get("status"))
	case q.Has("category"):
		tasks, err = s.svc.TasksByCategory(ctx, q.Get("category"))
	case q.Has("q"):
		tasks, err = s.svc.SearchTasks(ctx, q.Get("q"))
	default:
		tasks, err = s.svc.ListTasks(ctx)
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var in tracker.TaskInput
	if !decode(w, r, &in) {
		return
	}
	t, err := s.svc.CreateTask(r.Context(), s.call(r), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.GetTask(r.Context(), s.call(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	var in tracker.TaskInput
	if !decode(w, r, &in) {
		return
	}
	t, err := s.svc.UpdateTask(r.Context(), s.call(r), r.PathValue("id"), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.DeleteTask(r.Context(), s.call(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.CompleteTask(r.Context(), s.call(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	t, err := s.svc.SetTaskStatus(r.Context(), s.call(r), r.PathValue("id"), req.Status)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTaskAssign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID string `json:"employee_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	t, err := s.svc.AssignEmployee(r.Context(), s.call(r), r.PathValue("id"), req.EmployeeID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var (
		rep tracker.Report
		err error
	)
	if id := r.URL.Query().Get("assignee"); id != "" {
		rep, err = s.svc.AnalysisForAssignee(r.Context(), s.call(r), id)
	} else {
		rep, err = s.svc.Analysis(r.Context(), s.call(r))
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
