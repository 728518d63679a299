package api

import "net/http"

func (s *Server) handleEmployeeList(w http.ResponseWriter, r *http.Request) {
	employees, err := s.svc.ListEmployees(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) handleEmployeeCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	e, err := s.svc.CreateEmployee(r.Context(), s.call(r), req.Name, req.Email)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleEmployeeGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.GetEmployee(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
