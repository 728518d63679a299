package tracker

import (
	"context"
	"strings"

	"task-tracker/pkg/employee"
)

// CreateEmployee stores a new employee.
func (s *Service) CreateEmployee(ctx context.Context, call Call, name, email string) (employee.Employee, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return employee.Employee{}, validationf("name and email are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	_, exists, err := s.employees.Get(ctx, id)
	if err != nil {
		return employee.Employee{}, creationf("failed to create employee: %v", err)
	}
	if exists {
		return employee.Employee{}, creationf("failed to create employee: identifier %s is unavailable", id)
	}
	e := employee.Employee{ID: id, Name: name, Email: email}
	if err := s.employees.Put(ctx, e); err != nil {
		return employee.Employee{}, creationf("failed to create employee: %v", err)
	}
	s.record(ctx, call, "employee.created", e.ID, e)
	return e, nil
}

// GetEmployee returns one employee.
func (s *Service) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok, err := s.employees.Get(ctx, id)
	if err != nil {
		return employee.Employee{}, storageErr("get employee "+id, err)
	}
	if !ok {
		return employee.Employee{}, notFoundf("employee %s not found", id)
	}
	return e, nil
}

// ListEmployees returns every employee in insertion order.
func (s *Service) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.employees.List(ctx)
	if err != nil {
		return nil, storageErr("list employees", err)
	}
	if len(all) == 0 {
		return nil, notFoundf("no employees found")
	}
	return all, nil
}
