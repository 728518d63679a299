package employee

import "context"

// Employee is a person tasks can be assigned to. Employees carry no link to
// their tasks; assignment is held on the task side only.
type Employee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Store is a keyed collection of employees. Get reports a missing ID as
// ok=false, never as an error; List enumerates in insertion order.
type Store interface {
	Put(ctx context.Context, e Employee) error
	Get(ctx context.Context, id string) (Employee, bool, error)
	List(ctx context.Context) ([]Employee, error)
}
