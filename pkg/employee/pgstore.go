package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed employee store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the employees table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS employees (
			seq   BIGSERIAL,
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS employees_seq_idx ON employees(seq)`)
	return err
}

// Put inserts e or replaces the row with the same ID.
func (s *PgStore) Put(ctx context.Context, e Employee) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO employees (id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email`,
		e.ID, e.Name, e.Email)
	if err != nil {
		return fmt.Errorf("put employee %s: %w", e.ID, err)
	}
	return nil
}

// Get returns an employee by ID.
func (s *PgStore) Get(ctx context.Context, id string) (Employee, bool, error) {
	var e Employee
	err := s.pool.QueryRow(ctx, `SELECT id, name, email FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, false, nil
	}
	if err != nil {
		return Employee{}, false, fmt.Errorf("get employee %s: %w", id, err)
	}
	return e, true, nil
}

// List returns all employees in insertion order.
func (s *PgStore) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, email FROM employees ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
