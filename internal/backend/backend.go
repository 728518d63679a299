// Package backend assembles the task, employee and journal stores for the
// configured STORE_BACKEND.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"task-tracker/internal/config"
	"task-tracker/internal/db"
	"task-tracker/pkg/employee"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/task"
)

// Backend is an opened set of stores.
type Backend struct {
	Kind      string
	Tasks     task.Store
	Employees employee.Store
	Journal   eventgraph.EventStore

	ping  func(context.Context) error
	close func()
}

// Ping checks the underlying connection. Memory backends always succeed.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases the underlying connection.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Memory returns a fresh in-process backend.
func Memory() *Backend {
	return &Backend{
		Kind:      config.BackendMemory,
		Tasks:     task.NewMemStore(),
		Employees: employee.NewMemStore(),
		Journal:   eventgraph.NewMemStore(),
	}
}

// Open connects to the backend cfg names. Postgres tables are created when
// missing. The Redis backend keeps its journal in memory.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Info("using in-memory stores")
		return Memory(), nil

	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		tasks := task.NewPgStore(pool)
		employees := employee.NewPgStore(pool)
		events := eventgraph.NewPgStore(pool)
		for name, ensure := range map[string]func(context.Context) error{
			"tasks":     tasks.EnsureTable,
			"employees": employees.EnsureTable,
			"events":    events.EnsureTable,
		} {
			if err := ensure(ctx); err != nil {
				pool.Close()
				return nil, fmt.Errorf("ensure %s table: %w", name, err)
			}
		}
		log.Info("using postgres stores")
		return &Backend{
			Kind:      config.BackendPostgres,
			Tasks:     tasks,
			Employees: employees,
			Journal:   events,
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil

	case config.BackendRedis:
		client, err := db.Redis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("using redis stores", zap.String("addr", cfg.RedisAddr), zap.String("prefix", cfg.RedisPrefix))
		return &Backend{
			Kind:      config.BackendRedis,
			Tasks:     task.NewRedisStore(client, cfg.RedisPrefix),
			Employees: employee.NewRedisStore(client, cfg.RedisPrefix),
			Journal:   eventgraph.NewMemStore(),
			ping:      func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close:     func() { client.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}
