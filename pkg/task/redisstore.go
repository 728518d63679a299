package task

import (
	"context"

	"github.com/go-redis/redis/v8"

	"task-tracker/internal/kv"
)

// RedisStore is a Redis-backed task store.
type RedisStore struct {
	kv *kv.Redis[Task]
}

// NewRedisStore creates a RedisStore whose keys start with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{kv: kv.NewRedis[Task](client, prefix+"tasks")}
}

func (s *RedisStore) Put(ctx context.Context, t Task) error { return s.kv.Put(ctx, t.ID, t) }

func (s *RedisStore) Get(ctx context.Context, id string) (Task, bool, error) {
	return s.kv.Get(ctx, id)
}

func (s *RedisStore) Remove(ctx context.Context, id string) error { return s.kv.Remove(ctx, id) }

func (s *RedisStore) List(ctx context.Context) ([]Task, error) { return s.kv.Values(ctx) }
