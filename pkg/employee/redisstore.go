package employee

import (
	"context"

	"github.com/go-redis/redis/v8"

	"task-tracker/internal/kv"
)

// RedisStore is a Redis-backed employee store.
type RedisStore struct {
	kv *kv.Redis[Employee]
}

// NewRedisStore creates a RedisStore whose keys start with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{kv: kv.NewRedis[Employee](client, prefix+"employees")}
}

func (s *RedisStore) Put(ctx context.Context, e Employee) error { return s.kv.Put(ctx, e.ID, e) }

func (s *RedisStore) Get(ctx context.Context, id string) (Employee, bool, error) {
	return s.kv.Get(ctx, id)
}

func (s *RedisStore) List(ctx context.Context) ([]Employee, error) { return s.kv.Values(ctx) }
