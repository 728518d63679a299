package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Redis is a collection stored in Redis under three keys:
//
//	<name>:items  hash of key -> JSON value
//	<name>:order  sorted set of keys scored by insertion sequence
//	<name>:seq    counter feeding the sequence
type Redis[V any] struct {
	client *redis.Client
	name   string
}

// NewRedis creates a collection named name on client.
func NewRedis[V any](client *redis.Client, name string) *Redis[V] {
	return &Redis[V]{client: client, name: name}
}

func (r *Redis[V]) itemsKey() string { return r.name + ":items" }
func (r *Redis[V]) orderKey() string { return r.name + ":order" }
func (r *Redis[V]) seqKey() string   { return r.name + ":seq" }

// Put inserts v under key, replacing any existing value. A replaced key keeps
// its original position.
func (r *Redis[V]) Put(ctx context.Context, key string, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", r.name, key, err)
	}
	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("next sequence %s: %w", r.name, err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.itemsKey(), key, data)
		pipe.ZAddNX(ctx, r.orderKey(), &redis.Z{Score: float64(seq), Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", r.name, key, err)
	}
	return nil
}

// Get returns the value under key and whether it exists.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var v V
	data, err := r.client.HGet(ctx, r.itemsKey(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("get %s/%s: %w", r.name, key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("unmarshal %s/%s: %w", r.name, key, err)
	}
	return v, true, nil
}

// Remove deletes key. Removing a missing key is a no-op.
func (r *Redis[V]) Remove(ctx context.Context, key string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, r.itemsKey(), key)
		pipe.ZRem(ctx, r.orderKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", r.name, key, err)
	}
	return nil
}

// Values returns every value in insertion order.
func (r *Redis[V]) Values(ctx context.Context) ([]V, error) {
	keys, err := r.client.ZRange(ctx, r.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	raw, err := r.client.HMGet(ctx, r.itemsKey(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	out := make([]V, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			// order entry without a value; a concurrent Remove raced the read
			continue
		}
		var v V
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("unmarshal %s/%s: %w", r.name, keys[i], err)
		}
		out = append(out, v)
	}
	return out, nil
}
