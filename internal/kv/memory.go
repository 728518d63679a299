// Package kv provides the ordered key-value collections behind the record
// stores. Every collection maps a unique string key to a value and enumerates
// values in insertion order; replacing an existing key keeps its position.
package kv

import (
	"context"
	"sync"
)

// Memory is an in-process collection. Values are stored and returned by
// value, so callers never hold a reference into the collection.
type Memory[V any] struct {
	mu    sync.Mutex
	items map[string]V
	order []string // insertion order for stable enumeration
}

// NewMemory creates an empty collection.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{items: make(map[string]V)}
}

// Put inserts v under key, replacing any existing value.
func (m *Memory[V]) Put(_ context.Context, key string, v V) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = v
	return nil
}

// Get returns the value under key and whether it exists.
func (m *Memory[V]) Get(_ context.Context, key string) (V, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// Remove deletes key. Removing a missing key is a no-op.
func (m *Memory[V]) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		return nil
	}
	delete(m.items, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Values returns every value in insertion order.
func (m *Memory[V]) Values(_ context.Context) ([]V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]V, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.items[k])
	}
	return out, nil
}
