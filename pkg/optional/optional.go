// Package optional provides an explicit present/absent value.
//
// Fields like a task's assignee or last-updated time are either set or not;
// Value keeps "absent" distinct from any zero value of T.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds either a T or nothing. The zero Value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Some returns a present Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromPtr converts a nullable pointer (as scanned from SQL) into a Value.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the held value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSome reports whether a value is present.
func (o Value[T]) IsSome() bool { return o.ok }

// OrZero returns the held value, or the zero T when absent.
func (o Value[T]) OrZero() T {
	return o.v
}

// Ptr returns a pointer to a copy of the held value, or nil when absent.
func (o Value[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}

// MarshalJSON renders an absent value as null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

// UnmarshalJSON treats null as absent.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
