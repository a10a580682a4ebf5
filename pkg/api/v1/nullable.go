package v1

import (
	"bytes"
	"encoding/json"
)

// Nullable is a PATCH field with three states: left out (the zero value),
// cleared with JSON null, or set to a value. Tag it with omitzero so an
// unset field is not sent.
type Nullable[T any] struct {
	Value T
	Valid bool
	Set   bool
}

// NullableOf sets the field to v.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Valid: true, Set: true}
}

// Null clears the field on the backend.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n Nullable[T]) IsZero() bool {
	return !n.Set
}

// Ptr returns the value, nil when unset or null.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	var zero T
	n.Value, n.Valid, n.Set = zero, false, true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
