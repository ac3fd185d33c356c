// Package optional models request fields that may be absent from a payload.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field records whether a JSON key was supplied. An explicit null counts as absent.
type Field[T any] struct {
	Value T
	Set   bool
}

func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		f.Set = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Set = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Get returns the value and whether it was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

// AnySet reports whether at least one of the given presence flags is true.
func AnySet(flags ...bool) bool {
	for _, set := range flags {
		if set {
			return true
		}
	}
	return false
}
