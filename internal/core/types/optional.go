package types

import (
	"bytes"
	"encoding/json"
)

// Optional represents a patch field that distinguishes three states:
// absent from the payload, explicitly null, and present with a value.
// The distinction matters for updates where null means "clear the field"
// while an absent field means "leave unchanged".
type Optional[T any] struct {
	// Set is true when the field appeared in the payload at all.
	Set bool
	// Valid is true when the field carried a non-null value.
	Valid bool
	// Value holds the decoded value when Valid.
	Value T
}

// NewOptional returns a present, non-null Optional.
func NewOptional[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// NullOptional returns a present-but-null Optional.
func NullOptional[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Get returns the value and whether it is usable (present and non-null).
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set && o.Valid
}

// IsNull reports an explicit null (present in the payload, no value).
func (o Optional[T]) IsNull() bool {
	return o.Set && !o.Valid
}

// UnmarshalJSON is only invoked for fields present in the payload,
// so Set is always true here; absent fields keep the zero Optional.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON encodes null for null-or-absent, the value otherwise.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
