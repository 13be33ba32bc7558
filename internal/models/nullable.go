package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Nullable is a partial-update field. It tells an absent key (Set=false)
// from an explicit null (Set, !Valid) and from a value (Set, Valid).
type Nullable[T any] struct {
	Value T
	Valid bool
	Set   bool
}

type (
	NullableString = Nullable[string]
	NullableTime   = Nullable[time.Time]
	NullableInt    = Nullable[int]
)

var jsonNull = []byte("null")

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	var zero T
	n.Set = true
	n.Value = zero
	n.Valid = false

	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// ToPtr returns nil when the value is null or absent
func (n Nullable[T]) ToPtr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
