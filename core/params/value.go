// Package params wraps loosely typed JSON values so callers can read them
// through typed views without checking the underlying type first.
//
// A view that does not match the wrapped value returns the zero value of the
// view ("", 0, false, an empty slice or an empty map), so a wrong-typed value
// reads the same as a present default.
package params

import (
	"encoding/json"
	"fmt"
)

// Value is an immutable wrapper around a decoded JSON value.
type Value struct {
	raw any
}

// New wraps raw. Any Go value that encoding/json can marshal is accepted;
// nested Values are kept as they are.
func New(raw any) Value {
	if v, ok := raw.(Value); ok {
		return v
	}
	return Value{raw: raw}
}

// Map wraps every entry of m.
func Map(m map[string]any) map[string]Value {
	wrapped := make(map[string]Value, len(m))
	for key, raw := range m {
		wrapped[key] = New(raw)
	}
	return wrapped
}

// Raw returns the wrapped value untouched.
func (v Value) Raw() any {
	return v.raw
}

func (v Value) IsNull() bool {
	return v.raw == nil
}

func (v Value) AsString() string {
	if s, ok := v.raw.(string); ok {
		return s
	}
	return ""
}

// AsFloat returns the value as a float64 for any Go numeric type or
// json.Number, and 0 otherwise.
func (v Value) AsFloat() float64 {
	switch n := v.raw.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func (v Value) AsBool() bool {
	if b, ok := v.raw.(bool); ok {
		return b
	}
	return false
}

// AsArray returns the elements of a wrapped JSON array. The result is never nil.
func (v Value) AsArray() []Value {
	switch items := v.raw.(type) {
	case []any:
		wrapped := make([]Value, 0, len(items))
		for _, item := range items {
			wrapped = append(wrapped, New(item))
		}
		return wrapped
	case []Value:
		return append(make([]Value, 0, len(items)), items...)
	case []string:
		wrapped := make([]Value, 0, len(items))
		for _, item := range items {
			wrapped = append(wrapped, New(item))
		}
		return wrapped
	}
	return []Value{}
}

// AsMap returns the members of a wrapped JSON object. The result is never nil.
func (v Value) AsMap() map[string]Value {
	switch members := v.raw.(type) {
	case map[string]any:
		return Map(members)
	case map[string]Value:
		wrapped := make(map[string]Value, len(members))
		for key, member := range members {
			wrapped[key] = member
		}
		return wrapped
	}
	return map[string]Value{}
}

func (v Value) String() string {
	return fmt.Sprintf("%v", v.raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("error unmarshalling parameter value: %w", err)
	}
	v.raw = raw
	return nil
}
