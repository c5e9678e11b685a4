package params

import (
	"encoding/json"
	"testing"
)

func TestViewsReturnZeroValuesOnTypeMismatch(t *testing.T) {
	testCases := []struct {
		name string
		raw  any
	}{
		{name: "nil", raw: nil},
		{name: "string", raw: "text"},
		{name: "number", raw: 42.5},
		{name: "bool", raw: true},
		{name: "array", raw: []any{"a"}},
		{name: "object", raw: map[string]any{"a": 1.0}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			value := New(testCase.raw)

			if _, ok := testCase.raw.(string); !ok && value.AsString() != "" {
				t.Fatalf("expected empty string view, got %q", value.AsString())
			}
			if _, ok := testCase.raw.(float64); !ok && value.AsFloat() != 0 {
				t.Fatalf("expected zero float view, got %v", value.AsFloat())
			}
			if _, ok := testCase.raw.(bool); !ok && value.AsBool() {
				t.Fatalf("expected false bool view")
			}
			if _, ok := testCase.raw.([]any); !ok {
				if array := value.AsArray(); array == nil || len(array) != 0 {
					t.Fatalf("expected empty non-nil array view, got %#v", array)
				}
			}
			if _, ok := testCase.raw.(map[string]any); !ok {
				if members := value.AsMap(); members == nil || len(members) != 0 {
					t.Fatalf("expected empty non-nil map view, got %#v", members)
				}
			}
		})
	}
}

func TestMatchingViews(t *testing.T) {
	if got := New("hi").AsString(); got != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
	if got := New(3).AsFloat(); got != 3 {
		t.Fatalf("expected integer to be viewed as 3, got %v", got)
	}
	if got := New(json.Number("1.5")).AsFloat(); got != 1.5 {
		t.Fatalf("expected json number to be viewed as 1.5, got %v", got)
	}
	if !New(true).AsBool() {
		t.Fatalf("expected true bool view")
	}
}

func TestCollectionsAreWrappedElementWise(t *testing.T) {
	var decoded any
	if err := json.Unmarshal([]byte(`{"list":[1,"two",{"three":true}],"name":"x"}`), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	members := New(decoded).AsMap()
	if got := members["name"].AsString(); got != "x" {
		t.Fatalf("expected name %q, got %q", "x", got)
	}

	list := members["list"].AsArray()
	if len(list) != 3 {
		t.Fatalf("expected 3 list items, got %d", len(list))
	}
	if list[0].AsFloat() != 1 || list[1].AsString() != "two" {
		t.Fatalf("unexpected list items: %v, %v", list[0], list[1])
	}
	if !list[2].AsMap()["three"].AsBool() {
		t.Fatalf("expected nested map member to be true")
	}
}

func TestRawIsPreserved(t *testing.T) {
	raw := []any{"a", 1.0}
	value := New(raw)

	preserved, ok := value.Raw().([]any)
	if !ok || len(preserved) != 2 || preserved[0] != "a" {
		t.Fatalf("expected raw value to be preserved, got %#v", value.Raw())
	}
}

func TestMarshalNestedValues(t *testing.T) {
	payload := map[string]Value{
		"count": New(2),
		"tags":  New([]Value{New("a"), New(false)}),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, expected := string(data), `{"count":2,"tags":["a",false]}`; got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}

func TestUnmarshal(t *testing.T) {
	var value Value
	if err := json.Unmarshal([]byte(`{"a":[true]}`), &value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.AsMap()["a"].AsArray()[0].AsBool() {
		t.Fatalf("expected nested true, got %v", value)
	}
}
