package cli

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/koscakluka/pullstring-core/core/responses"
)

// parseAssignment splits a name=value argument.
func parseAssignment(arg string) (string, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", arg)
	}
	return name, value, nil
}

// parseValue reads value as JSON when it is valid JSON and as a plain
// string otherwise, so that score=3 is a number and name=Ann a string.
func parseValue(value string) gjson.Result {
	if gjson.Valid(value) {
		return gjson.Parse(value)
	}
	return gjson.Result{Type: gjson.String, Str: value, Raw: value}
}

func parseEntities(args []string) ([]responses.Entity, error) {
	entities := make([]responses.Entity, 0, len(args))
	for _, arg := range args {
		name, raw, err := parseAssignment(arg)
		if err != nil {
			return nil, err
		}

		value := parseValue(raw)
		switch {
		case value.IsArray():
			items := []any{}
			for _, item := range value.Array() {
				items = append(items, item.Value())
			}
			entities = append(entities, responses.List{Name: name, Value: items})
		case value.IsBool():
			entities = append(entities, responses.Flag{Name: name, Value: value.Bool()})
		case value.Type == gjson.Number:
			entities = append(entities, responses.Counter{Name: name, Value: value.Float()})
		case value.Type == gjson.String:
			entities = append(entities, responses.Label{Name: name, Value: value.String()})
		default:
			return nil, fmt.Errorf("unsupported value for entity %s: %s", name, raw)
		}
	}
	return entities, nil
}

func parseParameters(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}

	parameters := make(map[string]any, len(args))
	for _, arg := range args {
		name, raw, err := parseAssignment(arg)
		if err != nil {
			return nil, err
		}
		parameters[name] = parseValue(raw).Value()
	}
	return parameters, nil
}
