package parser

import (
	"fmt"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
	"github.com/tidwall/gjson"
)

// ParseFields reads the "fields" object of a DTO definition in document
// order. A repeated key keeps its first position and its last value.
func ParseFields(raw []byte) ([]types.Field, error) {
	result := gjson.GetBytes(raw, "fields")
	if !result.Exists() || result.Type == gjson.Null {
		return []types.Field{}, nil
	}
	if !result.IsObject() {
		return nil, fmt.Errorf("'fields' must be an object of name to type, got %s", describe(result))
	}

	fields := []types.Field{}
	index := make(map[string]int)
	var err error

	result.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = fmt.Errorf("field %q: type must be a string, got %s", key.String(), describe(value))
			return false
		}

		name := key.String()
		if i, ok := index[name]; ok {
			fields[i].Type = value.String()
			return true
		}

		index[name] = len(fields)
		fields = append(fields, types.Field{Name: name, Type: value.String()})
		return true
	})

	if err != nil {
		return nil, err
	}
	return fields, nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	case r.Type == gjson.Number:
		return "number"
	case r.IsBool():
		return "boolean"
	case r.Type == gjson.Null:
		return "null"
	default:
		return "string"
	}
}
