package fieldpath

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/rulego/rowq/utils/reflectutil"
)

// Getter is implemented by containers that resolve their own keys,
// such as collection.Map.
type Getter interface {
	Get(key string) (interface{}, bool)
}

// Ranger enumerates a container's entries in their natural order.
type Ranger interface {
	Range(fn func(key string, value interface{}) bool)
}

// Part types
const (
	PartField      = "field"
	PartArrayIndex = "array_index"
	PartMapKey     = "map_key"
	PartWildcard   = "wildcard"
)

// FieldAccessor field accessor structure for parsing complex field paths
type FieldAccessor struct {
	Parts []FieldPart
}

// FieldPart represents a single part of field path
type FieldPart struct {
	Type    string // PartField, PartArrayIndex, PartMapKey or PartWildcard
	Name    string // Field name
	Index   int    // Array index (when Type is PartArrayIndex)
	Key     string // Map key, or the raw index text
	KeyType string // "string" or "number"
}

// ParseFieldPath parses a path made of dot separated segments with optional
// bracket access. Supported formats:
//   - a.b.c (nested fields)
//   - a.0.b (positional key, works on lists and ordered containers)
//   - a.b[0], a.b[-1] (array index, negative counts from the end)
//   - a.b["key"], a.b['key'] (string key)
//   - a.*.b, a[*].b (every value at this level)
func ParseFieldPath(fieldPath string) (*FieldAccessor, error) {
	if fieldPath == "" {
		return nil, nil
	}

	accessor := &FieldAccessor{
		Parts: make([]FieldPart, 0),
	}

	for _, part := range strings.Split(fieldPath, ".") {
		if part == "" {
			continue
		}

		switch {
		case part == "*":
			accessor.Parts = append(accessor.Parts, FieldPart{Type: PartWildcard})
		case strings.Contains(part, "["):
			if err := parseComplexPart(part, accessor); err != nil {
				return nil, err
			}
		default:
			accessor.Parts = append(accessor.Parts, FieldPart{
				Type: PartField,
				Name: part,
			})
		}
	}

	return accessor, nil
}

// parseComplexPart parses a segment such as items[0]['name']
func parseComplexPart(part string, accessor *FieldAccessor) error {
	bracketIndex := strings.Index(part, "[")

	if bracketIndex > 0 {
		accessor.Parts = append(accessor.Parts, FieldPart{
			Type: PartField,
			Name: part[:bracketIndex],
		})
	}

	remaining := part[bracketIndex:]
	for len(remaining) > 0 {
		if !strings.HasPrefix(remaining, "[") {
			return &FieldAccessError{
				Path:    part,
				Message: "unexpected text after bracket",
			}
		}

		rightBracket := strings.Index(remaining, "]")
		if rightBracket == -1 {
			return &FieldAccessError{
				Path:    part,
				Message: "unmatched bracket in field path",
			}
		}

		fieldPart, err := parseBracketContent(remaining[1:rightBracket])
		if err != nil {
			return err
		}
		accessor.Parts = append(accessor.Parts, fieldPart)

		remaining = remaining[rightBracket+1:]
	}

	return nil
}

// parseBracketContent parses content within brackets
func parseBracketContent(content string) (FieldPart, error) {
	content = strings.TrimSpace(content)

	if content == "*" {
		return FieldPart{Type: PartWildcard}, nil
	}

	if len(content) >= 2 &&
		((content[0] == '\'' && content[len(content)-1] == '\'') ||
			(content[0] == '"' && content[len(content)-1] == '"')) {
		return FieldPart{
			Type:    PartMapKey,
			Key:     content[1 : len(content)-1],
			KeyType: "string",
		}, nil
	}

	if num, err := strconv.Atoi(content); err == nil {
		return FieldPart{
			Type:    PartArrayIndex,
			Index:   num,
			Key:     content,
			KeyType: "number",
		}, nil
	}

	return FieldPart{}, &FieldAccessError{
		Path:    content,
		Message: "invalid bracket content, expected number, * or quoted string",
	}
}

// GetNestedField resolves fieldPath against data. data may be an ordered
// container (Getter/Ranger), a map, a slice or a struct, nested arbitrarily.
// A wildcard segment yields a []interface{} holding the remaining path
// resolved against every value at that level; values where the rest of the
// path is missing are dropped.
func GetNestedField(data interface{}, fieldPath string) (interface{}, bool) {
	accessor, err := ParseFieldPath(fieldPath)
	if err != nil || accessor == nil || len(accessor.Parts) == 0 {
		return nil, false
	}
	return walk(data, accessor.Parts)
}

func walk(current interface{}, parts []FieldPart) (interface{}, bool) {
	for i, part := range parts {
		if part.Type == PartWildcard {
			elems, ok := Values(current)
			if !ok {
				return nil, false
			}
			rest := parts[i+1:]
			out := make([]interface{}, 0, len(elems))
			for _, elem := range elems {
				if v, found := walk(elem, rest); found {
					out = append(out, v)
				}
			}
			return out, true
		}

		v, found := accessFieldPart(current, part)
		if !found {
			return nil, false
		}
		current = v
	}
	return current, true
}

// Values lists the values held by a container, slice, map or struct.
// Plain maps are walked in sorted key order.
func Values(data interface{}) ([]interface{}, bool) {
	if r, ok := data.(Ranger); ok {
		var out []interface{}
		r.Range(func(_ string, v interface{}) bool {
			out = append(out, v)
			return true
		})
		return out, true
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, v.Len())
		for i := range out {
			out[i] = v.Index(i).Interface()
		}
		return out, true
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		out := make([]interface{}, len(keys))
		for i, k := range keys {
			out[i] = v.MapIndex(k).Interface()
		}
		return out, true
	case reflect.Struct:
		var out []interface{}
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				out = append(out, v.Field(i).Interface())
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// accessFieldPart accesses a single field part
func accessFieldPart(data interface{}, part FieldPart) (interface{}, bool) {
	if data == nil {
		return nil, false
	}

	if g, ok := data.(Getter); ok {
		return getContainerPart(g, data, part)
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch part.Type {
	case PartField:
		return getFieldValue(v, part.Name)
	case PartArrayIndex:
		return getArrayElement(v, part.Index)
	case PartMapKey:
		return getMapValue(v, part.Key, part.KeyType)
	default:
		return nil, false
	}
}

func getContainerPart(g Getter, data interface{}, part FieldPart) (interface{}, bool) {
	switch part.Type {
	case PartField:
		return g.Get(part.Name)
	case PartMapKey:
		return g.Get(part.Key)
	case PartArrayIndex:
		if part.Index >= 0 {
			return g.Get(part.Key)
		}
		// negative indexes count positions, not keys
		elems, ok := Values(data)
		if !ok || len(elems)+part.Index < 0 {
			return nil, false
		}
		return elems[len(elems)+part.Index], true
	default:
		return nil, false
	}
}

// getArrayElement gets array or slice element
func getArrayElement(v reflect.Value, index int) (interface{}, bool) {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		length := v.Len()

		// Support negative index (from end)
		if index < 0 {
			index = length + index
		}

		if index < 0 || index >= length {
			return nil, false
		}

		return v.Index(index).Interface(), true

	case reflect.Map:
		return getMapValue(v, strconv.Itoa(index), "number")

	default:
		return nil, false
	}
}

// getMapValue gets Map value
func getMapValue(v reflect.Value, key, keyType string) (interface{}, bool) {
	if v.Kind() != reflect.Map {
		return nil, false
	}

	if v.Type().Key().Kind() == reflect.String {
		mapVal := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if mapVal.IsValid() {
			return mapVal.Interface(), true
		}
		return nil, false
	}

	if keyType == "number" && v.Type().Key().Kind() == reflect.Int {
		if num, err := strconv.Atoi(key); err == nil {
			mapVal := v.MapIndex(reflect.ValueOf(num))
			if mapVal.IsValid() {
				return mapVal.Interface(), true
			}
		}
	}

	return nil, false
}

// getFieldValue gets a named value from a map, struct or list
func getFieldValue(v reflect.Value, fieldName string) (interface{}, bool) {
	switch v.Kind() {
	case reflect.Map:
		return getMapValue(v, fieldName, "string")

	case reflect.Struct:
		fieldVal, err := reflectutil.SafeFieldByName(v, fieldName)
		if err != nil || !fieldVal.CanInterface() {
			return nil, false
		}
		return fieldVal.Interface(), true

	case reflect.Slice, reflect.Array:
		// positional segments such as rows.0.name
		if index, err := strconv.Atoi(fieldName); err == nil {
			return getArrayElement(v, index)
		}
		return nil, false

	default:
		return nil, false
	}
}

// IsNestedField checks if field name contains dots or brackets (nested field)
func IsNestedField(fieldName string) bool {
	return strings.Contains(fieldName, ".") || strings.Contains(fieldName, "[")
}

// ExtractTopLevelField extracts top-level field name from nested field path
// Examples: "device.info.name" returns "device"
//
//	"data[0].name" returns "data"
func ExtractTopLevelField(fieldPath string) string {
	if i := strings.IndexAny(fieldPath, ".["); i > 0 {
		return fieldPath[:i]
	}
	return fieldPath
}

// FieldAccessError field access error
type FieldAccessError struct {
	Path    string
	Message string
}

func (e *FieldAccessError) Error() string {
	return fmt.Sprintf("field access error for path '%s': %s", e.Path, e.Message)
}
