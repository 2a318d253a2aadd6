package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []FieldPart
		wantErr  bool
	}{
		{
			name: "simple field",
			path: "name",
			expected: []FieldPart{
				{Type: PartField, Name: "name"},
			},
		},
		{
			name: "nested fields",
			path: "device.info.name",
			expected: []FieldPart{
				{Type: PartField, Name: "device"},
				{Type: PartField, Name: "info"},
				{Type: PartField, Name: "name"},
			},
		},
		{
			name: "array index",
			path: "items[0]",
			expected: []FieldPart{
				{Type: PartField, Name: "items"},
				{Type: PartArrayIndex, Index: 0, Key: "0", KeyType: "number"},
			},
		},
		{
			name: "string key",
			path: "config['host']",
			expected: []FieldPart{
				{Type: PartField, Name: "config"},
				{Type: PartMapKey, Key: "host", KeyType: "string"},
			},
		},
		{
			name: "wildcard segment",
			path: "users.*.name",
			expected: []FieldPart{
				{Type: PartField, Name: "users"},
				{Type: PartWildcard},
				{Type: PartField, Name: "name"},
			},
		},
		{
			name: "bracket wildcard",
			path: "users[*]",
			expected: []FieldPart{
				{Type: PartField, Name: "users"},
				{Type: PartWildcard},
			},
		},
		{name: "unmatched bracket", path: "items[0", wantErr: true},
		{name: "invalid bracket content", path: "items[abc]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accessor, err := ParseFieldPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, accessor.Parts)
		})
	}
}

type device struct {
	ID   string
	Tags []string
}

func TestGetNestedField(t *testing.T) {
	data := map[string]interface{}{
		"device": map[string]interface{}{
			"info": map[string]interface{}{"name": "sensor"},
		},
		"items": []interface{}{
			map[string]interface{}{"v": 1},
			map[string]interface{}{"v": 2},
			map[string]interface{}{"w": 3},
		},
		"owner": device{ID: "d1", Tags: []string{"a", "b"}},
	}

	tests := []struct {
		name     string
		path     string
		expected interface{}
		found    bool
	}{
		{"nested map", "device.info.name", "sensor", true},
		{"index", "items[1].v", 2, true},
		{"negative index", "items[-1].w", 3, true},
		{"positional segment", "items.0.v", 1, true},
		{"struct field", "owner.ID", "d1", true},
		{"struct slice", "owner.Tags[1]", "b", true},
		{"wildcard drops misses", "items.*.v", []interface{}{1, 2}, true},
		{"missing", "device.info.age", nil, false},
		{"out of range", "items[5]", nil, false},
		{"empty path", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := GetNestedField(data, tt.path)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, value)
		})
	}
}

type orderedStub struct {
	keys   []string
	values map[string]interface{}
}

func (o *orderedStub) Get(key string) (interface{}, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *orderedStub) Range(fn func(key string, value interface{}) bool) {
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

func TestGetNestedFieldContainer(t *testing.T) {
	rows := &orderedStub{
		keys: []string{"0", "1"},
		values: map[string]interface{}{
			"0": map[string]interface{}{"name": "a"},
			"1": map[string]interface{}{"name": "b"},
		},
	}

	v, found := GetNestedField(rows, "1.name")
	require.True(t, found)
	assert.Equal(t, "b", v)

	v, found = GetNestedField(rows, "[-1].name")
	require.True(t, found)
	assert.Equal(t, "b", v)

	v, found = GetNestedField(rows, "*.name")
	require.True(t, found)
	assert.Equal(t, []interface{}{"a", "b"}, v)
}

func TestValues(t *testing.T) {
	values, ok := Values(map[string]int{"b": 2, "a": 1})
	require.True(t, ok)
	assert.Equal(t, []interface{}{1, 2}, values)

	_, ok = Values(42)
	assert.False(t, ok)
}

func TestExtractTopLevelField(t *testing.T) {
	assert.Equal(t, "device", ExtractTopLevelField("device.info.name"))
	assert.Equal(t, "data", ExtractTopLevelField("data[0].name"))
	assert.Equal(t, "plain", ExtractTopLevelField("plain"))
	assert.True(t, IsNestedField("a.b"))
	assert.False(t, IsNestedField("a"))
}
