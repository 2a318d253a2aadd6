/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package collection

import (
	"reflect"
	"sort"
	"strconv"

	"github.com/rulego/rowq/utils/cast"
)

// Map is an insertion-ordered mapping from string keys to values. Values may
// be nested *Map instances. Positional entries use decimal keys ("0", "1", ...).
// The zero value is not usable; create instances with New or From.
type Map struct {
	keys  []string
	items map[string]interface{}
	// next is one past the largest non-negative integer key present
	next int
}

// New creates an empty Map.
func New() *Map {
	return &Map{items: make(map[string]interface{})}
}

// FromPairs builds a Map from alternating key/value arguments, keeping the
// argument order. Keys are rendered with cast.ToString.
func FromPairs(pairs ...interface{}) *Map {
	m := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(cast.ToString(pairs[i]), normalize(pairs[i+1]))
	}
	return m
}

// From converts v into a Map. Go maps are read in sorted key order, slices
// become positional entries, and nested maps and slices are converted
// recursively. A *Map is returned as is; any other value becomes a single
// positional entry.
func From(v interface{}) *Map {
	if m, ok := v.(*Map); ok {
		return m
	}
	if m, ok := normalize(v).(*Map); ok {
		return m
	}
	m := New()
	m.Push(v)
	return m
}

// normalize turns Go maps and slices (except []byte) into *Map values.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, *Map, []byte:
		return v
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := New()
		for _, k := range keys {
			m.Set(k, normalize(x[k]))
		}
		return m
	case []interface{}:
		m := New()
		for _, e := range x {
			m.Push(normalize(e))
		}
		return m
	case []map[string]interface{}:
		m := New()
		for _, e := range x {
			m.Push(normalize(e))
		}
		return m
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		m := New()
		for i := 0; i < rv.Len(); i++ {
			m.Push(normalize(rv.Index(i).Interface()))
		}
		return m
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return cast.ToString(keys[i].Interface()) < cast.ToString(keys[j].Interface())
		})
		m := New()
		for _, k := range keys {
			m.Set(cast.ToString(k.Interface()), normalize(rv.MapIndex(k).Interface()))
		}
		return m
	}
	return v
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Count is an alias of Len.
func (m *Map) Count() int {
	return m.Len()
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in insertion order.
func (m *Map) Values() []interface{} {
	out := make([]interface{}, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.items[k]
	}
	return out
}

// Has reports whether key exists. The key is not treated as a path.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.items[key]
	return ok
}

// HasAny reports whether at least one of keys exists.
func (m *Map) HasAny(keys ...string) bool {
	for _, k := range keys {
		if m.Has(k) {
			return true
		}
	}
	return false
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.items[key]
	return v, ok
}

// MustGet returns the value stored under key or a KeyMissingError.
func (m *Map) MustGet(key string) (interface{}, error) {
	v, ok := m.items[key]
	if !ok {
		return nil, &KeyMissingError{Key: key}
	}
	return v, nil
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (m *Map) Set(key string, value interface{}) *Map {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
		if n, ok := intKey(key); ok && n >= m.next {
			m.next = n + 1
		}
	}
	m.items[key] = value
	return m
}

// Push appends value under the next positional key, one past the largest
// non-negative integer key present, and returns that key.
func (m *Map) Push(value interface{}) string {
	key := strconv.Itoa(m.next)
	m.Set(key, value)
	return key
}

// Delete removes key and reports whether it existed.
func (m *Map) Delete(key string) bool {
	if _, ok := m.items[key]; !ok {
		return false
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	if n, ok := intKey(key); ok && n+1 == m.next {
		m.next = 0
		for _, k := range m.keys {
			if n, ok := intKey(k); ok && n >= m.next {
				m.next = n + 1
			}
		}
	}
	return true
}

// Range calls fn for every entry in order until fn returns false.
func (m *Map) Range(fn func(key string, value interface{}) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.items[k]) {
			return
		}
	}
}

// Index returns the entry at position i.
func (m *Map) Index(i int) (string, interface{}, bool) {
	if i < 0 || i >= len(m.keys) {
		return "", nil, false
	}
	k := m.keys[i]
	return k, m.items[k], true
}

// First returns the first value.
func (m *Map) First() (interface{}, bool) {
	_, v, ok := m.Index(0)
	return v, ok
}

// Last returns the last value.
func (m *Map) Last() (interface{}, bool) {
	_, v, ok := m.Index(len(m.keys) - 1)
	return v, ok
}

// Includes reports whether any value loosely equals v.
func (m *Map) Includes(v interface{}) bool {
	for _, k := range m.keys {
		if cast.LooseEqual(m.items[k], v) {
			return true
		}
	}
	return false
}

// Search returns the key of the first value loosely equal to v.
func (m *Map) Search(v interface{}) (string, bool) {
	for _, k := range m.keys {
		if cast.LooseEqual(m.items[k], v) {
			return k, true
		}
	}
	return "", false
}

// Filter returns a new Map holding the entries fn accepts, keys preserved.
func (m *Map) Filter(fn func(key string, value interface{}) bool) *Map {
	out := New()
	for _, k := range m.keys {
		if fn(k, m.items[k]) {
			out.Set(k, m.items[k])
		}
	}
	return out
}

// Transform returns a new Map with every value replaced by fn's result,
// keys preserved.
func (m *Map) Transform(fn func(key string, value interface{}) interface{}) *Map {
	out := New()
	for _, k := range m.keys {
		out.Set(k, fn(k, m.items[k]))
	}
	return out
}

// Slice returns up to length entries starting at position start; a negative
// length means "to the end". String keys are preserved, positional keys are
// renumbered from zero.
func (m *Map) Slice(start, length int) *Map {
	if start < 0 {
		start = 0
	}
	end := len(m.keys)
	if length >= 0 && start+length < end {
		end = start + length
	}
	out := New()
	for i := start; i < end; i++ {
		k := m.keys[i]
		if _, ok := intKey(k); ok {
			out.Push(m.items[k])
		} else {
			out.Set(k, m.items[k])
		}
	}
	return out
}

// Reindex returns the values under positional keys 0..n-1.
func (m *Map) Reindex() *Map {
	out := New()
	for _, k := range m.keys {
		out.Push(m.items[k])
	}
	return out
}

// Merge returns a new Map with the entries of m followed by those of others.
// String keys overwrite earlier values; positional keys are appended.
func (m *Map) Merge(others ...*Map) *Map {
	out := New()
	for _, src := range append([]*Map{m}, others...) {
		if src == nil {
			continue
		}
		for _, k := range src.keys {
			if _, ok := intKey(k); ok {
				out.Push(src.items[k])
			} else {
				out.Set(k, src.items[k])
			}
		}
	}
	return out
}

// IsList reports whether the keys are exactly "0".."n-1" in order.
func (m *Map) IsList() bool {
	for i, k := range m.keys {
		if k != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

func intKey(k string) (int, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.Atoi(k)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
