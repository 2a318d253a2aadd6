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

package query

import (
	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/utils/cast"
)

// Table is an immutable, ordered set of rows. Every operation returns a new
// Table (or a result value) and leaves the receiver untouched, so a Table may
// be shared between goroutines.
type Table struct {
	rows     *collection.Map
	groupKey string
	cfg      *config
}

// New wraps rows. Each value is normally a *collection.Map; other values are
// kept but never match Where, Filter or Join.
func New(rows *collection.Map, opts ...Option) *Table {
	if rows == nil {
		rows = collection.New()
	}
	return &Table{rows: rows, cfg: newConfig(opts)}
}

// FromRows builds a Table from plain Go maps. Nested maps and slices become
// containers; map keys are read in sorted order.
func FromRows(rows []map[string]interface{}, opts ...Option) *Table {
	m := collection.New()
	for _, r := range rows {
		m.Push(collection.From(r))
	}
	return New(m, opts...)
}

// FromSlice builds a Table from arbitrary values. Maps and slices are
// converted to containers, scalars are kept as is.
func FromSlice(rows []interface{}, opts ...Option) *Table {
	m := collection.New()
	for _, r := range rows {
		m.Push(toRow(r))
	}
	return New(m, opts...)
}

func toRow(v interface{}) interface{} {
	switch v.(type) {
	case nil, string, bool, []byte:
		return v
	}
	if cast.IsNumeric(v) {
		return v
	}
	return collection.From(v)
}

func (t *Table) derive(rows *collection.Map) *Table {
	return &Table{rows: rows, groupKey: t.groupKey, cfg: t.cfg}
}

// Rows returns the underlying rows. Callers must not modify them.
func (t *Table) Rows() *collection.Map {
	return t.rows
}

// Count returns the number of rows.
func (t *Table) Count() int {
	return t.rows.Len()
}

// GroupKey returns the key set by Group, or "".
func (t *Table) GroupKey() string {
	return t.groupKey
}

// Group returns a copy of t whose aggregates (Sum, Average, Max, Min, Clamp
// and Aggregate) produce one result per distinct value of key.
func (t *Table) Group(key string) *Table {
	return &Table{rows: t.rows, groupKey: key, cfg: t.cfg}
}

// Limit keeps the first n rows.
func (t *Table) Limit(n int) *Table {
	return t.derive(t.rows.Slice(0, n))
}

// Offset drops the first n rows.
func (t *Table) Offset(n int) *Table {
	return t.derive(t.rows.Slice(n, -1))
}

// Union appends the rows of others. Positional keys are renumbered, named
// keys of later tables overwrite earlier ones.
func (t *Table) Union(others ...*Table) *Table {
	maps := make([]*collection.Map, 0, len(others))
	for _, o := range others {
		if o != nil {
			maps = append(maps, o.rows)
		}
	}
	return t.derive(t.rows.Merge(maps...))
}

// Distinct returns the first occurrence of every distinct value of key,
// under the key of the row it came from. Rows without the key are skipped.
func (t *Table) Distinct(key string) *Table {
	seen := make(map[string]bool)
	out := collection.New()
	t.rows.Range(func(k string, v interface{}) bool {
		value, ok := resolve(v, key)
		if !ok || value == nil {
			return true
		}
		id := cast.ToString(value)
		if !seen[id] {
			seen[id] = true
			out.Set(k, value)
		}
		return true
	})
	return t.derive(out)
}

// Insert returns a copy of t with value stored at path. A "+" segment
// appends a positional entry, so Insert("+", row) adds a row and
// Insert("0.tags.+", "x") appends to the tags of the first row.
func (t *Table) Insert(path string, value interface{}) *Table {
	rows := t.rows.Clone()
	rows.SetPath(path, toRow(value))
	return t.derive(rows)
}

// Contains reports whether a row loosely equals v, or, when v is a
// container, whether a row holds the same entries.
func (t *Table) Contains(v interface{}) bool {
	if m, ok := v.(*collection.Map); ok {
		want := m.String()
		found := false
		t.rows.Range(func(_ string, row interface{}) bool {
			if r, ok := row.(*collection.Map); ok && r.String() == want {
				found = true
				return false
			}
			return true
		})
		return found
	}
	return t.rows.Includes(v)
}

// resolve looks key up in a row. Non-container rows resolve nothing.
func resolve(row interface{}, key string) (interface{}, bool) {
	m, ok := row.(*collection.Map)
	if !ok {
		return nil, false
	}
	return m.Resolve(key)
}
