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
	"strings"

	"github.com/rulego/rowq/utils/fieldpath"
)

// AppendSegment in a SetPath path appends a new positional entry instead of
// addressing an existing key.
const AppendSegment = "+"

// Resolve looks path up. A key that exists verbatim wins; otherwise the path
// is walked through nested containers, maps, slices and structs (see
// fieldpath.GetNestedField for the supported syntax, including "*").
func (m *Map) Resolve(path string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m.items[path]; ok {
		return v, true
	}
	if !fieldpath.IsNestedField(path) && !strings.Contains(path, "*") {
		return nil, false
	}
	return fieldpath.GetNestedField(m, path)
}

// HasPath reports whether Resolve finds path.
func (m *Map) HasPath(path string) bool {
	_, ok := m.Resolve(path)
	return ok
}

// SetPath stores value at a dotted path, creating intermediate Maps as
// needed. Intermediate values that are not Maps are replaced. A "+" segment
// appends a positional entry.
func (m *Map) SetPath(path string, value interface{}) *Map {
	segments := strings.Split(path, ".")
	current := m
	for i, seg := range segments {
		last := i == len(segments)-1
		if last {
			if seg == AppendSegment {
				current.Push(value)
			} else {
				current.Set(seg, value)
			}
			break
		}

		if seg == AppendSegment {
			next := New()
			current.Push(next)
			current = next
			continue
		}

		next, ok := current.items[seg].(*Map)
		if !ok {
			next = New()
			current.Set(seg, next)
		}
		current = next
	}
	return m
}

// Flatten returns a single level Map whose keys are the nested key paths
// joined by delimiter.
func (m *Map) Flatten(delimiter string) *Map {
	out := New()
	m.flattenInto(out, delimiter, "")
	return out
}

func (m *Map) flattenInto(out *Map, delimiter, prefix string) {
	for _, k := range m.keys {
		key := k
		if prefix != "" {
			key = prefix + delimiter + k
		}
		if child, ok := m.items[k].(*Map); ok {
			child.flattenInto(out, delimiter, key)
			continue
		}
		out.Set(key, m.items[k])
	}
}
