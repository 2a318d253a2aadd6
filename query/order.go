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
	"fmt"
	"sort"
	"strings"

	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/utils/cast"
)

// SortDirection selects ascending or descending order.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

func (d SortDirection) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ParseSortDirection accepts "asc" and "desc" in any case.
func ParseSortDirection(name string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "asc", "":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return Asc, fmt.Errorf("invalid sort direction %q", name)
}

// Order sorts rows by the value at key. Numbers compare numerically, other
// values by their string form, and missing values sort first in ascending
// order. The sort is stable and row keys are kept.
func (t *Table) Order(key string, dir SortDirection) *Table {
	keys := t.rows.Keys()
	values := make([]interface{}, len(keys))
	for i, k := range keys {
		row, _ := t.rows.Get(k)
		values[i], _ = resolve(row, key)
	}

	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := values[idx[i]], values[idx[j]]
		if dir == Desc {
			a, b = b, a
		}
		return cast.Compare(a, b) < 0
	})

	out := collection.New()
	for _, i := range idx {
		v, _ := t.rows.Get(keys[i])
		out.Set(keys[i], v)
	}
	return t.derive(out)
}
