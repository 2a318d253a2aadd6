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
	"strings"

	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/utils/cast"
)

// JoinStrategy decides which unmatched rows survive a Join.
type JoinStrategy int

const (
	// Inner keeps matched pairs only.
	Inner JoinStrategy = iota
	// Outer keeps every left row, then the unmatched right rows.
	Outer
	// Left keeps every left row.
	Left
	// Right keeps every right row.
	Right
)

func (s JoinStrategy) String() string {
	switch s {
	case Inner:
		return "inner"
	case Outer:
		return "outer"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseJoinStrategy accepts the names returned by JoinStrategy.String.
func ParseJoinStrategy(name string) (JoinStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "inner", "":
		return Inner, nil
	case "outer", "full":
		return Outer, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Inner, fmt.Errorf("invalid join strategy %q", name)
}

// Join combines t with other on t.localKey == other.foreignKey. Keys of
// right-hand rows are prefixed with the join prefix ("right_" by default) so
// they cannot collide with left-hand keys. Values match when their string
// forms are equal; nil never matches.
//
// Every right row pairs with at most one left row: each left row takes the
// first right row with its value that is not already taken. The result rows
// are numbered from zero, in left order followed (for Outer) by the
// unmatched right rows, or in right order for Right.
func (t *Table) Join(other *Table, localKey, foreignKey string, strategy JoinStrategy) *Table {
	prefix := t.cfg.joinPrefix

	left := t.rows.Values()
	right := other.rows.Values()

	// value -> right positions, in order
	index := make(map[string][]int)
	for i, r := range right {
		if v, ok := resolve(r, foreignKey); ok && v != nil {
			id := cast.ToString(v)
			index[id] = append(index[id], i)
		}
	}

	pairOfLeft := make([]int, len(left))
	pairOfRight := make([]int, len(right))
	for i := range pairOfRight {
		pairOfRight[i] = -1
	}
	for i, l := range left {
		pairOfLeft[i] = -1
		v, ok := resolve(l, localKey)
		if !ok || v == nil {
			continue
		}
		id := cast.ToString(v)
		if candidates := index[id]; len(candidates) > 0 {
			pairOfLeft[i] = candidates[0]
			pairOfRight[candidates[0]] = i
			index[id] = candidates[1:]
		}
	}

	out := collection.New()
	switch strategy {
	case Inner:
		for i, l := range left {
			if j := pairOfLeft[i]; j >= 0 {
				out.Push(merge(l, right[j], prefix))
			}
		}
	case Left, Outer:
		for i, l := range left {
			if j := pairOfLeft[i]; j >= 0 {
				out.Push(merge(l, right[j], prefix))
			} else {
				out.Push(merge(l, nil, prefix))
			}
		}
		if strategy == Outer {
			for j, r := range right {
				if pairOfRight[j] < 0 {
					out.Push(merge(nil, r, prefix))
				}
			}
		}
	case Right:
		for j, r := range right {
			if i := pairOfRight[j]; i >= 0 {
				out.Push(merge(left[i], r, prefix))
			} else {
				out.Push(merge(nil, r, prefix))
			}
		}
	}

	t.cfg.log.Debug("%s join on %s=%s produced %d rows", strategy, localKey, foreignKey, out.Len())
	return t.derive(out)
}

// merge builds the union of a left row and a prefixed right row. Either side
// may be nil. A non-container row on its own is returned unchanged.
func merge(left, right interface{}, prefix string) interface{} {
	lm, lok := left.(*collection.Map)
	rm, rok := right.(*collection.Map)
	switch {
	case right == nil && !lok:
		return left
	case left == nil && !rok:
		return right
	}

	out := collection.New()
	if lok {
		lm.Range(func(k string, v interface{}) bool {
			out.Set(k, v)
			return true
		})
	}
	if rok {
		rm.Range(func(k string, v interface{}) bool {
			out.Set(prefix+k, v)
			return true
		})
	}
	return out
}
