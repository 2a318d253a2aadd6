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
	"regexp"
	"strings"

	"github.com/rulego/rowq/aggregator"
	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/expr"
	"github.com/rulego/rowq/utils/cast"
)

var selectCallPattern = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\((.*)\)$`)

// selectFunc is a table operation callable from Select as name(args...).
type selectFunc func(t *Table, args []string) (interface{}, error)

// selectFuncs is the closed set of operations Select dispatches to.
var selectFuncs = map[string]selectFunc{
	"sum":     aggregateFunc(aggregator.Sum),
	"average": aggregateFunc(aggregator.Avg),
	"avg":     aggregateFunc(aggregator.Avg),
	"median":  aggregateFunc(aggregator.Median),
	"stddev":  aggregateFunc(aggregator.StdDev),
	"max": func(t *Table, args []string) (interface{}, error) {
		if err := arity("max", args, 1, 2); err != nil {
			return nil, err
		}
		limits, err := floats(args[1:])
		if err != nil {
			return nil, err
		}
		return t.Max(args[0], limits...), nil
	},
	"min": func(t *Table, args []string) (interface{}, error) {
		if err := arity("min", args, 1, 2); err != nil {
			return nil, err
		}
		limits, err := floats(args[1:])
		if err != nil {
			return nil, err
		}
		return t.Min(args[0], limits...), nil
	},
	"clamp": func(t *Table, args []string) (interface{}, error) {
		if err := arity("clamp", args, 3, 3); err != nil {
			return nil, err
		}
		bounds, err := floats(args[1:])
		if err != nil {
			return nil, err
		}
		return t.Clamp(args[0], bounds[0], bounds[1]), nil
	},
	"count": func(t *Table, args []string) (interface{}, error) {
		if err := arity("count", args, 0, 1); err != nil {
			return nil, err
		}
		if len(args) == 0 && t.groupKey == "" {
			return t.Count(), nil
		}
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return t.Aggregate(aggregator.Count, key)
	},
	"distinct": func(t *Table, args []string) (interface{}, error) {
		if err := arity("distinct", args, 1, 1); err != nil {
			return nil, err
		}
		return t.Distinct(args[0]).Rows(), nil
	},
}

func aggregateFunc(aggType aggregator.AggregateType) selectFunc {
	return func(t *Table, args []string) (interface{}, error) {
		if err := arity(string(aggType), args, 1, 1); err != nil {
			return nil, err
		}
		return t.Aggregate(aggType, args[0])
	}
}

func arity(name string, args []string, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return fmt.Errorf("%s expects %d arguments, got %d", name, min, len(args))
		}
		return fmt.Errorf("%s expects %d to %d arguments, got %d", name, min, max, len(args))
	}
	return nil
}

func floats(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := cast.ToFloat64E(a)
		if err != nil {
			return nil, fmt.Errorf("invalid bound %q: %w", a, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Select projects the table. query is a comma separated list of keys:
//
//   - name(args) calls one of sum, average, avg, median, stddev, max, min,
//     clamp, count or distinct with the remaining arguments
//   - anything else is a dotted path walked from the rows container; a
//     segment that is not a key of the current container projects it over
//     the children (dropping nil), and "*" takes the values
//
// A single key yields its value directly, collapsed to a scalar when the
// table holds one row. Several keys yield a *collection.Map keyed by the
// requested keys.
func (t *Table) Select(query string) (interface{}, error) {
	keys := expr.SplitArgs(query)
	if len(keys) == 0 {
		return nil, fmt.Errorf("select: empty query")
	}

	out := collection.New()
	for _, key := range keys {
		v, projected, err := t.selectKey(key)
		if err != nil {
			return nil, err
		}
		if len(keys) == 1 {
			if m, ok := v.(*collection.Map); ok && projected && t.Count() == 1 && m.Len() == 1 {
				v, _ = m.First()
			}
			return v, nil
		}
		out.Set(key, v)
	}
	return out, nil
}

func (t *Table) selectKey(key string) (interface{}, bool, error) {
	if m := selectCallPattern.FindStringSubmatch(key); m != nil {
		fn, ok := selectFuncs[strings.ToLower(m[1])]
		if !ok {
			return nil, false, fmt.Errorf("select: unknown function %q", m[1])
		}
		args := expr.SplitArgs(m[2])
		for i, a := range args {
			args[i] = unquote(a)
		}
		v, err := fn(t, args)
		if err != nil {
			return nil, false, fmt.Errorf("select %s: %w", key, err)
		}
		return v, false, nil
	}
	v, projected := walk(t.rows, key)
	return v, projected, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// walk follows path from root. It reports whether the final step projected
// a column rather than descending into a single value.
func walk(root interface{}, path string) (interface{}, bool) {
	current := root
	projected := false
	for _, seg := range strings.Split(path, ".") {
		if current == nil {
			return nil, false
		}
		m, ok := current.(*collection.Map)
		if !ok {
			return nil, false
		}

		switch v, ok := m.Get(seg); {
		case seg == "*":
			current = m.Reindex()
			projected = true
		case ok && v != nil:
			current = v
			projected = false
		default:
			current = project(m, seg)
			projected = true
		}
	}
	return current, projected
}

// project collects child[key] for every container child of m, keeping the
// child's key and dropping nil values.
func project(m *collection.Map, key string) *collection.Map {
	out := collection.New()
	m.Range(func(k string, child interface{}) bool {
		if c, ok := child.(*collection.Map); ok {
			if v, ok := c.Get(key); ok && v != nil {
				out.Set(k, v)
			}
		}
		return true
	})
	return out
}
