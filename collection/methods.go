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
	"fmt"

	"github.com/rulego/rowq/utils/cast"
)

// method is a Map operation callable from an expression as name(args...)
type method func(m *Map, args []interface{}) (interface{}, error)

// methods is the closed set of operations a Map exposes to expressions.
var methods = map[string]method{
	"count": func(m *Map, _ []interface{}) (interface{}, error) {
		return m.Len(), nil
	},
	"keys": func(m *Map, _ []interface{}) (interface{}, error) {
		out := make([]interface{}, 0, m.Len())
		for _, k := range m.keys {
			out = append(out, k)
		}
		return out, nil
	},
	"values": func(m *Map, _ []interface{}) (interface{}, error) {
		return m.Values(), nil
	},
	"first": func(m *Map, _ []interface{}) (interface{}, error) {
		v, _ := m.First()
		return v, nil
	},
	"last": func(m *Map, _ []interface{}) (interface{}, error) {
		v, _ := m.Last()
		return v, nil
	},
	"has": func(m *Map, args []interface{}) (interface{}, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("has requires at least 1 argument")
		}
		for _, a := range args {
			if !m.HasPath(cast.ToString(a)) {
				return false, nil
			}
		}
		return true, nil
	},
	"includes": func(m *Map, args []interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("includes requires 1 argument, got %d", len(args))
		}
		return m.Includes(args[0]), nil
	},
	"get": func(m *Map, args []interface{}) (interface{}, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("get requires 1 or 2 arguments, got %d", len(args))
		}
		if v, ok := m.Resolve(cast.ToString(args[0])); ok {
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, nil
	},
}

// Method returns the named Map operation bound to m. Expressions evaluated
// against a Map row can call count(), keys(), values(), first(), last(),
// has(path...), includes(value) and get(path[, default]).
func (m *Map) Method(name string) (func(args ...interface{}) (interface{}, error), bool) {
	fn, ok := methods[name]
	if !ok {
		return nil, false
	}
	return func(args ...interface{}) (interface{}, error) {
		return fn(m, args)
	}, true
}
