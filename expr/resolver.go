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

package expr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rulego/rowq/functions"
)

// Resolvable is the row an expression is evaluated against. collection.Map
// implements it.
type Resolvable interface {
	// Has reports whether key exists verbatim.
	Has(key string) bool
	// Get returns the value stored under key verbatim.
	Get(key string) (interface{}, bool)
	// Resolve looks up a dotted path.
	Resolve(path string) (interface{}, bool)
}

// MethodProvider is implemented by rows that expose named operations to
// expressions. A call key such as count() is dispatched to the row first.
type MethodProvider interface {
	Method(name string) (func(args ...interface{}) (interface{}, error), bool)
}

// Key kinds, in dispatch order.
const (
	keyIdentity = iota
	keyEscaped
	keyArray
	keyGroup
	keyCall
	keyVariable
	keyField
	keyProperty
	keyString
	keyLiteral
)

var callPattern = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)\((.*)\)$`)

// key is an operand token classified at compile time.
type key struct {
	kind int
	raw  string
	// text is the payload: literal text, path, variable or property name
	text string
	// name of the called function or method
	name string
	// args holds call arguments or array elements
	args []*Expression
	sub  *Expression
}

func compileKey(raw string, cfg *config, depth int) (*key, error) {
	k := &key{raw: raw}
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		k.kind = keyIdentity

	case trimmed[0] == '\\':
		k.kind = keyEscaped
		k.text = trimmed[1:]

	case len(trimmed) >= 2 && trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']':
		k.kind = keyArray
		args, err := compileArgs(trimmed[1:len(trimmed)-1], cfg, depth)
		if err != nil {
			return nil, err
		}
		k.args = args

	case len(trimmed) >= 2 && trimmed[0] == '(' && trimmed[len(trimmed)-1] == ')':
		k.kind = keyGroup
		sub, err := compile(trimmed[1:len(trimmed)-1], cfg, depth+1)
		if err != nil {
			return nil, err
		}
		k.sub = sub

	case callPattern.MatchString(trimmed):
		m := callPattern.FindStringSubmatch(trimmed)
		k.kind = keyCall
		k.name = m[1]
		args, err := compileArgs(m[2], cfg, depth)
		if err != nil {
			return nil, err
		}
		k.args = args

	case len(trimmed) >= 4 && strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}"):
		k.kind = keyVariable
		k.text = strings.TrimSpace(trimmed[2 : len(trimmed)-2])

	case trimmed[0] == '$':
		k.kind = keyField
		k.text = trimmed[1:]

	case trimmed[0] == '#':
		k.kind = keyProperty
		k.text = trimmed[1:]

	case len(trimmed) >= 2 && trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'':
		k.kind = keyString
		k.text = strings.ReplaceAll(trimmed[1:len(trimmed)-1], `\'`, `'`)

	default:
		k.kind = keyLiteral
		k.text = trimmed
	}
	return k, nil
}

func compileArgs(list string, cfg *config, depth int) ([]*Expression, error) {
	parts := SplitArgs(list)
	args := make([]*Expression, 0, len(parts))
	for _, p := range parts {
		sub, err := compile(p, cfg, depth+1)
		if err != nil {
			return nil, err
		}
		args = append(args, sub)
	}
	return args, nil
}

// evaluation is the per-call context shared by every key of one Evaluate.
type evaluation struct {
	row  Resolvable
	vars Resolvable
	cfg  *config
}

func (k *key) eval(ev *evaluation) (interface{}, error) {
	switch k.kind {
	case keyIdentity:
		return k.raw, nil

	case keyEscaped, keyString, keyLiteral:
		return k.text, nil

	case keyArray:
		return evalAll(k.args, ev)

	case keyGroup:
		return k.sub.eval(ev)

	case keyCall:
		return k.call(ev)

	case keyVariable:
		if ev.vars == nil {
			return nil, nil
		}
		if v, ok := ev.vars.Get(k.text); ok {
			return v, nil
		}
		v, _ := ev.vars.Resolve(k.text)
		return v, nil

	case keyField:
		if ev.row != nil {
			if v, ok := ev.row.Resolve(k.text); ok {
				return v, nil
			}
		}
		return k.missing(ev)

	case keyProperty:
		if ev.row != nil {
			if v, ok := ev.row.Get(k.text); ok {
				return v, nil
			}
		}
		return k.missing(ev)
	}
	return nil, fmt.Errorf("unknown key kind %d", k.kind)
}

func (k *key) missing(ev *evaluation) (interface{}, error) {
	if ev.cfg.strict {
		return nil, withStack(&NotFoundError{Key: k.raw, Path: k.text})
	}
	return nil, nil
}

// call evaluates the arguments, then dispatches to a method of the row, then
// to the function registry.
func (k *key) call(ev *evaluation) (interface{}, error) {
	args, err := evalAll(k.args, ev)
	if err != nil {
		return nil, err
	}

	if mp, ok := ev.row.(MethodProvider); ok {
		if method, ok := mp.Method(k.name); ok {
			v, err := method(args...)
			if err != nil {
				return nil, withStack(fmt.Errorf("%s: %w", k.name, err))
			}
			return v, nil
		}
	}

	if fn, ok := ev.cfg.registry.Get(k.name); ok {
		if err := fn.Validate(args); err != nil {
			return nil, withStack(err)
		}
		v, err := fn.Execute(&functions.FunctionContext{Data: ev.row}, args)
		if err != nil {
			return nil, withStack(fmt.Errorf("%s: %w", k.name, err))
		}
		return v, nil
	}

	return nil, withStack(&UnresolvableKeyError{Key: k.raw, Name: k.name})
}

func evalAll(exprs []*Expression, ev *evaluation) ([]interface{}, error) {
	out := make([]interface{}, 0, len(exprs))
	for _, e := range exprs {
		v, err := e.eval(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// fields appends the $ paths referenced by k and its sub-expressions.
func (k *key) fields(seen map[string]bool, out []string) []string {
	if k.kind == keyField && !seen[k.text] {
		seen[k.text] = true
		out = append(out, k.text)
	}
	if k.sub != nil {
		out = k.sub.root.fields(seen, out)
	}
	for _, a := range k.args {
		out = a.root.fields(seen, out)
	}
	return out
}
