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
	"reflect"

	"github.com/rulego/rowq/functions"
	"github.com/rulego/rowq/utils/cast"
)

// DefaultMaxDepth bounds the nesting of groups, calls and arrays.
const DefaultMaxDepth = 64

type config struct {
	registry   *functions.Registry
	strict     bool
	maxDepth   int
	precedence bool
}

// Option configures Compile.
type Option func(*config)

// WithFunctions resolves call keys against registry instead of
// functions.Builtin().
func WithFunctions(registry *functions.Registry) Option {
	return func(c *config) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithStrictPaths makes a missing $path or #name key an error instead of nil.
func WithStrictPaths() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithPrecedence evaluates operators by precedence instead of the default
// left-to-right fold, so "2 + 3 * 4" yields 14 instead of 20.
func WithPrecedence() Option {
	return func(c *config) {
		c.precedence = true
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		registry: functions.Builtin(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// node is a compiled piece of an expression.
type node interface {
	eval(ev *evaluation) (interface{}, error)
	fields(seen map[string]bool, out []string) []string
}

// Expression is a compiled query. It is immutable and may be evaluated
// concurrently against different rows.
type Expression struct {
	query  string
	tokens []string
	cfg    *config
	root   node
}

// Compile tokenizes and classifies query once so it can be evaluated
// against many rows. It fails with a MalformedExpressionError for
// unbalanced groups, an unterminated string, a "?" without ":" or nesting
// deeper than the configured maximum.
func Compile(query string, opts ...Option) (*Expression, error) {
	return compile(query, newConfig(opts), 0)
}

// MustCompile is like Compile but panics on error.
func MustCompile(query string, opts ...Option) *Expression {
	e, err := Compile(query, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Eval compiles query and evaluates it once.
func Eval(query string, row, vars Resolvable, opts ...Option) (interface{}, error) {
	e, err := Compile(query, opts...)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(row, vars)
}

func compile(query string, cfg *config, depth int) (*Expression, error) {
	if depth > cfg.maxDepth {
		return nil, withStack(&MalformedExpressionError{
			Query:  query,
			Reason: fmt.Sprintf("nesting deeper than %d levels", cfg.maxDepth),
		})
	}

	tokens, st := scan(query)
	if !st.balanced() {
		return nil, withStack(&MalformedExpressionError{Query: query, Reason: "unbalanced grouping"})
	}
	if st.str != -1 {
		return nil, withStack(&MalformedExpressionError{Query: query, Reason: "unterminated string literal"})
	}

	root, err := compileTokens(query, tokens, cfg, depth)
	if err != nil {
		return nil, err
	}
	return &Expression{query: query, tokens: tokens, cfg: cfg, root: root}, nil
}

// compileTokens builds the node for an odd-length key/operator sequence.
func compileTokens(query string, tokens []string, cfg *config, depth int) (node, error) {
	if lower := indexOperator(tokens, "?", 0); lower >= 0 {
		upper := indexOperator(tokens, ":", lower+1)
		if upper < 0 {
			return nil, withStack(&MalformedExpressionError{Query: query, Reason: "ternary without ':'"})
		}
		cond, err := compileTokens(query, tokens[:lower], cfg, depth)
		if err != nil {
			return nil, err
		}
		then, err := compileTokens(query, tokens[lower+1:upper], cfg, depth)
		if err != nil {
			return nil, err
		}
		els, err := compileTokens(query, tokens[upper+1:], cfg, depth)
		if err != nil {
			return nil, err
		}
		return &ternary{cond: cond, then: then, els: els}, nil
	}

	keys := make([]*key, 0, len(tokens)/2+1)
	ops := make([]string, 0, len(tokens)/2)
	for i, tok := range tokens {
		if i%2 == 1 {
			ops = append(ops, tok)
			continue
		}
		k, err := compileKey(tok, cfg, depth)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}

	if cfg.precedence {
		return climb(keys, ops), nil
	}
	return &fold{keys: keys, ops: ops}, nil
}

// indexOperator finds op among the operator positions at or after from.
func indexOperator(tokens []string, op string, from int) int {
	for i := from; i < len(tokens); i++ {
		if i%2 == 1 && tokens[i] == op {
			return i
		}
	}
	return -1
}

// Evaluate runs the expression against row, with vars bound for {{name}}
// keys. Either may be nil. An empty query evaluates to "".
func (e *Expression) Evaluate(row, vars Resolvable) (interface{}, error) {
	return e.eval(&evaluation{row: present(row), vars: present(vars), cfg: e.cfg})
}

// present turns a typed nil pointer, such as a nil *collection.Map, into an
// untyped nil.
func present(r Resolvable) Resolvable {
	if r == nil {
		return nil
	}
	if v := reflect.ValueOf(r); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	return r
}

// EvaluateBool evaluates the expression and reports the truthiness of the
// result.
func (e *Expression) EvaluateBool(row, vars Resolvable) (bool, error) {
	v, err := e.Evaluate(row, vars)
	if err != nil {
		return false, err
	}
	return cast.Truthy(v), nil
}

func (e *Expression) eval(ev *evaluation) (interface{}, error) {
	if e.query == "" {
		return e.query, nil
	}
	return e.root.eval(ev)
}

// Fields lists the $ paths referenced anywhere in the expression, in order of
// first appearance.
func (e *Expression) Fields() []string {
	return e.root.fields(make(map[string]bool), nil)
}

// Tokens returns the key/operator sequence produced by Split.
func (e *Expression) Tokens() []string {
	out := make([]string, len(e.tokens))
	copy(out, e.tokens)
	return out
}

// String returns the source query.
func (e *Expression) String() string {
	return e.query
}

// fold evaluates keys left to right, feeding each result into the next
// operator. No operator binds tighter than another.
type fold struct {
	keys []*key
	ops  []string
}

func (f *fold) eval(ev *evaluation) (interface{}, error) {
	var value interface{} = ""
	for i, k := range f.keys {
		op := ""
		if i > 0 {
			op = f.ops[i-1]
			if v, done := shortCircuit(op, value); done {
				value = v
				continue
			}
		}
		right, err := k.eval(ev)
		if err != nil {
			return nil, err
		}
		value, err = ApplyOperator(value, op, right)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

func (f *fold) fields(seen map[string]bool, out []string) []string {
	for _, k := range f.keys {
		out = k.fields(seen, out)
	}
	return out
}

// ternary evaluates only the branch selected by cond.
type ternary struct {
	cond, then, els node
}

func (t *ternary) eval(ev *evaluation) (interface{}, error) {
	c, err := t.cond.eval(ev)
	if err != nil {
		return nil, err
	}
	if cast.Truthy(c) {
		return t.then.eval(ev)
	}
	return t.els.eval(ev)
}

func (t *ternary) fields(seen map[string]bool, out []string) []string {
	out = t.cond.fields(seen, out)
	out = t.then.fields(seen, out)
	return t.els.fields(seen, out)
}
