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

// Binding strength used by WithPrecedence. Operators missing from the table
// bind weakest.
var precedence = map[string]int{
	"or":  1,
	"and": 2,
	"??":  3,
	"?:":  3,
	"=":   4,
	"==":  4,
	"!=":  4,
	"<":   4,
	">":   4,
	"<=":  4,
	">=":  4,
	"in":  4,
	"+":   5,
	"-":   5,
	"*":   6,
	"/":   6,
	"%":   6,
	"**":  7,
}

func rightAssociative(op string) bool {
	return op == "**"
}

// binary applies op to two sub-trees.
type binary struct {
	op          string
	left, right node
}

func (b *binary) eval(ev *evaluation) (interface{}, error) {
	left, err := b.left.eval(ev)
	if err != nil {
		return nil, err
	}
	if v, done := shortCircuit(b.op, left); done {
		return v, nil
	}
	right, err := b.right.eval(ev)
	if err != nil {
		return nil, err
	}
	return ApplyOperator(left, b.op, right)
}

func (b *binary) fields(seen map[string]bool, out []string) []string {
	out = b.left.fields(seen, out)
	return b.right.fields(seen, out)
}

// climb builds a tree from len(ops)+1 operands using precedence climbing.
func climb(keys []*key, ops []string) node {
	c := &climber{keys: keys, ops: ops}
	return c.parse(0)
}

type climber struct {
	keys []*key
	ops  []string
	pos  int
}

func (c *climber) parse(minPrec int) node {
	var left node = c.keys[c.pos]
	for c.pos < len(c.ops) {
		op := c.ops[c.pos]
		prec := precedence[op]
		if prec < minPrec {
			break
		}
		c.pos++
		next := prec + 1
		if rightAssociative(op) {
			next = prec
		}
		right := c.parse(next)
		left = &binary{op: op, left: left, right: right}
	}
	return left
}
