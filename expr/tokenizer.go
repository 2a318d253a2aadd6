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
	"sort"
	"strings"
)

// operators recognized by the tokenizer. Nesting and escape operators only
// change the scanner state; the rest split the query at depth 0.
var operators = []string{
	"+", "*", "-", "/", "%", "**", // math
	"<", ">", "<=", ">=", "==", "!=", "=", // comparison
	"??", "?:", "?", ":", // coalescing and ternary
	"(", ")", "[", "]", // nesting
	"{{", "}}", `\*`, `*\`, `\`, "'", // escaping
	"in", "where", "limit", "and", "or", "from", // keywords
}

// sortedOperators holds operators longest first so that "**" wins over "*".
var sortedOperators = func() []string {
	ops := make([]string, len(operators))
	copy(ops, operators)
	sort.SliceStable(ops, func(i, j int) bool {
		return len(ops[i]) > len(ops[j])
	})
	return ops
}()

// scanState is the tokenizer state at the end of a scan.
type scanState struct {
	group    int
	minGroup int
	str      int
	escaped  int
}

func (s scanState) balanced() bool {
	return s.group == 0 && s.minGroup >= 0
}

// Split breaks query into alternating key and operator tokens. Even
// positions hold keys, odd positions operators, all trimmed. The result
// always has odd length: an empty query yields [""] and a query ending in an
// operator gets an empty trailing key.
//
// Operators inside parentheses, brackets, string literals and escape groups
// ({{ }} and \* *\) do not split, so "f(a, b) - 1" yields
// ["f(a, b)", "-", "1"].
func Split(query string) []string {
	tokens, _ := scan(query)
	return tokens
}

func scan(query string) ([]string, scanState) {
	st := scanState{str: -1}
	out := []string{""}
	pos := 0

	for i := 0; i < len(query); i++ {
		op := matchOperator(query, i, st.str >= 0)
		character := query[i : i+1]
		if op != "" {
			character = query[i : i+len(op)]
			i += len(op) - 1
		}

		split := false
		if op != "" && st.escaped > -1 {
			switch op {
			case `\*`, "{{":
				st.group++
				st.escaped = st.group
			case `*\`, "}}":
				if st.group == st.escaped {
					st.escaped = 0
				}
				st.group--
			case "(", "[":
				st.group++
			case ")", "]":
				st.group--
			case "'":
				if st.str == -1 {
					st.str = st.group
				} else if st.str == st.group {
					st.str = -1
				}
			case `\`:
				st.escaped = -1
			default:
				if st.group == 0 && st.str == -1 {
					split = true
					character = op
					pos++
					out = append(out, "")
				}
			}
			if st.group < st.minGroup {
				st.minGroup = st.group
			}
		} else if st.escaped < 0 {
			st.escaped++
		}

		if out[pos] == "" && character == " " && st.escaped == 0 {
			continue
		}
		out[pos] += character

		if split {
			pos++
			out = append(out, "")
		}
	}

	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	if len(out)%2 == 0 {
		out = append(out, "")
	}
	return out, st
}

// matchOperator returns the operator starting at query[i], or "" when none
// applies there. Inside a string literal only the quote and the backslash
// are significant.
func matchOperator(query string, i int, inString bool) string {
	rest := query[i:]
	for _, op := range sortedOperators {
		if len(rest) < len(op) || !strings.EqualFold(rest[:len(op)], op) {
			continue
		}
		if inString {
			if op == "'" || op == `\` {
				return op
			}
			continue
		}
		if isKeyword(op) && !wordBoundary(query, i, len(op)) {
			continue
		}
		// "$rows.*.name" is a wildcard segment, not a multiplication
		if op[0] == '*' && i > 0 && query[i-1] == '.' {
			return ""
		}
		// a minus opening an operand is a sign: "2 * -3"
		if op == "-" && i+1 < len(query) && isDigit(query[i+1]) && startsOperand(query[:i]) {
			return ""
		}
		return op
	}
	return ""
}

func isKeyword(op string) bool {
	return op[0] >= 'a' && op[0] <= 'z'
}

// wordBoundary reports whether query[i:i+n] is not glued to identifier
// characters on either side.
func wordBoundary(query string, i, n int) bool {
	if i > 0 && isIdentChar(query[i-1]) {
		return false
	}
	if i+n < len(query) && isIdentChar(query[i+n]) {
		return false
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || c == '#' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// startsOperand reports whether a token beginning after prefix would be the
// first character of an operand: nothing but spaces since the start of the
// query or since the last operator.
func startsOperand(prefix string) bool {
	trimmed := strings.TrimRight(prefix, " ")
	if trimmed == "" {
		return true
	}
	last := trimmed[len(trimmed)-1]
	switch last {
	case '+', '-', '*', '/', '%', '<', '>', '=', '?', ':', '(', '[', ',':
		return true
	}
	for _, kw := range []string{"in", "and", "or", "where", "limit", "from"} {
		if strings.HasSuffix(strings.ToLower(trimmed), kw) &&
			wordBoundary(trimmed, len(trimmed)-len(kw), len(kw)) {
			return true
		}
	}
	return false
}

// SplitArgs splits an argument list on top-level commas. Commas nested in
// parentheses, brackets or single-quoted strings do not split. Each argument
// is trimmed; a blank list yields nil.
func SplitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var (
		args     []string
		current  strings.Builder
		level    int
		inString bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			current.WriteByte(c)
			i++
			current.WriteByte(s[i])
			continue
		case c == '\'':
			inString = !inString
		case inString:
		case c == '(' || c == '[':
			level++
		case c == ')' || c == ']':
			level--
		case c == ',' && level == 0:
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	return append(args, strings.TrimSpace(current.String()))
}
