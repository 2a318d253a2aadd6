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

/*
Package expr compiles and evaluates the small expression language used to
filter, join and project rows.

# Syntax

A query is a sequence of keys separated by operators. Split breaks it into
alternating key and operator tokens; operators nested in parentheses,
brackets, string literals or escape groups do not split.

	$path.to.field      dotted path lookup in the row
	#name               exact key lookup in the row
	{{name}}            variable lookup
	'text'              string literal, \' escapes a quote
	\text               escaped literal, returned verbatim
	[a, b, c]           array of sub-expressions
	(a + b)             group
	name(a, b)          method of the row, else a registered function
	anything else       literal text

Operators:

	+ - * / % **        arithmetic ("+" also concatenates strings)
	= == !=             strict and loose equality
	< > <= >=           comparison
	?? ?:               null coalescing and elvis
	a ? b : c           ternary, only the chosen branch is evaluated
	in                  membership in a list or container
	and or              boolean logic, short-circuiting

# Evaluation order

Operators are applied strictly left to right with no precedence, so
"2 + 3 * 4" is 20. WithPrecedence switches to conventional binding where the
same query is 14. Parentheses group in both modes.

# Usage

	e, err := expr.Compile("$age >= 18 and $country = 'NL'")
	if err != nil {
		return err
	}
	ok, err := e.EvaluateBool(row, nil)

A compiled Expression is immutable and safe for concurrent use. Errors carry
a stack trace; ErrorStack renders it.
*/
package expr
