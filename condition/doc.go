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
Package condition compiles expr-lang predicates for query.Table.Filter.

Where the expr package implements rowq's own mini-language, conditions use
the expr-lang syntax (&&, ||, ==, field.sub) against a row converted to
plain Go maps. They are compiled once and may be evaluated concurrently.

# Custom Functions

	like_match(text, pattern)   SQL LIKE with % and _ wildcards
	is_null(value)              value is nil or the field is missing
	is_not_null(value)          negation of is_null

# Usage

	cond, err := NewExprCondition("age >= 18 && like_match(email, '%@company.com')")
	if err != nil {
		return err
	}
	ok, err := cond.Evaluate(map[string]interface{}{
		"age":   25,
		"email": "ada@company.com",
	})

Evaluate reports runtime failures (for example comparing a number with a
string) as errors instead of treating them as a non-match.
*/
package condition
