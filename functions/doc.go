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
Package functions provides the named functions callable from rowq
expressions as name(arg1, arg2).

Functions live in a Registry. Registries are plain values: Builtin returns a
shared read-only registry with the builtin set, NewDefaultRegistry returns a
writable one preloaded with it, and NewRegistry an empty one. Names are
case-insensitive.

# Built-in Functions

	// Math
	abs(x)  sqrt(x)  power(x, y)  ceil(x)  floor(x)  round(x[, places])  mod(x, y)

	// String
	concat(a, ...)  length(v)  upper(s)  lower(s)  trim(s)
	substr(s, start[, length])  replace(s, old, new)

	// Aggregation, over arguments or list arguments
	sum(...)  avg(...)  min(...)  max(...)  count(...)  median(...)

	// Conditional and collection
	coalesce(a, ...)  if_null(a, b)  contains(list|string, v)

# Custom Function Registration

	reg := functions.NewDefaultRegistry()
	err := reg.RegisterFunc("fahrenheit_to_celsius", functions.TypeMath,
		"Convert Fahrenheit to Celsius", functions.Exactly(1),
		func(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
			f, err := cast.ToFloat64E(args[0])
			if err != nil {
				return nil, err
			}
			return (f - 32) * 5 / 9, nil
		})

Functions with richer behaviour implement the Function interface, usually by
embedding Signature for the metadata and the argument count check.
*/
package functions
