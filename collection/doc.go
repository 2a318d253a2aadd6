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
Package collection provides Map, the insertion-ordered container every other
rowq package works on.

A Map is both a row (a record with named fields) and a table (a list of rows
under positional keys "0", "1", ...). Values may be nested Maps, which makes
dotted paths meaningful:

	rows, _ := collection.FromYAML([]byte(`
	- name: alice
	  address: {city: Oslo}
	- name: bob
	  address: {city: Bergen}
	`))
	city, _ := rows.Resolve("1.address.city") // "Bergen"
	names, _ := rows.Resolve("*.name")        // []interface{}{"alice", "bob"}

# Ordering

Keys keep insertion order. From reads Go maps in sorted key order because Go
maps have none; FromJSON and FromYAML keep document order.

# Expressions

Map implements the row contract of the expr package (Has, Get, Resolve) and
exposes a fixed set of operations through Method, so an expression such as
"count() > 2" or "has('address.city')" can be evaluated against any Map.
*/
package collection
