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
Package rowq is an in-memory query library for ordered rows.

It is made of three layers:

  - collection.Map, an insertion-ordered container with dotted path access,
    JSON and YAML decoding
  - expr, a small expression language evaluated against one row, with
    $key and #key references, {{name}} variable bindings, function calls and
    PHP-like loose comparisons
  - query.Table, which runs select, where, join, order, group and aggregate
    operations over a container of rows

# Getting Started

	package main

	import (
		"fmt"

		"github.com/rulego/rowq/collection"
		"github.com/rulego/rowq/query"
	)

	func main() {
		rows, _ := collection.FromYAML([]byte(`
	- {name: Ada, age: 36, team: core}
	- {name: Bob, age: 17, team: web}
	- {name: Cy, age: 52, team: core}
	`))
		t := query.New(rows)

		adults, err := t.Where("$age >= {{min}}", collection.FromPairs("min", 18))
		if err != nil {
			panic(err)
		}
		names, _ := adults.Select("name")
		fmt.Println(names) // {"0":"Ada","2":"Cy"}

		fmt.Println(t.Group("team").Sum("age")) // {"core":88,"web":17}
	}

# Expressions

Expressions are evaluated left to right by default, so "1 + 2 * 3" is 9.
expr.WithPrecedence switches to conventional operator precedence. See the
expr package for the full syntax.

# Logging

Tables log through the logger package, which is backed by logrus. Use
query.WithLogger to route a table's output, or logger.SetDefault to change
the process default:

	t := query.New(rows, query.WithLogger(logger.NewLogger(logger.DEBUG, os.Stderr)))

# Command Line

cmd/rowq exposes the same operations over JSON and YAML files:

	rowq query --file people.yaml --where '$age >= 18' --select 'name, avg(age)'
*/
package rowq
