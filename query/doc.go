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
Package query runs SQL-like operations over an ordered set of rows.

A Table wraps a *collection.Map whose values are row containers. Tables are
immutable: Where, Join, Order, Group, Limit and the other operations return a
new Table, so a Table can be reused and shared freely.

# Filtering

Where compiles an expr expression once and keeps the rows for which it is
truthy. Filter does the same with an expr-lang predicate from the condition
package.

	adults, err := t.Where("$age >= {{min}}", collection.FromPairs("min", 18))

Rows that fail to evaluate are handled according to the table's
ErrorPolicy: FailFast (default) aborts, SkipRow logs and drops the row,
CollectErrors drops the row and returns a *multierror.Error with every
failure.

# Joining

	orders.Join(customers, "customer_id", "id", query.Left)

Right-hand keys are prefixed with "right_" (see WithJoinPrefix). Inner
results never outnumber either side, Left keeps every left row, Right every
right row, and Outer every left row plus the unmatched right rows.

# Aggregates

Sum, Average, Max, Min and Clamp fold one column. After Group they return a
*collection.Map with one result per group:

	t.Group("g").Sum("v") // {A: 3, B: 5}

Select combines path projection and aggregates in one string:

	t.Select("name, sum(price), max(score, 10)")
*/
package query
