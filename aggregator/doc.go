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
Package aggregator provides the accumulators behind rowq's aggregate
functions and grouped aggregation.

# Aggregation Types

	Sum     - int64 while every input is an integer, float64 otherwise
	Count   - number of values added
	Avg     - arithmetic mean, 0 for no input
	Max/Min - largest/smallest value by cast.Compare, nil for no input
	StdDev  - sample standard deviation
	Median  - middle value

Non-numeric values are skipped by the numeric accumulators.

# Core Interfaces

	type AggregatorFunction interface {
		New() AggregatorFunction
		Add(value interface{})
		Result() interface{}
	}

# Grouped Aggregation

GroupAggregator keeps one accumulator per group value and reports groups in
first-appearance order:

	ga, _ := aggregator.NewGroupAggregator(aggregator.Sum)
	ga.Add("A", 1)
	ga.Add("A", 2)
	ga.Add("B", 5)
	for _, r := range ga.Results() {
		fmt.Println(r.Key, r.Value) // A 3, then B 5
	}
*/
package aggregator
