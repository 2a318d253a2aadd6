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

package query

import (
	"github.com/rulego/rowq/aggregator"
	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/utils/cast"
)

// Aggregate folds the values of key with aggType. Without a group key the
// result is a single value. After Group it is a *collection.Map with one
// entry per distinct group value, in order of first appearance; rows
// without the group key are ignored.
//
// A key resolving to a container contributes each of its values, nil values
// are skipped, and an empty key aggregates the rows themselves.
func (t *Table) Aggregate(aggType aggregator.AggregateType, key string) (interface{}, error) {
	if t.groupKey == "" {
		agg, err := aggregator.CreateBuiltinAggregator(aggType)
		if err != nil {
			return nil, err
		}
		t.rows.Range(func(_ string, row interface{}) bool {
			for _, v := range columnValues(row, key) {
				agg.Add(v)
			}
			return true
		})
		return agg.Result(), nil
	}

	ga, err := aggregator.NewGroupAggregator(aggType)
	if err != nil {
		return nil, err
	}
	t.rows.Range(func(_ string, row interface{}) bool {
		group, ok := resolve(row, t.groupKey)
		if !ok {
			return true
		}
		ga.Ensure(group)
		for _, v := range columnValues(row, key) {
			ga.Add(group, v)
		}
		return true
	})

	out := collection.New()
	for _, r := range ga.Results() {
		out.Set(r.Key, r.Value)
	}
	return out, nil
}

func columnValues(row interface{}, key string) []interface{} {
	if key == "" {
		return []interface{}{row}
	}
	v, ok := resolve(row, key)
	if !ok || v == nil {
		return nil
	}
	switch x := v.(type) {
	case *collection.Map:
		return x.Values()
	case []interface{}:
		return x
	}
	return []interface{}{v}
}

// mustAggregate is Aggregate for the builtin types, which cannot fail.
func (t *Table) mustAggregate(aggType aggregator.AggregateType, key string) interface{} {
	v, _ := t.Aggregate(aggType, key)
	return v
}

// Sum adds the numeric values of key. Integer input yields int64.
func (t *Table) Sum(key string) interface{} {
	return t.mustAggregate(aggregator.Sum, key)
}

// Average returns the mean of the numeric values of key as float64.
func (t *Table) Average(key string) interface{} {
	return t.mustAggregate(aggregator.Avg, key)
}

// Max returns the largest value of key. An optional limit caps the result.
func (t *Table) Max(key string, limit ...float64) interface{} {
	result := t.mustAggregate(aggregator.Max, key)
	if len(limit) == 0 {
		return result
	}
	return mapResult(result, func(v interface{}) interface{} {
		return upperBound(v, limit[0])
	})
}

// Min returns the smallest value of key. An optional limit is a floor for
// the result.
func (t *Table) Min(key string, limit ...float64) interface{} {
	result := t.mustAggregate(aggregator.Min, key)
	if len(limit) == 0 {
		return result
	}
	return mapResult(result, func(v interface{}) interface{} {
		return lowerBound(v, limit[0])
	})
}

// Clamp is Min(key, lower) capped at upper.
func (t *Table) Clamp(key string, lower, upper float64) interface{} {
	return mapResult(t.Min(key, lower), func(v interface{}) interface{} {
		return upperBound(v, upper)
	})
}

// mapResult applies fn to a scalar result or to every value of a grouped one.
func mapResult(result interface{}, fn func(interface{}) interface{}) interface{} {
	if m, ok := result.(*collection.Map); ok {
		return m.Transform(func(_ string, v interface{}) interface{} {
			return fn(v)
		})
	}
	return fn(result)
}

func upperBound(v interface{}, limit float64) interface{} {
	if v == nil {
		return nil
	}
	if cast.Compare(v, limit) > 0 {
		return limit
	}
	return v
}

func lowerBound(v interface{}, limit float64) interface{} {
	if v == nil {
		return nil
	}
	if cast.Compare(v, limit) < 0 {
		return limit
	}
	return v
}
