package functions

import (
	"reflect"

	"github.com/rulego/rowq/aggregator"
	"github.com/rulego/rowq/utils/fieldpath"
)

// AggregateFunction folds its arguments with an aggregator accumulator.
// Container, slice and array arguments contribute their values, so
// sum($prices) and sum(1, 2, 3) both work.
type AggregateFunction struct {
	Signature
	aggType aggregator.AggregateType
}

func newAggregateFunction(name string, aggType aggregator.AggregateType, description string) *AggregateFunction {
	return &AggregateFunction{
		Signature: Signature{Name: name, Type: TypeAggregation, Description: description, Arity: AtLeast(1)},
		aggType:   aggType,
	}
}

func NewSumFunction() *AggregateFunction {
	return newAggregateFunction("sum", aggregator.Sum, "Sum of numeric values")
}

func NewAvgFunction() *AggregateFunction {
	return newAggregateFunction("avg", aggregator.Avg, "Average of numeric values")
}

func NewMinFunction() *AggregateFunction {
	return newAggregateFunction("min", aggregator.Min, "Smallest value")
}

func NewMaxFunction() *AggregateFunction {
	return newAggregateFunction("max", aggregator.Max, "Largest value")
}

func NewCountFunction() *AggregateFunction {
	return newAggregateFunction("count", aggregator.Count, "Number of values")
}

func NewMedianFunction() *AggregateFunction {
	return newAggregateFunction("median", aggregator.Median, "Median of numeric values")
}

func (f *AggregateFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	return aggregator.Aggregate(f.aggType, flatten(args))
}

// flatten expands container, slice and array arguments one level.
func flatten(args []interface{}) []interface{} {
	var out []interface{}
	for _, arg := range args {
		if values, ok := listValues(arg); ok {
			out = append(out, values...)
			continue
		}
		out = append(out, arg)
	}
	return out
}

func listValues(v interface{}) ([]interface{}, bool) {
	if _, ok := v.(fieldpath.Ranger); ok {
		return fieldpath.Values(v)
	}
	switch v.(type) {
	case nil, string, []byte:
		return nil, false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return fieldpath.Values(v)
	}
	return nil, false
}
