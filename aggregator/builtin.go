package aggregator

import (
	"fmt"
	"math"
	"sort"

	"github.com/rulego/rowq/utils/cast"
)

type AggregateType string

const (
	Sum    AggregateType = "sum"
	Count  AggregateType = "count"
	Avg    AggregateType = "avg"
	Max    AggregateType = "max"
	Min    AggregateType = "min"
	StdDev AggregateType = "stddev"
	Median AggregateType = "median"
)

// Aliases accepted by ParseAggregateType.
var aliases = map[string]AggregateType{
	"average": Avg,
	"mean":    Avg,
}

// AggregatorFunction accumulates values one at a time.
type AggregatorFunction interface {
	New() AggregatorFunction
	Add(value interface{})
	Result() interface{}
}

// ParseAggregateType maps a function name such as "sum" or "average" to its
// AggregateType.
func ParseAggregateType(name string) (AggregateType, bool) {
	if t, ok := aliases[name]; ok {
		return t, true
	}
	switch t := AggregateType(name); t {
	case Sum, Count, Avg, Max, Min, StdDev, Median:
		return t, true
	}
	return "", false
}

// CreateBuiltinAggregator returns a fresh accumulator for aggType.
func CreateBuiltinAggregator(aggType AggregateType) (AggregatorFunction, error) {
	switch aggType {
	case Sum:
		return &SumAggregator{}, nil
	case Count:
		return &CountAggregator{}, nil
	case Avg:
		return &AvgAggregator{}, nil
	case Min:
		return &MinAggregator{}, nil
	case Max:
		return &MaxAggregator{}, nil
	case StdDev:
		return &StdDevAggregator{}, nil
	case Median:
		return &MedianAggregator{}, nil
	default:
		return nil, fmt.Errorf("unsupported aggregator type: %s", aggType)
	}
}

// Aggregate folds values with a fresh aggType accumulator.
func Aggregate(aggType AggregateType, values []interface{}) (interface{}, error) {
	agg, err := CreateBuiltinAggregator(aggType)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		agg.Add(v)
	}
	return agg.Result(), nil
}

// SumAggregator adds numeric values. The result stays int64 while every
// input is an integer and becomes float64 otherwise. Non-numeric values are
// ignored.
type SumAggregator struct {
	ints    int64
	floats  float64
	isFloat bool
}

func (s *SumAggregator) New() AggregatorFunction {
	return &SumAggregator{}
}

func (s *SumAggregator) Add(v interface{}) {
	if !cast.IsNumeric(v) {
		return
	}
	if !s.isFloat && cast.IsInteger(v) {
		if n, err := cast.ToInt64E(v); err == nil {
			s.ints += n
			return
		}
	}
	if !s.isFloat {
		s.isFloat = true
		s.floats = float64(s.ints)
	}
	s.floats += cast.ToFloat(v)
}

func (s *SumAggregator) Result() interface{} {
	if s.isFloat {
		return s.floats
	}
	return s.ints
}

// CountAggregator counts every value added, nil included.
type CountAggregator struct {
	count int
}

func (c *CountAggregator) New() AggregatorFunction {
	return &CountAggregator{}
}

func (c *CountAggregator) Add(_ interface{}) {
	c.count++
}

func (c *CountAggregator) Result() interface{} {
	return c.count
}

// AvgAggregator averages numeric values; an empty input averages to 0.
type AvgAggregator struct {
	sum   float64
	count int
}

func (a *AvgAggregator) New() AggregatorFunction {
	return &AvgAggregator{}
}

func (a *AvgAggregator) Add(v interface{}) {
	if !cast.IsNumeric(v) {
		return
	}
	a.sum += cast.ToFloat(v)
	a.count++
}

func (a *AvgAggregator) Result() interface{} {
	if a.count == 0 {
		return float64(0)
	}
	return a.sum / float64(a.count)
}

// MinAggregator keeps the smallest value seen, compared with cast.Compare.
// nil values are skipped; the result of an empty input is nil.
type MinAggregator struct {
	value interface{}
	seen  bool
}

func (m *MinAggregator) New() AggregatorFunction {
	return &MinAggregator{}
}

func (m *MinAggregator) Add(v interface{}) {
	if v == nil {
		return
	}
	if !m.seen || cast.Compare(v, m.value) < 0 {
		m.value = v
		m.seen = true
	}
}

func (m *MinAggregator) Result() interface{} {
	return m.value
}

// MaxAggregator keeps the largest value seen.
type MaxAggregator struct {
	value interface{}
	seen  bool
}

func (m *MaxAggregator) New() AggregatorFunction {
	return &MaxAggregator{}
}

func (m *MaxAggregator) Add(v interface{}) {
	if v == nil {
		return
	}
	if !m.seen || cast.Compare(v, m.value) > 0 {
		m.value = v
		m.seen = true
	}
}

func (m *MaxAggregator) Result() interface{} {
	return m.value
}

// StdDevAggregator computes the sample standard deviation.
type StdDevAggregator struct {
	values []float64
}

func (s *StdDevAggregator) New() AggregatorFunction {
	return &StdDevAggregator{}
}

func (s *StdDevAggregator) Add(v interface{}) {
	if cast.IsNumeric(v) {
		s.values = append(s.values, cast.ToFloat(v))
	}
}

func (s *StdDevAggregator) Result() interface{} {
	if len(s.values) < 2 {
		return float64(0)
	}
	return math.Sqrt(calculateVariance(s.values))
}

// MedianAggregator returns the middle value, or the mean of the two middle
// values for an even count.
type MedianAggregator struct {
	values []float64
}

func (m *MedianAggregator) New() AggregatorFunction {
	return &MedianAggregator{}
}

func (m *MedianAggregator) Add(v interface{}) {
	if cast.IsNumeric(v) {
		m.values = append(m.values, cast.ToFloat(v))
	}
}

func (m *MedianAggregator) Result() interface{} {
	n := len(m.values)
	if n == 0 {
		return nil
	}
	sorted := make([]float64, n)
	copy(sorted, m.values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func calculateAverage(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func calculateVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := calculateAverage(values)
	var sum float64
	for _, v := range values {
		sum += (v - avg) * (v - avg)
	}
	return sum / float64(len(values)-1)
}
