package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/rowq/collection"
)

func TestApplyOperator(t *testing.T) {
	tests := []struct {
		name     string
		left     interface{}
		op       string
		right    interface{}
		expected interface{}
	}{
		{"no operator", "", "", "x", "x"},
		{"integer addition", "2", "+", "3", int64(5)},
		{"mixed addition", "1.5", "+", 2, 3.5},
		{"concatenation", "a", "+", "b", "ab"},
		{"concatenation with number", "a", "+", 1, "a1"},
		{"addition of non strings", true, "+", nil, nil},
		{"subtraction", 10, "-", "4", int64(6)},
		{"multiplication", 2.5, "*", 2, 5.0},
		{"division is float", "10", "/", "4", 2.5},
		{"modulo", "7", "%", "3", int64(1)},
		{"float modulo", 7.5, "%", 2, 1.5},
		{"integer power", "2", "**", "10", int64(1024)},
		{"negative power", "2", "**", "-1", 0.5},
		{"largest integer power", "2", "**", "62", int64(1) << 62},
		{"power overflows to float", "2", "**", "64", math.Pow(2, 64)},
		{"odd power overflows to float", "3", "**", "40", math.Pow(3, 40)},
		{"addition overflows to float", "9223372036854775807", "+", "1", float64(math.MaxInt64) + 1},
		{"subtraction overflows to float", int64(math.MinInt64), "-", 1, float64(math.MinInt64) - 1},
		{"multiplication overflows to float", int64(math.MaxInt64), "*", 2, float64(math.MaxInt64) * 2},
		{"negative multiplication stays integer", int64(-3), "*", int64(math.MaxInt64 / 3), -3 * int64(math.MaxInt64/3)},
		{"strict equality", "1", "=", 1, true},
		{"strict equality rejects mixed kinds", "1", "=", "one", false},
		{"loose equality", "1", "==", "1.0", true},
		{"inequality", "a", "!=", "b", true},
		{"numeric less", "10", "<", "9", false},
		{"string less", "abc", "<", "abd", true},
		{"greater or equal", 3, ">=", "3", true},
		{"coalesce nil", nil, "??", "x", "x"},
		{"coalesce value", "a", "??", "x", "a"},
		{"coalesce keeps falsy", 0, "??", "x", 0},
		{"elvis falsy", 0, "?:", "x", "x"},
		{"elvis truthy", "a", "?:", "x", "a"},
		{"and", "1", "and", "0", false},
		{"or", "", "or", "a", true},
		{"in slice", "x", "in", []interface{}{"x", "y"}, true},
		{"in typed slice", "1", "in", []int{1, 2}, true},
		{"in map", "v", "in", map[string]interface{}{"k": "v"}, true},
		{"in container", "b", "in", collection.FromPairs("0", "a", "1", "b"), true},
		{"not in", "z", "in", []string{"x"}, false},
		{"keyword operators pass through", "a", "where", "b", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyOperator(tt.left, tt.op, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestApplyOperatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		left   interface{}
		op     string
		right  interface{}
		side   string
		byZero bool
	}{
		{"non numeric left", "a", "-", 1, "left", false},
		{"non numeric right", 1, "*", "b", "right", false},
		{"nil operand", nil, "/", 2, "left", false},
		{"division by zero", 1, "/", 0, "right", true},
		{"modulo by zero", 1, "%", "0", "right", true},
		{"float modulo by zero", 1.5, "%", 0.0, "right", true},
		{"in string", "a", "in", "abc", "right", false},
		{"in nil", "a", "in", nil, "right", false},
		{"in scalar", "a", "in", 42, "right", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyOperator(tt.left, tt.op, tt.right)
			var target *OperandTypeError
			require.True(t, errors.As(err, &target), "got %v", err)
			assert.Equal(t, tt.op, target.Operator)
			assert.Equal(t, tt.side, target.Side)
			assert.Equal(t, tt.byZero, errors.Is(err, ErrDivisionByZero))
		})
	}
}

func TestShortCircuitDecisions(t *testing.T) {
	tests := []struct {
		op    string
		left  interface{}
		value interface{}
		done  bool
	}{
		{"and", 0, false, true},
		{"and", 1, nil, false},
		{"or", "x", true, true},
		{"or", "", nil, false},
		{"??", "x", "x", true},
		{"??", nil, nil, false},
		{"?:", "x", "x", true},
		{"?:", "0", nil, false},
		{"+", 1, nil, false},
	}

	for _, tt := range tests {
		value, done := shortCircuit(tt.op, tt.left)
		assert.Equal(t, tt.done, done, "%v %s", tt.left, tt.op)
		assert.Equal(t, tt.value, value, "%v %s", tt.left, tt.op)
	}
}
