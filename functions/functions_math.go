package functions

import (
	"fmt"
	"math"

	"github.com/rulego/rowq/utils/cast"
)

// AbsFunction calculates absolute value
type AbsFunction struct {
	Signature
}

func NewAbsFunction() *AbsFunction {
	return &AbsFunction{
		Signature: Signature{Name: "abs", Type: TypeMath, Description: "Calculate absolute value", Arity: Exactly(1)},
	}
}

func (f *AbsFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	if cast.IsInteger(args[0]) {
		n, err := cast.ToInt64E(args[0])
		if err == nil {
			if n < 0 {
				n = -n
			}
			return n, nil
		}
	}
	val, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	return math.Abs(val), nil
}

// MathFunction applies fn to its arguments converted to float64.
type MathFunction struct {
	Signature
	fn func(args []float64) (float64, error)
}

func newMathFunction(name, description string, arity int, fn func(args []float64) (float64, error)) *MathFunction {
	return &MathFunction{
		Signature: Signature{Name: name, Type: TypeMath, Description: description, Arity: Exactly(arity)},
		fn:        fn,
	}
}

func (f *MathFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := cast.ToFloat64E(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.GetName(), err)
		}
		values[i] = v
	}
	result, err := f.fn(values)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func NewSqrtFunction() *MathFunction {
	return newMathFunction("sqrt", "Calculate square root", 1, func(x []float64) (float64, error) {
		if x[0] < 0 {
			return 0, fmt.Errorf("sqrt of negative number")
		}
		return math.Sqrt(x[0]), nil
	})
}

func NewPowerFunction() *MathFunction {
	return newMathFunction("power", "Raise x to the power y", 2, func(x []float64) (float64, error) {
		return math.Pow(x[0], x[1]), nil
	})
}

func NewCeilingFunction() *MathFunction {
	return newMathFunction("ceil", "Round up to the nearest integer", 1, func(x []float64) (float64, error) {
		return math.Ceil(x[0]), nil
	})
}

func NewFloorFunction() *MathFunction {
	return newMathFunction("floor", "Round down to the nearest integer", 1, func(x []float64) (float64, error) {
		return math.Floor(x[0]), nil
	})
}

func NewModFunction() *MathFunction {
	return newMathFunction("mod", "Remainder of x divided by y", 2, func(x []float64) (float64, error) {
		if x[1] == 0 {
			return 0, fmt.Errorf("mod: division by zero")
		}
		return math.Mod(x[0], x[1]), nil
	})
}

// RoundFunction rounds half away from zero, optionally to a number of
// decimal places
type RoundFunction struct {
	Signature
}

func NewRoundFunction() *RoundFunction {
	return &RoundFunction{
		Signature: Signature{Name: "round", Type: TypeMath, Description: "Round to the nearest value", Arity: Between(1, 2)},
	}
}

func (f *RoundFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return nil, nil
	}

	val, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		return math.Round(val), nil
	}

	precision, err := cast.ToIntE(args[1])
	if err != nil {
		return nil, err
	}

	shift := math.Pow(10, float64(precision))
	return math.Round(val*shift) / shift, nil
}
