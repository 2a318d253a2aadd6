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

package expr

import (
	"math"
	"reflect"

	"github.com/rulego/rowq/utils/cast"
	"github.com/rulego/rowq/utils/fieldpath"
)

// ApplyOperator applies the binary operator op to two resolved operands.
// An empty op returns right unchanged, which is how a fold starts.
//
//	+                   numeric addition, else string concatenation when
//	                    either side is a string, else nil
//	- * / % **          numeric only, OperandTypeError otherwise
//	=                   strict equality
//	== !=               loose equality
//	< > <= >=           numeric comparison, else string comparison
//	??                  left unless it is nil
//	?:                  left if truthy, else right
//	in                  membership in a list, container or map
//	and or              boolean logic on truthiness
//
// Any other operator (where, limit, from, ...) returns right.
func ApplyOperator(left interface{}, op string, right interface{}) (interface{}, error) {
	switch op {
	case "":
		return right, nil

	case "+":
		if cast.IsNumeric(left) && cast.IsNumeric(right) {
			return arithmetic(op, left, right)
		}
		if isString(left) || isString(right) {
			return cast.ToString(left) + cast.ToString(right), nil
		}
		return nil, nil

	case "-", "*", "/", "%", "**":
		if !cast.IsNumeric(left) {
			return nil, withStack(&OperandTypeError{Operator: op, Side: "left", Type: cast.TypeName(left)})
		}
		if !cast.IsNumeric(right) {
			return nil, withStack(&OperandTypeError{Operator: op, Side: "right", Type: cast.TypeName(right)})
		}
		return arithmetic(op, left, right)

	case "=":
		return cast.StrictEqual(left, right), nil
	case "==":
		return cast.LooseEqual(left, right), nil
	case "!=":
		return !cast.LooseEqual(left, right), nil
	case "<":
		return cast.Compare(left, right) < 0, nil
	case ">":
		return cast.Compare(left, right) > 0, nil
	case "<=":
		return cast.Compare(left, right) <= 0, nil
	case ">=":
		return cast.Compare(left, right) >= 0, nil

	case "??":
		if left != nil {
			return left, nil
		}
		return right, nil
	case "?:":
		if cast.Truthy(left) {
			return left, nil
		}
		return right, nil

	case "in":
		return in(left, right)

	case "and":
		return cast.Truthy(left) && cast.Truthy(right), nil
	case "or":
		return cast.Truthy(left) || cast.Truthy(right), nil

	default:
		return right, nil
	}
}

// shortCircuit reports whether op's result is already decided by left, in
// which case the right operand must not be evaluated.
func shortCircuit(op string, left interface{}) (interface{}, bool) {
	switch op {
	case "and":
		if !cast.Truthy(left) {
			return false, true
		}
	case "or":
		if cast.Truthy(left) {
			return true, true
		}
	case "??":
		if left != nil {
			return left, true
		}
	case "?:":
		if cast.Truthy(left) {
			return left, true
		}
	}
	return nil, false
}

func isString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

// arithmetic evaluates a math operator on two numeric operands. Integer
// operands keep integer results except for division.
func arithmetic(op string, left, right interface{}) (interface{}, error) {
	if op != "/" && cast.IsInteger(left) && cast.IsInteger(right) {
		a, errA := cast.ToInt64E(left)
		b, errB := cast.ToInt64E(right)
		if errA == nil && errB == nil {
			switch op {
			case "%":
				if b == 0 {
					return nil, divisionByZero(op, right)
				}
				return a % b, nil
			case "**":
				if b >= 0 {
					if n, ok := intPow(a, b); ok {
						return n, nil
					}
				}
			default:
				// overflowing results fall through to float64
				if n, ok := intArithmetic(op, a, b); ok {
					return n, nil
				}
			}
		}
	}

	x, err := cast.ToFloat64E(left)
	if err != nil {
		return nil, withStack(&OperandTypeError{Operator: op, Side: "left", Type: cast.TypeName(left), Err: err})
	}
	y, err := cast.ToFloat64E(right)
	if err != nil {
		return nil, withStack(&OperandTypeError{Operator: op, Side: "right", Type: cast.TypeName(right), Err: err})
	}

	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, divisionByZero(op, right)
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return nil, divisionByZero(op, right)
		}
		return math.Mod(x, y), nil
	default: // "**"
		return math.Pow(x, y), nil
	}
}

func divisionByZero(op string, right interface{}) error {
	return withStack(&OperandTypeError{
		Operator: op,
		Side:     "right",
		Type:     cast.TypeName(right),
		Err:      ErrDivisionByZero,
	})
}

// intArithmetic evaluates + - * on int64 operands. ok is false when the
// result does not fit in an int64.
func intArithmetic(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		n := a + b
		return n, (n > a) == (b > 0)
	case "-":
		n := a - b
		return n, (n < a) == (b > 0)
	case "*":
		return mulInt64(a, b)
	}
	return 0, false
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	n := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return n, n/b == a
}

func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		var ok bool
		if exp&1 == 1 {
			if result, ok = mulInt64(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, ok = mulInt64(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

// in reports whether right holds a value loosely equal to left. right must
// be an ordered container, slice, array or map.
func in(left, right interface{}) (interface{}, error) {
	var values []interface{}
	switch r := right.(type) {
	case nil, string, []byte:
		return nil, withStack(&OperandTypeError{Operator: "in", Side: "right", Type: cast.TypeName(right)})
	case fieldpath.Ranger:
		values, _ = fieldpath.Values(r)
	default:
		switch reflect.ValueOf(right).Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			values, _ = fieldpath.Values(right)
		default:
			return nil, withStack(&OperandTypeError{Operator: "in", Side: "right", Type: cast.TypeName(right)})
		}
	}

	for _, v := range values {
		if cast.LooseEqual(left, v) {
			return true, nil
		}
	}
	return false, nil
}
