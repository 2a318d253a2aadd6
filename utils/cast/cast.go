/*
 * Copyright 2024 The RuleGo Authors.
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

// Package cast holds the value coercions shared by the expression evaluator
// and the query engine. Numbers may arrive as Go numeric types or as numeric
// strings (every unquoted literal in an expression is a string), so all
// numeric checks accept both.
package cast

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	spfcast "github.com/spf13/cast"
)

// Lener is implemented by containers that know their size.
type Lener interface {
	Len() int
}

// IsNumeric reports whether v is a number or a string holding a decimal number.
// Booleans are not numeric.
func IsNumeric(v interface{}) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		return isNumericString(x)
	case []byte:
		return isNumericString(string(x))
	default:
		return false
	}
}

// IsInteger reports whether v is an integer type or an integer-form string.
func IsInteger(v interface{}) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case string:
		s := strings.TrimSpace(x)
		if !isNumericString(s) {
			return false
		}
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil
	default:
		return false
	}
}

// isNumericString accepts an optional sign, digits with at most one dot and an
// optional exponent. Leading and trailing whitespace is ignored.
func isNumericString(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		case (c == 'e' || c == 'E') && digits > 0:
			i++
			if i < len(s) && (s[i] == '+' || s[i] == '-') {
				i++
			}
			if i >= len(s) {
				return false
			}
			for ; i < len(s); i++ {
				if s[i] < '0' || s[i] > '9' {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
	return digits > 0
}

// ToFloat64E converts a numeric value or numeric string to float64.
func ToFloat64E(v interface{}) (float64, error) {
	if s, ok := v.(string); ok {
		if !isNumericString(s) {
			return 0, fmt.Errorf("unable to cast %q to float64", s)
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return spfcast.ToFloat64E(v)
}

// ToFloat converts v to float64, returning 0 for values that are not numeric.
func ToFloat(v interface{}) float64 {
	f, err := ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}

// ToInt64E converts an integer value or integer-form string to int64.
func ToInt64E(v interface{}) (int64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	return spfcast.ToInt64E(v)
}

// ToIntE converts v to int.
func ToIntE(v interface{}) (int, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if f, err := strconv.ParseFloat(s, 64); err == nil && isNumericString(s) {
			return int(f), nil
		}
		return 0, fmt.Errorf("unable to cast %q to int", s)
	}
	return spfcast.ToIntE(v)
}

// ToString renders v the way expressions see it: nil is the empty string,
// floats use the shortest representation that round-trips.
func ToString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	if s, err := spfcast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Truthy reports the boolean interpretation of v: nil, false, zero numbers,
// "", "0" and empty containers are false.
func Truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != "" && x != "0"
	case Lener:
		return x.Len() > 0
	}
	if IsNumeric(v) {
		return ToFloat(v) != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// LooseEqual compares two numeric values as floats and everything else by
// its string form.
func LooseEqual(a, b interface{}) bool {
	if IsNumeric(a) && IsNumeric(b) {
		return ToFloat(a) == ToFloat(b)
	}
	return ToString(a) == ToString(b)
}

// StrictEqual is LooseEqual that additionally requires both sides to agree
// on being numeric.
func StrictEqual(a, b interface{}) bool {
	if IsNumeric(a) != IsNumeric(b) {
		return false
	}
	return LooseEqual(a, b)
}

// Compare orders a and b: numerically when both are numeric, otherwise by
// their string forms. nil sorts before everything else.
func Compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if IsNumeric(a) && IsNumeric(b) {
		x, y := ToFloat(a), ToFloat(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(ToString(a), ToString(b))
}

// TypeName names the dynamic type of v for error messages.
func TypeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
