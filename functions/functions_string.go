package functions

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/rulego/rowq/utils/cast"
)

// ConcatFunction joins the string forms of its arguments
type ConcatFunction struct {
	Signature
}

func NewConcatFunction() *ConcatFunction {
	return &ConcatFunction{
		Signature: Signature{Name: "concat", Type: TypeString, Description: "Concatenate values", Arity: AtLeast(1)},
	}
}

func (f *ConcatFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	var result strings.Builder
	for _, arg := range args {
		result.WriteString(cast.ToString(arg))
	}
	return result.String(), nil
}

// LengthFunction returns the rune count of a string or the size of a
// container, slice or map
type LengthFunction struct {
	Signature
}

func NewLengthFunction() *LengthFunction {
	return &LengthFunction{
		Signature: Signature{Name: "length", Type: TypeString, Description: "Length of a string or container", Arity: Exactly(1)},
	}
}

func (f *LengthFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	switch v := args[0].(type) {
	case nil:
		return 0, nil
	case string:
		return utf8.RuneCountInString(v), nil
	case cast.Lener:
		return v.Len(), nil
	}
	rv := reflect.ValueOf(args[0])
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	}
	return utf8.RuneCountInString(cast.ToString(args[0])), nil
}

// UpperFunction converts to upper case
type UpperFunction struct {
	Signature
}

func NewUpperFunction() *UpperFunction {
	return &UpperFunction{
		Signature: Signature{Name: "upper", Type: TypeString, Description: "Convert to upper case", Arity: Exactly(1)},
	}
}

func (f *UpperFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	return strings.ToUpper(cast.ToString(args[0])), nil
}

// LowerFunction converts to lower case
type LowerFunction struct {
	Signature
}

func NewLowerFunction() *LowerFunction {
	return &LowerFunction{
		Signature: Signature{Name: "lower", Type: TypeString, Description: "Convert to lower case", Arity: Exactly(1)},
	}
}

func (f *LowerFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	return strings.ToLower(cast.ToString(args[0])), nil
}

// TrimFunction strips surrounding whitespace
type TrimFunction struct {
	Signature
}

func NewTrimFunction() *TrimFunction {
	return &TrimFunction{
		Signature: Signature{Name: "trim", Type: TypeString, Description: "Remove surrounding whitespace", Arity: Exactly(1)},
	}
}

func (f *TrimFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	return strings.TrimSpace(cast.ToString(args[0])), nil
}

// SubstringFunction extracts substr(str, start[, length]) counted in runes.
// A negative start counts from the end.
type SubstringFunction struct {
	Signature
}

func NewSubstringFunction() *SubstringFunction {
	return &SubstringFunction{
		Signature: Signature{Name: "substr", Type: TypeString, Description: "Extract a substring", Arity: Between(2, 3)},
	}
}

func (f *SubstringFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	runes := []rune(cast.ToString(args[0]))
	start, err := cast.ToIntE(args[1])
	if err != nil {
		return nil, err
	}

	strLen := len(runes)
	if start < 0 {
		start += strLen
		if start < 0 {
			start = 0
		}
	}
	if start >= strLen {
		return "", nil
	}

	if len(args) == 2 {
		return string(runes[start:]), nil
	}

	length, err := cast.ToIntE(args[2])
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return "", nil
	}

	end := start + length
	if end > strLen {
		end = strLen
	}
	return string(runes[start:end]), nil
}

// ReplaceFunction replaces every occurrence of old with new
type ReplaceFunction struct {
	Signature
}

func NewReplaceFunction() *ReplaceFunction {
	return &ReplaceFunction{
		Signature: Signature{Name: "replace", Type: TypeString, Description: "Replace all occurrences of a substring", Arity: Exactly(3)},
	}
}

func (f *ReplaceFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	return strings.ReplaceAll(cast.ToString(args[0]), cast.ToString(args[1]), cast.ToString(args[2])), nil
}
