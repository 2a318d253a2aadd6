package functions

import (
	"fmt"
	"strings"

	"github.com/rulego/rowq/utils/cast"
)

// CoalesceFunction returns the first non-nil argument
type CoalesceFunction struct {
	Signature
}

func NewCoalesceFunction() *CoalesceFunction {
	return &CoalesceFunction{
		Signature: Signature{Name: "coalesce", Type: TypeConditional, Description: "Return the first non-nil value", Arity: AtLeast(1)},
	}
}

func (f *CoalesceFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	for _, arg := range args {
		if arg != nil {
			return arg, nil
		}
	}
	return nil, nil
}

// IfNullFunction returns its second argument when the first is nil
type IfNullFunction struct {
	Signature
}

func NewIfNullFunction() *IfNullFunction {
	return &IfNullFunction{
		Signature: Signature{Name: "if_null", Type: TypeConditional, Description: "Return the second argument if the first is nil", Arity: Exactly(2)},
	}
}

func (f *IfNullFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	if args[0] == nil {
		return args[1], nil
	}
	return args[0], nil
}

// ContainsFunction reports whether a list contains a value, or a string a
// substring
type ContainsFunction struct {
	Signature
}

func NewContainsFunction() *ContainsFunction {
	return &ContainsFunction{
		Signature: Signature{Name: "contains", Type: TypeCollection, Description: "Check list membership or substring", Arity: Exactly(2)},
	}
}

func (f *ContainsFunction) Validate(args []interface{}) error {
	if err := f.Signature.Validate(args); err != nil {
		return err
	}
	if _, ok := args[0].(string); ok {
		return nil
	}
	if _, ok := listValues(args[0]); !ok {
		return fmt.Errorf("contains: first argument must be a list or string, %s given", cast.TypeName(args[0]))
	}
	return nil
}

func (f *ContainsFunction) Execute(ctx *FunctionContext, args []interface{}) (interface{}, error) {
	if s, ok := args[0].(string); ok {
		return strings.Contains(s, cast.ToString(args[1])), nil
	}
	values, _ := listValues(args[0])
	for _, v := range values {
		if cast.LooseEqual(v, args[1]) {
			return true, nil
		}
	}
	return false, nil
}
