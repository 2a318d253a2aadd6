package functions

import (
	"fmt"
)

// Arity bounds the number of arguments a function accepts. A negative Max
// means there is no upper bound.
type Arity struct {
	Min int
	Max int
}

// Exactly accepts n arguments.
func Exactly(n int) Arity { return Arity{Min: n, Max: n} }

// AtLeast accepts n or more arguments.
func AtLeast(n int) Arity { return Arity{Min: n, Max: -1} }

// Between accepts lo to hi arguments inclusive.
func Between(lo, hi int) Arity { return Arity{Min: lo, Max: hi} }

// Accepts reports whether n arguments fit the bounds.
func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max < 0 || n <= a.Max)
}

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("exactly %d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

// Signature is the descriptive half of a Function: everything except the
// body. Embedding it provides the metadata getters and an argument count
// Validate.
type Signature struct {
	Name        string
	Type        FunctionType
	Description string
	Arity       Arity
}

func (s Signature) GetName() string { return s.Name }
func (s Signature) GetType() FunctionType { return s.Type }
func (s Signature) GetCategory() string { return string(s.Type) }
func (s Signature) GetDescription() string { return s.Description }

// Validate checks the argument count. Functions with extra requirements
// define their own Validate and call this one first.
func (s Signature) Validate(args []interface{}) error {
	if !s.Arity.Accepts(len(args)) {
		return fmt.Errorf("function %s takes %s arguments, got %d", s.Name, s.Arity, len(args))
	}
	return nil
}
