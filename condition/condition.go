package condition

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Condition is a compiled boolean predicate over a row environment.
type Condition interface {
	Evaluate(env interface{}) (bool, error)
}

type ExprCondition struct {
	source  string
	program *vm.Program
}

// NewExprCondition compiles an expr-lang predicate. Undefined variables
// evaluate to nil so rows missing a field simply fail the comparison.
func NewExprCondition(expression string) (*ExprCondition, error) {
	options := []expr.Option{
		expr.Function("like_match", func(params ...any) (any, error) {
			if len(params) != 2 {
				return false, fmt.Errorf("like_match function requires 2 parameters")
			}
			text, ok1 := params[0].(string)
			pattern, ok2 := params[1].(string)
			if !ok1 || !ok2 {
				return false, fmt.Errorf("like_match function requires string parameters")
			}
			return matchesLikePattern(text, pattern), nil
		}),
		expr.Function("is_null", func(params ...any) (any, error) {
			if len(params) != 1 {
				return false, fmt.Errorf("is_null function requires 1 parameter")
			}
			return params[0] == nil, nil
		}),
		expr.Function("is_not_null", func(params ...any) (any, error) {
			if len(params) != 1 {
				return false, fmt.Errorf("is_not_null function requires 1 parameter")
			}
			return params[0] != nil, nil
		}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	return &ExprCondition{source: expression, program: program}, nil
}

// MustNewExprCondition is like NewExprCondition but panics on error.
func MustNewExprCondition(expression string) *ExprCondition {
	c, err := NewExprCondition(expression)
	if err != nil {
		panic(err)
	}
	return c
}

func (ec *ExprCondition) Evaluate(env interface{}) (bool, error) {
	result, err := expr.Run(ec.program, env)
	if err != nil {
		return false, fmt.Errorf("condition %q: %w", ec.source, err)
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q: result is %T, not bool", ec.source, result)
	}
	return b, nil
}

func (ec *ExprCondition) String() string {
	return ec.source
}

// matchesLikePattern implements SQL LIKE matching: % matches any sequence,
// _ matches exactly one character.
func matchesLikePattern(text, pattern string) bool {
	return likeMatch([]rune(text), []rune(pattern), 0, 0)
}

func likeMatch(text, pattern []rune, textIndex, patternIndex int) bool {
	if patternIndex >= len(pattern) {
		return textIndex >= len(text)
	}

	// text exhausted: only trailing % can still match
	if textIndex >= len(text) {
		for i := patternIndex; i < len(pattern); i++ {
			if pattern[i] != '%' {
				return false
			}
		}
		return true
	}

	switch pattern[patternIndex] {
	case '%':
		if likeMatch(text, pattern, textIndex, patternIndex+1) {
			return true
		}
		for i := textIndex; i < len(text); i++ {
			if likeMatch(text, pattern, i+1, patternIndex+1) {
				return true
			}
		}
		return false
	case '_':
		return likeMatch(text, pattern, textIndex+1, patternIndex+1)
	default:
		if text[textIndex] == pattern[patternIndex] {
			return likeMatch(text, pattern, textIndex+1, patternIndex+1)
		}
		return false
	}
}
