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
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// ErrDivisionByZero is wrapped by the OperandTypeError returned for "/" and
// "%" with a zero right operand.
var ErrDivisionByZero = errors.New("division by zero")

// OperandTypeError is returned when an arithmetic or membership operator
// receives an operand of the wrong type.
type OperandTypeError struct {
	Operator string
	// Side is "left" or "right".
	Side string
	Type string
	Err  error
}

func (e *OperandTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("operator %q: %s hand operand: %v", e.Operator, e.Side, e.Err)
	}
	return fmt.Sprintf("operator %q: %s hand operand must be %s, %s given", e.Operator, e.Side, e.expected(), e.Type)
}

func (e *OperandTypeError) expected() string {
	if e.Operator == "in" {
		return "iterable"
	}
	return "numeric"
}

func (e *OperandTypeError) Unwrap() error {
	return e.Err
}

// UnresolvableKeyError is returned for a call key whose name is neither a
// method of the row nor a registered function.
type UnresolvableKeyError struct {
	Key  string
	Name string
}

func (e *UnresolvableKeyError) Error() string {
	return fmt.Sprintf("cannot resolve %q: no method or function named %q", e.Key, e.Name)
}

// NotFoundError is returned in strict mode when a $path or #name key is
// absent from the row.
type NotFoundError struct {
	Key  string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q not found", e.Key, e.Path)
}

// MalformedExpressionError reports a query that cannot be compiled.
type MalformedExpressionError struct {
	Query  string
	Reason string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression %q: %s", e.Query, e.Reason)
}

// withStack attaches the caller's stack trace. errors.As still reaches the
// typed error through the wrapper.
func withStack(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

// ErrorStack returns err's message followed by the stack recorded when it
// was raised, or just the message for errors without one.
func ErrorStack(err error) string {
	var ge *goerrors.Error
	if errors.As(err, &ge) {
		return ge.ErrorStack()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
