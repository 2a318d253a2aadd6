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

package query

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/condition"
	"github.com/rulego/rowq/expr"
)

// RowError is a failure to evaluate a predicate against one row.
type RowError struct {
	Key string
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %s: %v", e.Key, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Where keeps the rows for which query evaluates truthy. vars binds
// {{name}} keys and may be nil. Rows that are not containers never match.
//
// How a row that fails to evaluate is handled depends on the ErrorPolicy:
// FailFast returns nil and the error, SkipRow logs and drops the row, and
// CollectErrors drops the row and returns the matching rows together with a
// *multierror.Error listing every failure.
func (t *Table) Where(query string, vars expr.Resolvable) (*Table, error) {
	e, err := expr.Compile(query, t.cfg.exprOptions...)
	if err != nil {
		return nil, err
	}
	return t.filterRows(func(row *collection.Map) (bool, error) {
		return e.EvaluateBool(row, vars)
	})
}

// WhereExpr is Where with an already compiled expression.
func (t *Table) WhereExpr(e *expr.Expression, vars expr.Resolvable) (*Table, error) {
	return t.filterRows(func(row *collection.Map) (bool, error) {
		return e.EvaluateBool(row, vars)
	})
}

// Filter keeps the rows matching an expr-lang predicate such as
// "age > 18 && like_match(name, 'A%')". Rows are exposed to the predicate as
// plain Go maps. Errors follow the table's ErrorPolicy.
func (t *Table) Filter(code string) (*Table, error) {
	cond, err := condition.NewExprCondition(code)
	if err != nil {
		return nil, err
	}
	return t.filterRows(func(row *collection.Map) (bool, error) {
		return cond.Evaluate(row.ToNative())
	})
}

func (t *Table) filterRows(match func(row *collection.Map) (bool, error)) (*Table, error) {
	var errs *multierror.Error
	out := collection.New()

	var failed error
	t.rows.Range(func(k string, v interface{}) bool {
		row, ok := v.(*collection.Map)
		if !ok {
			return true
		}
		keep, err := match(row)
		if err != nil {
			rowErr := &RowError{Key: k, Err: err}
			switch t.cfg.policy {
			case SkipRow:
				t.cfg.log.WithField("row", k).Warn("skipping row: %v", err)
			case CollectErrors:
				errs = multierror.Append(errs, rowErr)
			default:
				failed = rowErr
				return false
			}
			return true
		}
		if keep {
			out.Set(k, v)
		}
		return true
	})
	if failed != nil {
		return nil, failed
	}

	t.cfg.log.Debug("filter kept %d of %d rows", out.Len(), t.rows.Len())
	return t.derive(out), errs.ErrorOrNil()
}
