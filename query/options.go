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
	"strings"

	"github.com/rulego/rowq/expr"
	"github.com/rulego/rowq/functions"
	"github.com/rulego/rowq/logger"
)

// DefaultJoinPrefix is prepended to the keys of right-hand rows in a Join.
const DefaultJoinPrefix = "right_"

// ErrorPolicy decides what Where and Filter do when a row fails to evaluate.
type ErrorPolicy int

const (
	// FailFast aborts the query with the first row error.
	FailFast ErrorPolicy = iota
	// SkipRow logs the error at WARN and excludes the row.
	SkipRow
	// CollectErrors excludes failing rows and returns every error at the end.
	CollectErrors
)

func (p ErrorPolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case SkipRow:
		return "skip-row"
	case CollectErrors:
		return "collect"
	default:
		return "unknown"
	}
}

// ParseErrorPolicy accepts the names returned by ErrorPolicy.String.
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fail-fast", "failfast", "":
		return FailFast, nil
	case "skip-row", "skip":
		return SkipRow, nil
	case "collect", "collect-errors":
		return CollectErrors, nil
	}
	return FailFast, fmt.Errorf("invalid error policy %q", name)
}

type config struct {
	log         logger.Logger
	policy      ErrorPolicy
	joinPrefix  string
	exprOptions []expr.Option
}

func newConfig(opts []Option) *config {
	cfg := &config{
		log:        logger.GetDefault(),
		policy:     FailFast,
		joinPrefix: DefaultJoinPrefix,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a Table. Tables derived from it share the configuration.
type Option func(*config)

// WithLogger sets the logger used for skipped rows and debug output.
func WithLogger(log logger.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithErrorPolicy sets how row evaluation errors are handled.
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(c *config) {
		c.policy = policy
	}
}

// WithJoinPrefix overrides DefaultJoinPrefix.
func WithJoinPrefix(prefix string) Option {
	return func(c *config) {
		c.joinPrefix = prefix
	}
}

// WithExprOptions passes compile options to every expression the table
// compiles.
func WithExprOptions(opts ...expr.Option) Option {
	return func(c *config) {
		c.exprOptions = append(c.exprOptions, opts...)
	}
}

// WithFunctions makes registry's functions callable from Where expressions.
func WithFunctions(registry *functions.Registry) Option {
	return WithExprOptions(expr.WithFunctions(registry))
}
