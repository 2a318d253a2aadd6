package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/rulego/rowq/aggregator"
	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/expr"
	"github.com/rulego/rowq/logger"
	"github.com/rulego/rowq/query"
	"github.com/rulego/rowq/utils/table"
)

// QueryCommand returns the query CLI command.
func QueryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Run a query over a row file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "JSON or YAML file holding a list of rows",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "where",
				Aliases: []string{"w"},
				Usage:   "Keep rows matching an expression such as '$age > 18'",
			},
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "Bind {{name}} in --where, as name=value (repeatable)",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "Keep rows matching an expr-lang predicate such as 'age > 18 && team == \"core\"'",
			},
			&cli.StringFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "Comma separated paths and aggregates, e.g. 'name, sum(age)'",
			},
			&cli.StringFlag{
				Name:  "order",
				Usage: "Sort rows by key",
			},
			&cli.BoolFlag{
				Name:  "desc",
				Usage: "Sort in descending order",
			},
			&cli.StringFlag{
				Name:  "group",
				Usage: "Group aggregates by key",
			},
			&cli.StringFlag{
				Name:  "agg",
				Usage: "Aggregate as type:key, e.g. sum:price",
			},
			&cli.StringFlag{
				Name:  "join",
				Usage: "JSON or YAML file to join with",
			},
			&cli.StringFlag{
				Name:  "on",
				Usage: "Join keys as local=foreign",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Join strategy: inner, left, right, outer",
				Value: "inner",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Prefix for keys of joined rows",
				Value: query.DefaultJoinPrefix,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Skip the first n rows",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Keep at most n rows (0 keeps all)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: table, json, yaml",
				Value: "table",
			},
			&cli.BoolFlag{
				Name:  "precedence",
				Usage: "Evaluate --where with operator precedence instead of left to right",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on paths that do not resolve",
			},
			&cli.StringFlag{
				Name:  "error-policy",
				Usage: "Row error handling: fail-fast, skip-row, collect",
				Value: "fail-fast",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error, off",
				Value: "warn",
			},
		},
		Action: runQuery,
	}
}

func runQuery(c *cli.Context) error {
	format := c.String("format")
	if format != "table" && format != "json" && format != "yaml" {
		return fmt.Errorf("invalid format: %s (must be table, json or yaml)", format)
	}

	opts, err := tableOptions(c)
	if err != nil {
		return err
	}

	rows, err := loadRows(c.String("file"))
	if err != nil {
		return err
	}
	tbl := query.New(rows, opts...)

	// row errors kept by the collect policy, reported after the result
	var rowErrs *multierror.Error

	if joinFile := c.String("join"); joinFile != "" {
		if tbl, err = join(c, tbl, joinFile, opts); err != nil {
			return err
		}
	}

	if where := c.String("where"); where != "" {
		vars, err := parseVars(c.StringSlice("var"))
		if err != nil {
			return err
		}
		tbl, err = tbl.Where(where, vars)
		if tbl, err = collect(&rowErrs, tbl, err); err != nil {
			return err
		}
	}

	if filter := c.String("filter"); filter != "" {
		tbl, err = tbl.Filter(filter)
		if tbl, err = collect(&rowErrs, tbl, err); err != nil {
			return err
		}
	}

	if key := c.String("order"); key != "" {
		dir := query.Asc
		if c.Bool("desc") {
			dir = query.Desc
		}
		tbl = tbl.Order(key, dir)
	}

	if n := c.Int("offset"); n > 0 {
		tbl = tbl.Offset(n)
	}
	if n := c.Int("limit"); n > 0 {
		tbl = tbl.Limit(n)
	}

	if key := c.String("group"); key != "" {
		tbl = tbl.Group(key)
	}

	var result interface{} = tbl.Rows()
	switch {
	case c.String("agg") != "":
		aggType, key, err := parseAgg(c.String("agg"))
		if err != nil {
			return err
		}
		if result, err = tbl.Aggregate(aggType, key); err != nil {
			return err
		}
	case c.String("select") != "":
		if result, err = tbl.Select(c.String("select")); err != nil {
			return err
		}
	}

	if err := write(c.App.Writer, format, result); err != nil {
		return err
	}
	if rowErrs != nil {
		fmt.Fprintf(c.App.ErrWriter, "%d rows failed to evaluate: %v\n", len(rowErrs.Errors), rowErrs)
	}
	return nil
}

// collect passes through a filtered table. When the table survived (the
// collect policy), its row errors are added to errs instead of failing.
func collect(errs **multierror.Error, tbl *query.Table, err error) (*query.Table, error) {
	if err == nil || tbl == nil {
		return tbl, err
	}
	*errs = multierror.Append(*errs, err)
	return tbl, nil
}

func tableOptions(c *cli.Context) ([]query.Option, error) {
	level, err := logger.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, err
	}
	policy, err := query.ParseErrorPolicy(c.String("error-policy"))
	if err != nil {
		return nil, err
	}

	opts := []query.Option{
		query.WithLogger(logger.NewLogger(level, c.App.ErrWriter)),
		query.WithErrorPolicy(policy),
		query.WithJoinPrefix(c.String("prefix")),
	}
	if c.Bool("precedence") {
		opts = append(opts, query.WithExprOptions(expr.WithPrecedence()))
	}
	if c.Bool("strict") {
		opts = append(opts, query.WithExprOptions(expr.WithStrictPaths()))
	}
	return opts, nil
}

func join(c *cli.Context, tbl *query.Table, file string, opts []query.Option) (*query.Table, error) {
	local, foreign, ok := strings.Cut(c.String("on"), "=")
	if !ok || local == "" || foreign == "" {
		return nil, fmt.Errorf("--join requires --on local=foreign")
	}
	strategy, err := query.ParseJoinStrategy(c.String("strategy"))
	if err != nil {
		return nil, err
	}
	rows, err := loadRows(file)
	if err != nil {
		return nil, err
	}
	return tbl.Join(query.New(rows, opts...), strings.TrimSpace(local), strings.TrimSpace(foreign), strategy), nil
}

// loadRows decodes a row file. Files ending in .json are read as JSON,
// everything else as YAML.
func loadRows(path string) (*collection.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var rows *collection.Map
	if strings.EqualFold(filepath.Ext(path), ".json") {
		rows, err = collection.FromJSON(data)
	} else {
		rows, err = collection.FromYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

func parseVars(pairs []string) (*collection.Map, error) {
	vars := collection.New()
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --var %q (want name=value)", p)
		}
		vars.Set(strings.TrimSpace(name), value)
	}
	return vars, nil
}

func parseAgg(value string) (aggregator.AggregateType, string, error) {
	name, key, _ := strings.Cut(value, ":")
	aggType, ok := aggregator.ParseAggregateType(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return "", "", fmt.Errorf("unknown aggregate %q", name)
	}
	return aggType, strings.TrimSpace(key), nil
}

func write(w io.Writer, format string, result interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}
	table.Render(w, result)
	return nil
}
