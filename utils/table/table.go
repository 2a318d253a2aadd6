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

// Package table renders query results as text tables.
package table

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/utils/cast"
)

// PrintTableFromSlice prints data to stdout. Columns follow fieldOrder, then
// the remaining columns in alphabetical order.
func PrintTableFromSlice(data []map[string]interface{}, fieldOrder []string) {
	RenderSlice(os.Stdout, data, fieldOrder)
}

// RenderSlice writes data as a table to w.
func RenderSlice(w io.Writer, data []map[string]interface{}, fieldOrder []string) {
	if len(data) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	columnSet := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			columnSet[col] = true
		}
	}

	var columns []string
	for _, field := range fieldOrder {
		if columnSet[field] {
			columns = append(columns, field)
			delete(columnSet, field)
		}
	}
	rest := make([]string, 0, len(columnSet))
	for col := range columnSet {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	columns = append(columns, rest...)

	rows := make([][]string, 0, len(data))
	for _, row := range data {
		cells := make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok {
				cells[i] = formatCell(v)
			}
		}
		rows = append(rows, cells)
	}
	render(w, columns, rows)
}

// Render writes a query result to w:
//   - a Map of row Maps becomes one table row per entry, columns in order of
//     first appearance
//   - any other Map becomes a key/value table
//   - scalars are printed as "Result: v"
func Render(w io.Writer, result interface{}) {
	m, ok := result.(*collection.Map)
	if !ok {
		fmt.Fprintf(w, "Result: %s\n", formatCell(result))
		return
	}
	if m.Len() == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	if columns, ok := rowColumns(m); ok {
		rows := make([][]string, 0, m.Len())
		m.Range(func(_ string, v interface{}) bool {
			row := v.(*collection.Map)
			cells := make([]string, len(columns))
			for i, col := range columns {
				if cell, ok := row.Get(col); ok {
					cells[i] = formatCell(cell)
				}
			}
			rows = append(rows, cells)
			return true
		})
		render(w, columns, rows)
		return
	}

	rows := make([][]string, 0, m.Len())
	m.Range(func(k string, v interface{}) bool {
		rows = append(rows, []string{k, formatCell(v)})
		return true
	})
	render(w, []string{"key", "value"}, rows)
}

// rowColumns reports whether every value of m is a non-list Map and, if so,
// the union of their keys.
func rowColumns(m *collection.Map) ([]string, bool) {
	seen := make(map[string]bool)
	var columns []string
	isRows := true
	m.Range(func(_ string, v interface{}) bool {
		row, ok := v.(*collection.Map)
		if !ok || row.IsList() {
			isRows = false
			return false
		}
		for _, k := range row.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
		return true
	})
	return columns, isRows && len(columns) > 0
}

func render(w io.Writer, header []string, rows [][]string) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(rows)
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func formatCell(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return cast.ToString(v)
}
