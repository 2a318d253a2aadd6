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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder(t *testing.T) {
	tbl := tableFromYAML(t, peopleYAML)

	tests := []struct {
		name  string
		key   string
		dir   SortDirection
		keys  []string
		names []interface{}
	}{
		{"numeric asc", "age", Asc, []string{"1", "3", "0", "2"}, []interface{}{"Bob", "Di", "Ada", "Cy"}},
		{"numeric desc", "age", Desc, []string{"2", "0", "3", "1"}, []interface{}{"Cy", "Ada", "Di", "Bob"}},
		{"missing first", "score", Asc, []string{"2", "3", "0", "1"}, []interface{}{"Cy", "Di", "Ada", "Bob"}},
		{"missing last when desc", "score", Desc, []string{"1", "0", "3", "2"}, []interface{}{"Bob", "Ada", "Di", "Cy"}},
		{"stable on ties", "team", Asc, []string{"0", "2", "1", "3"}, []interface{}{"Ada", "Cy", "Bob", "Di"}},
		{"stable on ties desc", "team", Desc, []string{"1", "3", "0", "2"}, []interface{}{"Bob", "Di", "Ada", "Cy"}},
		{"strings", "name", Desc, []string{"3", "2", "1", "0"}, []interface{}{"Di", "Cy", "Bob", "Ada"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tbl.Order(tt.key, tt.dir)
			assert.Equal(t, tt.keys, out.Rows().Keys())
			assert.Equal(t, tt.names, column(t, out, "name"))
		})
	}
	assert.Equal(t, []interface{}{"Ada", "Bob", "Cy", "Di"}, column(t, tbl, "name"))
}

func TestOrderMixedNumbers(t *testing.T) {
	tbl := tableFromYAML(t, "- {v: 10}\n- {v: 9.5}\n- {v: '100'}\n- {v: 2}\n")
	out := tbl.Order("v", Asc)
	assert.Equal(t, []interface{}{2, 9.5, 10, "100"}, column(t, out, "v"))
}

func TestParseSortDirection(t *testing.T) {
	for in, want := range map[string]SortDirection{"asc": Asc, "": Asc, "DESC": Desc, " desc ": Desc} {
		got, err := ParseSortDirection(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortDirection("up")
	assert.Error(t, err)
}
