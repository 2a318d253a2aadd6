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

	"github.com/rulego/rowq/collection"
)

const usersYAML = `
- {id: 1, name: Ada}
- {id: 2, name: Bob}
- {id: 3, name: Cy}
`

const ordersYAML = `
- {user: 1, item: book}
- {user: 3, item: pen}
- {user: 4, item: cup}
`

func TestJoinStrategies(t *testing.T) {
	users := tableFromYAML(t, usersYAML)
	orders := tableFromYAML(t, ordersYAML)

	tests := []struct {
		strategy JoinStrategy
		names    []interface{}
		items    []interface{}
	}{
		{Inner, []interface{}{"Ada", "Cy"}, []interface{}{"book", "pen"}},
		{Left, []interface{}{"Ada", "Bob", "Cy"}, []interface{}{"book", nil, "pen"}},
		{Right, []interface{}{"Ada", "Cy", nil}, []interface{}{"book", "pen", "cup"}},
		{Outer, []interface{}{"Ada", "Bob", "Cy", nil}, []interface{}{"book", nil, "pen", "cup"}},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			out := users.Join(orders, "id", "user", tt.strategy)
			assert.Equal(t, tt.names, column(t, out, "name"))
			assert.Equal(t, tt.items, column(t, out, "right_item"))
		})
	}
}

func TestJoinMergesRows(t *testing.T) {
	users := tableFromYAML(t, usersYAML)
	orders := tableFromYAML(t, ordersYAML)

	out := users.Join(orders, "id", "user", Inner)
	first, ok := out.Rows().First()
	require.True(t, ok)
	assert.Equal(t, collection.FromPairs("id", 1, "name", "Ada", "right_user", 1, "right_item", "book"), first)

	// unmatched right rows carry prefixed keys only
	right := users.Join(orders, "id", "user", Right)
	last, _ := right.Rows().Last()
	assert.Equal(t, []string{"right_user", "right_item"}, last.(*collection.Map).Keys())

	// inputs are untouched
	assert.Equal(t, []string{"id", "name"}, mustRow(t, users, "0").Keys())
}

func TestJoinPrefix(t *testing.T) {
	users := tableFromYAML(t, usersYAML, WithJoinPrefix("o_"))
	orders := tableFromYAML(t, ordersYAML)

	out := users.Join(orders, "id", "user", Inner)
	assert.Equal(t, []interface{}{"book", "pen"}, column(t, out, "o_item"))
	assert.Equal(t, []interface{}{nil, nil}, column(t, out, "right_item"))
}

func TestJoinCardinality(t *testing.T) {
	tests := []struct {
		name           string
		left, right    string
		local, foreign string
	}{
		{"partial overlap", usersYAML, ordersYAML, "id", "user"},
		{"duplicate left keys", "- {k: 1}\n- {k: 1}\n- {k: 2}\n", "- {k: 1}\n", "k", "k"},
		{"duplicate right keys", "- {k: 1}\n", "- {k: 1}\n- {k: 1}\n- {k: 3}\n", "k", "k"},
		{"both duplicated", "- {k: a}\n- {k: a}\n", "- {k: a}\n- {k: a}\n- {k: a}\n", "k", "k"},
		{"missing keys", "- {k: 1}\n- {x: 1}\n", "- {x: 1}\n- {k: 1}\n", "k", "k"},
		{"empty right", "- {k: 1}\n", "[]\n", "k", "k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tableFromYAML(t, tt.left)
			r := tableFromYAML(t, tt.right)

			inner := l.Join(r, tt.local, tt.foreign, Inner).Count()
			left := l.Join(r, tt.local, tt.foreign, Left).Count()
			right := l.Join(r, tt.local, tt.foreign, Right).Count()
			outer := l.Join(r, tt.local, tt.foreign, Outer).Count()

			assert.LessOrEqual(t, inner, l.Count())
			assert.LessOrEqual(t, inner, r.Count())
			assert.Equal(t, l.Count(), left)
			assert.Equal(t, r.Count(), right)
			assert.Equal(t, l.Count()+r.Count()-inner, outer)
		})
	}
}

func TestJoinNumericAndStringKeys(t *testing.T) {
	l := tableFromYAML(t, "- {k: 1}\n")
	r := tableFromYAML(t, "- {k: '1'}\n")
	assert.Equal(t, 1, l.Join(r, "k", "k", Inner).Count())
}

func TestParseJoinStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    JoinStrategy
		wantErr bool
	}{
		{"inner", Inner, false},
		{"", Inner, false},
		{"LEFT", Left, false},
		{" right ", Right, false},
		{"outer", Outer, false},
		{"full", Outer, false},
		{"cross", Inner, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJoinStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func mustRow(t *testing.T, tbl *Table, key string) *collection.Map {
	t.Helper()
	v, ok := tbl.Rows().Get(key)
	require.True(t, ok)
	row, ok := v.(*collection.Map)
	require.True(t, ok)
	return row
}

func BenchmarkJoin(b *testing.B) {
	rows := make([]map[string]interface{}, 20000)
	for i := range rows {
		rows[i] = map[string]interface{}{"id": i, "v": i % 7}
	}
	tbl := FromRows(rows)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if tbl.Join(tbl, "id", "id", Inner).Count() != len(rows) {
			b.Fatal("unexpected join size")
		}
	}
}
