package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleYAML = `
- {id: 1, name: Ada, age: 36, team: core}
- {id: 2, name: Bob, age: 17, team: web}
- {id: 3, name: Cy, age: 52, team: core}
- {id: 4, name: Di, age: 29, team: web}
`

const ordersJSON = `[
  {"user": 1, "item": "book"},
  {"user": 3, "item": "pen"}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"rowq", "query"}, args...))
	return out.String(), err
}

func decodeJSON(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestQueryCommand(t *testing.T) {
	people := writeFile(t, "people.yaml", peopleYAML)
	orders := writeFile(t, "orders.json", ordersJSON)

	tests := []struct {
		name string
		args []string
		want interface{}
	}{
		{
			name: "where and select",
			args: []string{"--where", "$age >= {{min}}", "--var", "min=18", "--select", "name"},
			want: map[string]interface{}{"0": "Ada", "2": "Cy", "3": "Di"},
		},
		{
			name: "grouped aggregate",
			args: []string{"--group", "team", "--agg", "sum:age"},
			want: map[string]interface{}{"core": 88.0, "web": 46.0},
		},
		{
			name: "left join",
			args: []string{"--join", orders, "--on", "id=user", "--strategy", "left", "--select", "right_item"},
			want: map[string]interface{}{"0": "book", "2": "pen"},
		},
		{
			name: "order and limit",
			args: []string{"--order", "age", "--desc", "--limit", "2", "--select", "name"},
			want: []interface{}{"Cy", "Ada"},
		},
		{
			name: "offset renumbers",
			args: []string{"--offset", "3", "--select", "name"},
			want: "Di",
		},
		{
			name: "filter",
			args: []string{"--filter", "team == 'web' && age > 20", "--select", "name"},
			want: "Di",
		},
		{
			name: "precedence",
			args: []string{"--precedence", "--where", "$age > 20 and $team = 'core'", "--select", "count()"},
			want: 2.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--file", people, "--format", "json"}, tt.args...)
			out, err := run(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, decodeJSON(t, out))
		})
	}
}

func TestQueryCommandFormats(t *testing.T) {
	people := writeFile(t, "people.yaml", peopleYAML)

	out, err := run(t, "--file", people, "--select", "sum(age)")
	require.NoError(t, err)
	assert.Equal(t, "Result: 134\n", out)

	out, err = run(t, "--file", people, "--select", "sum(age)", "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "134\n", out)

	out, err = run(t, "--file", people, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "team")
	assert.Contains(t, out, "(1 rows)")
}

func TestQueryCommandErrors(t *testing.T) {
	people := writeFile(t, "people.yaml", peopleYAML)
	broken := writeFile(t, "broken.json", "[{")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file flag", nil},
		{"unreadable file", []string{"--file", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"invalid json", []string{"--file", broken}},
		{"invalid format", []string{"--file", people, "--format", "xml"}},
		{"join without keys", []string{"--file", people, "--join", people}},
		{"bad strategy", []string{"--file", people, "--join", people, "--on", "id=id", "--strategy", "cross"}},
		{"bad var", []string{"--file", people, "--where", "$a", "--var", "novalue"}},
		{"bad aggregate", []string{"--file", people, "--agg", "mode:age"}},
		{"bad policy", []string{"--file", people, "--error-policy", "ignore"}},
		{"bad log level", []string{"--file", people, "--log-level", "loud"}},
		{"row error", []string{"--file", people, "--where", "$name * 2"}},
		{"unknown select function", []string{"--file", people, "--select", "nope(age)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestQueryCommandCollectErrors(t *testing.T) {
	scores := writeFile(t, "scores.yaml", `
- {name: Ada, score: 7.5}
- {name: Bob}
- {name: Cy, score: 9}
- {name: Di}
`)
	args := []string{"rowq", "query", "--file", scores, "--where", "$score * 2 > 10", "--select", "name", "--format", "json"}

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	require.NoError(t, app.Run(append(args, "--error-policy", "collect")))
	assert.Equal(t, map[string]interface{}{"0": "Ada", "2": "Cy"}, decodeJSON(t, out.String()))
	assert.Contains(t, errOut.String(), "2 rows failed to evaluate")
	assert.Contains(t, errOut.String(), "row 1")
	assert.Contains(t, errOut.String(), "row 3")

	_, err := run(t, args[2:]...)
	assert.Error(t, err, "fail-fast stays the default")
}
