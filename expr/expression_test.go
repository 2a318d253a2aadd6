package expr

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/rowq/collection"
	"github.com/rulego/rowq/functions"
)

func testRow() *collection.Map {
	return collection.FromPairs(
		"name", "Ada",
		"age", 36,
		"score", 7.5,
		"tags", []interface{}{"x", "y"},
		"address", map[string]interface{}{"city": "Delft"},
		"active", true,
		"nothing", nil,
	)
}

func TestEvaluate(t *testing.T) {
	row := testRow()
	vars := collection.FromPairs(
		"limit", 5,
		"user", map[string]interface{}{"name": "Bob"},
	)

	tests := []struct {
		name     string
		query    string
		expected interface{}
	}{
		{"empty query", "", ""},
		{"field", "$name", "Ada"},
		{"property", "#name", "Ada"},
		{"nested field", "$address.city", "Delft"},
		{"property is not a path", "#address.city", nil},
		{"missing field", "$missing", nil},
		{"string literal", "'hello'", "hello"},
		{"escaped quote", `'it\'s'`, "it's"},
		{"bare literal", "hello", "hello"},
		{"escaped key", `\$name`, "$name"},
		{"left to right", "2 + 3 * 4", int64(20)},
		{"group", "2 * (3 + 4)", int64(14)},
		{"integer field arithmetic", "$age + 1", int64(37)},
		{"float field arithmetic", "$score * 2", 15.0},
		{"division", "10 / 4", 2.5},
		{"power chain folds left", "2 ** 3 ** 2", int64(64)},
		{"integer overflow becomes float", "9223372036854775807 + 1", float64(9223372036854775807) + 1},
		{"power overflow becomes float", "2 ** 64", 18446744073709551616.0},
		{"concatenation", "'Ada ' + 'Lovelace'", "Ada Lovelace"},
		{"comparison", "$age >= 18", true},
		{"logic with group", "$age >= 18 and ($name = 'Ada')", true},
		{"logic folds left", "$age >= 18 and $name = 'Ada'", false},
		{"null coalescing", "$nothing ?? 'n/a'", "n/a"},
		{"null coalescing keeps value", "$name ?? 'n/a'", "Ada"},
		{"elvis", "0 ?: 'fallback'", "fallback"},
		{"in array", "'x' in [ 'x', 'y' ]", true},
		{"in container", "'x' in $tags", true},
		{"not in container", "'z' in $tags", false},
		{"ternary", "$active ? 'yes' : 'no'", "yes"},
		{"ternary false branch", "$nothing ? 'yes' : 'no'", "no"},
		{"nested ternary", "$nothing ? 1 : $active ? 2 : 3", "2"},
		{"ternary on expression", "1 + 2 ? 'a' : 'b'", "a"},
		{"variable", "{{limit}} * 2", int64(10)},
		{"variable path", "{{user.name}}", "Bob"},
		{"array literal", "[1, 'two']", []interface{}{"1", "two"}},
		{"row method", "count()", 7},
		{"row method with arguments", "get('address.city')", "Delft"},
		{"row method has", "has('name', 'age')", true},
		{"function", "upper($name)", "ADA"},
		{"function with signed argument", "abs(-3)", int64(3)},
		{"aggregate over array", "sum([1, 2, 3])", int64(6)},
		{"nested calls", "upper(concat($name, '-', lower('X')))", "ADA-X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Compile(tt.query)
			require.NoError(t, err)
			result, err := e.Evaluate(row, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestEvaluateWithPrecedence(t *testing.T) {
	row := testRow()
	tests := []struct {
		name     string
		query    string
		expected interface{}
	}{
		{"multiplication first", "2 + 3 * 4", int64(14)},
		{"left associative", "10 - 2 - 3", int64(5)},
		{"power is right associative", "2 ** 3 ** 2", int64(512)},
		{"comparison before logic", "$age >= 18 and $name = 'Ada'", true},
		{"and before or", "0 and 0 or 1", true},
		{"group still wins", "(2 + 3) * 4", int64(20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Eval(tt.query, row, nil, WithPrecedence())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestShortCircuit(t *testing.T) {
	row := testRow()
	tests := []struct {
		name     string
		query    string
		expected interface{}
	}{
		{"or", "$active or nope()", true},
		{"and", "0 and nope()", false},
		{"null coalescing", "$name ?? nope()", "Ada"},
		{"elvis", "$name ?: nope()", "Ada"},
		{"ternary skips else", "$active ? 'yes' : nope()", "yes"},
		{"ternary skips then", "$nothing ? nope() : 'no'", "no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, opts := range [][]Option{nil, {WithPrecedence()}} {
				result, err := Eval(tt.query, row, nil, opts...)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}

	t.Run("strict path on losing branch", func(t *testing.T) {
		result, err := Eval("$active ? 1 : $missing", row, nil, WithStrictPaths())
		require.NoError(t, err)
		assert.Equal(t, "1", result)
	})
}

func TestEvaluateErrors(t *testing.T) {
	row := testRow()

	t.Run("unknown function", func(t *testing.T) {
		_, err := Eval("nope(1)", row, nil)
		var target *UnresolvableKeyError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "nope", target.Name)
	})

	t.Run("strict missing field", func(t *testing.T) {
		_, err := Eval("$missing + 1", row, nil, WithStrictPaths())
		var target *NotFoundError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "missing", target.Path)
	})

	t.Run("strict missing property", func(t *testing.T) {
		_, err := Eval("#missing", nil, nil, WithStrictPaths())
		var target *NotFoundError
		require.True(t, errors.As(err, &target))
	})

	t.Run("non numeric operand", func(t *testing.T) {
		_, err := Eval("$name - 1", row, nil)
		var target *OperandTypeError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "-", target.Operator)
		assert.Equal(t, "left", target.Side)
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := Eval("1 / 0", row, nil)
		assert.True(t, errors.Is(err, ErrDivisionByZero))
		_, err = Eval("7 % 0", row, nil)
		assert.True(t, errors.Is(err, ErrDivisionByZero))
	})

	t.Run("in needs an iterable", func(t *testing.T) {
		_, err := Eval("'a' in 'abc'", row, nil)
		var target *OperandTypeError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "in", target.Operator)
		assert.Contains(t, err.Error(), "iterable")
	})

	t.Run("function argument count", func(t *testing.T) {
		_, err := Eval("abs()", row, nil)
		assert.Error(t, err)
	})

	t.Run("stack trace", func(t *testing.T) {
		_, err := Eval("nope()", row, nil)
		require.Error(t, err)
		assert.Contains(t, ErrorStack(err), "nope")
		assert.Contains(t, ErrorStack(err), ".go:")
	})
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		opts  []Option
	}{
		{"unclosed group", "(1 + 2", nil},
		{"unexpected close", "1 + 2)", nil},
		{"unterminated string", "'abc", nil},
		{"ternary without else", "$a ? 1", nil},
		{"malformed argument", "upper('abc)", nil},
		{"too deep", "((((1))))", []Option{WithMaxDepth(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.query, tt.opts...)
			var target *MalformedExpressionError
			require.True(t, errors.As(err, &target), "got %v", err)
			// nested failures report the innermost sub-expression
			assert.Contains(t, tt.query, target.Query)
		})
	}

	assert.Panics(t, func() { MustCompile("(") })
}

func TestCustomFunctions(t *testing.T) {
	reg := functions.NewDefaultRegistry()
	require.NoError(t, reg.RegisterFunc("double", functions.TypeCustom, "Double a number", functions.Exactly(1),
		func(ctx *functions.FunctionContext, args []interface{}) (interface{}, error) {
			return ApplyOperator(args[0], "*", 2)
		}))

	e := MustCompile("double($age) + 1", WithFunctions(reg))
	result, err := e.Evaluate(testRow(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(73), result)

	_, err = Eval("double(1)", nil, nil)
	var target *UnresolvableKeyError
	assert.True(t, errors.As(err, &target), "builtin registry must not see custom functions")
}

func TestExpressionAccessors(t *testing.T) {
	e := MustCompile("$a + f($b, $a) + (#c - $d.e)")
	assert.Equal(t, []string{"a", "b", "d.e"}, e.Fields())
	assert.Equal(t, []string{"$a", "+", "f($b, $a)", "+", "(#c - $d.e)"}, e.Tokens())
	assert.Equal(t, "$a + f($b, $a) + (#c - $d.e)", e.String())

	tokens := e.Tokens()
	tokens[0] = "changed"
	assert.Equal(t, "$a", e.Tokens()[0])
}

func TestEvaluateNilContainers(t *testing.T) {
	var noRow, noVars *collection.Map

	result, err := MustCompile("{{limit}} ?? 'none'").Evaluate(testRow(), noVars)
	require.NoError(t, err)
	assert.Equal(t, "none", result)

	result, err = MustCompile("$name").Evaluate(noRow, noVars)
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = MustCompile("#name", WithStrictPaths()).Evaluate(noRow, nil)
	var target *NotFoundError
	assert.True(t, errors.As(err, &target))

	assert.Equal(t, 0, noRow.Len())
	assert.False(t, noRow.Has("name"))
	_, ok := noRow.Resolve("a.b")
	assert.False(t, ok)
}

func TestEvaluateBool(t *testing.T) {
	row := testRow()
	ok, err := MustCompile("$age > 30").EvaluateBool(row, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = MustCompile("$nothing").EvaluateBool(row, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = MustCompile("$name * 2").EvaluateBool(row, nil)
	assert.Error(t, err)
}

func TestEvaluateIsRepeatable(t *testing.T) {
	e := MustCompile("$age * 2 + count()")
	row := testRow()

	first, err := e.Evaluate(row, nil)
	require.NoError(t, err)
	second, err := e.Evaluate(row, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(79), first)
}

func TestConcurrentEvaluate(t *testing.T) {
	e := MustCompile("$n * 2")
	var wg sync.WaitGroup
	results := make([]interface{}, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := e.Evaluate(collection.FromPairs("n", i), nil)
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	wg.Wait()
	for i, v := range results {
		assert.Equal(t, int64(i*2), v)
	}
}
