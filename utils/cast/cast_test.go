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

package cast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect bool
	}{
		{"int", 123, true},
		{"float64", 1.5, true},
		{"uint8", uint8(3), true},
		{"integer string", "42", true},
		{"negative string", "-42", true},
		{"decimal string", "3.14", true},
		{"leading dot", ".5", true},
		{"exponent", "1e3", true},
		{"padded", " 7 ", true},
		{"empty", "", false},
		{"word", "abc", false},
		{"trailing garbage", "12a", false},
		{"lone sign", "-", false},
		{"lone dot", ".", false},
		{"dangling exponent", "1e", false},
		{"hex", "0x1F", false},
		{"bool", true, false},
		{"nil", nil, false},
		{"slice", []int{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, IsNumeric(tt.input))
		})
	}
}

func TestIsInteger(t *testing.T) {
	assert.True(t, IsInteger(3))
	assert.True(t, IsInteger("3"))
	assert.True(t, IsInteger("-12"))
	assert.False(t, IsInteger("3.0"))
	assert.False(t, IsInteger(3.0))
	assert.False(t, IsInteger("x"))
}

func TestToFloat64E(t *testing.T) {
	f, err := ToFloat64E("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = ToFloat64E(int64(4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, f)

	_, err = ToFloat64E("abc")
	assert.Error(t, err)

	assert.Equal(t, 0.0, ToFloat("abc"))
}

func TestToString(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		expect string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"int", 12, "12"},
		{"float", 2.50, "2.5"},
		{"whole float", 20.0, "20"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ToString(tt.input))
		})
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy("0"))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy([]interface{}{}))
	assert.True(t, Truthy("false"))
	assert.True(t, Truthy("a"))
	assert.True(t, Truthy(1))
	assert.True(t, Truthy([]interface{}{1}))
}

func TestEquality(t *testing.T) {
	assert.True(t, LooseEqual("1", 1))
	assert.True(t, LooseEqual("1.0", 1))
	assert.True(t, LooseEqual("true", true))
	assert.False(t, LooseEqual("a", "b"))

	assert.True(t, StrictEqual("2", 2.0))
	assert.False(t, StrictEqual("2", "two"))
	assert.True(t, StrictEqual("x", "x"))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(2, "10"))
	assert.Equal(t, 1, Compare("b", "a"))
	assert.Equal(t, 0, Compare("3", 3.0))
	assert.Equal(t, -1, Compare(nil, 0))
	assert.Equal(t, 1, Compare(0, nil))
	assert.Equal(t, 0, Compare(nil, nil))
}
