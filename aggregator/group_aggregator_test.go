package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupAggregator(t *testing.T) {
	ga, err := NewGroupAggregator(Sum)
	require.NoError(t, err)

	rows := []struct {
		group interface{}
		value interface{}
	}{
		{"B", 5},
		{"A", 1},
		{"A", 2},
		{"B", "1"},
	}
	for _, r := range rows {
		ga.Add(r.group, r.value)
	}

	results := ga.Results()
	require.Len(t, results, 2)
	assert.Equal(t, GroupResult{Key: "B", Group: "B", Value: int64(6)}, results[0])
	assert.Equal(t, GroupResult{Key: "A", Group: "A", Value: int64(3)}, results[1])

	ga.Reset()
	assert.Empty(t, ga.Results())
}

func TestGroupAggregatorNumericGroups(t *testing.T) {
	ga, err := NewGroupAggregator(Max)
	require.NoError(t, err)

	ga.Add(1, 10)
	ga.Add("1", 30)
	ga.Add(nil, 7)

	results := ga.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].Key)
	assert.Equal(t, 1, results[0].Group)
	assert.Equal(t, 30, results[0].Value)
	assert.Equal(t, "", results[1].Key)
}

func TestNewGroupAggregatorUnsupported(t *testing.T) {
	_, err := NewGroupAggregator("collect")
	assert.Error(t, err)
}

func TestGroupAggregatorEnsure(t *testing.T) {
	ga, err := NewGroupAggregator(Count)
	require.NoError(t, err)

	ga.Ensure("empty")
	ga.Add("full", "x")
	ga.Ensure("full")

	results := ga.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "empty", results[0].Key)
	assert.Equal(t, 0, results[0].Value)
	assert.Equal(t, 1, results[1].Value)
}
