package aggregator

import (
	"sync"

	"github.com/rulego/rowq/utils/cast"
)

// GroupResult is the aggregate of one group.
type GroupResult struct {
	// Key is the group value rendered with cast.ToString.
	Key string
	// Group is the first raw group value seen for Key.
	Group interface{}
	Value interface{}
}

// GroupAggregator partitions values by a group value and folds each
// partition with its own accumulator. Groups are reported in the order they
// first appeared.
type GroupAggregator struct {
	aggType AggregateType
	order   []string
	groups  map[string]AggregatorFunction
	raw     map[string]interface{}
	mu      sync.RWMutex
}

// NewGroupAggregator creates a group aggregator for aggType.
func NewGroupAggregator(aggType AggregateType) (*GroupAggregator, error) {
	if _, err := CreateBuiltinAggregator(aggType); err != nil {
		return nil, err
	}
	return &GroupAggregator{
		aggType: aggType,
		groups:  make(map[string]AggregatorFunction),
		raw:     make(map[string]interface{}),
	}, nil
}

// Add feeds value into the partition of group.
func (ga *GroupAggregator) Add(group, value interface{}) {
	ga.mu.Lock()
	defer ga.mu.Unlock()
	ga.partition(group).Add(value)
}

// Ensure creates the partition of group without adding a value, so groups
// whose rows contribute nothing still appear in Results.
func (ga *GroupAggregator) Ensure(group interface{}) {
	ga.mu.Lock()
	defer ga.mu.Unlock()
	ga.partition(group)
}

func (ga *GroupAggregator) partition(group interface{}) AggregatorFunction {
	key := cast.ToString(group)
	agg, exists := ga.groups[key]
	if !exists {
		// aggType was validated by the constructor
		agg, _ = CreateBuiltinAggregator(ga.aggType)
		ga.groups[key] = agg
		ga.raw[key] = group
		ga.order = append(ga.order, key)
	}
	return agg
}

// Results returns one entry per group in first-appearance order.
func (ga *GroupAggregator) Results() []GroupResult {
	ga.mu.RLock()
	defer ga.mu.RUnlock()

	out := make([]GroupResult, 0, len(ga.order))
	for _, key := range ga.order {
		out = append(out, GroupResult{
			Key:   key,
			Group: ga.raw[key],
			Value: ga.groups[key].Result(),
		})
	}
	return out
}

// Reset drops every group.
func (ga *GroupAggregator) Reset() {
	ga.mu.Lock()
	defer ga.mu.Unlock()
	ga.order = nil
	ga.groups = make(map[string]AggregatorFunction)
	ga.raw = make(map[string]interface{})
}
