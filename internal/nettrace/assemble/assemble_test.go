package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/resolver"
)

func TestRunSortsByTimestampStably(t *testing.T) {
	events := []*model.Event{
		{SequenceNumber: 3, Timestamp: 100},
		{SequenceNumber: 1, Timestamp: 50},
		{SequenceNumber: 2, Timestamp: 50}, // same timestamp as above, must keep relative order
		{SequenceNumber: 4, Timestamp: 200},
	}

	stacks := resolver.NewStackRegistry()
	methods := resolver.NewMethodTable()

	out := Run(events, stacks, methods)

	var seqs []int32
	var timestamps []int64
	for i, ev := range out {
		assert.Equal(t, i, ev.Index)
		seqs = append(seqs, ev.SequenceNumber)
		timestamps = append(timestamps, ev.Timestamp)
	}
	assert.Equal(t, []int32{1, 2, 3, 4}, seqs)
	assert.Equal(t, []int64{50, 50, 100, 200}, timestamps)
}

func TestRunAttachesEmptyStackForUnknownStackIndex(t *testing.T) {
	events := []*model.Event{{Timestamp: 1, StackIndex: 42}}
	stacks := resolver.NewStackRegistry()
	methods := resolver.NewMethodTable()

	out := Run(events, stacks, methods)
	assert.True(t, out[0].Stack.IsEmpty())
}
