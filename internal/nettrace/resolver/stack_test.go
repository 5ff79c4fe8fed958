package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdie-g/nettrace/internal/nettrace/model"
)

func TestStackRegistryGroupsIdenticalAddressVectors(t *testing.T) {
	sr := NewStackRegistry()
	methods := NewMethodTable()
	methods.Add(model.MethodDescription{Name: "M", StartAddress: 0x100, Size: 0x10})

	sr.Add(1, []uint64{0x100, 0x105})
	sr.Add(2, []uint64{0x100, 0x105})
	sr.Add(3, []uint64{0x100})

	t1 := sr.Resolve(1, methods)
	t2 := sr.Resolve(2, methods)
	t3 := sr.Resolve(3, methods)

	require.NotNil(t, t1)
	require.NotNil(t, t2)
	assert.Same(t, t1, t2, "identical address vectors must share the same StackTrace")
	assert.NotSame(t, t1, t3)
}

func TestStackRegistryEmptyVectorIsStackTraceEmpty(t *testing.T) {
	sr := NewStackRegistry()
	methods := NewMethodTable()

	sr.Add(1, nil)
	got := sr.Resolve(1, methods)
	assert.True(t, got.IsEmpty())
}

func TestStackRegistryUnknownStackIDIsEmpty(t *testing.T) {
	sr := NewStackRegistry()
	methods := NewMethodTable()
	got := sr.Resolve(99, methods)
	assert.True(t, got.IsEmpty())
}

func TestStackRegistryAllStackTracesDedupesGroups(t *testing.T) {
	sr := NewStackRegistry()
	methods := NewMethodTable()
	methods.Add(model.MethodDescription{Name: "M", StartAddress: 0x100, Size: 0x10})

	sr.Add(1, []uint64{0x100})
	sr.Add(2, []uint64{0x100}) // shares group 1
	sr.Add(3, []uint64{0x200}) // distinct, resolves to Unresolved frame

	all := sr.AllStackTraces(methods)
	assert.Len(t, all, 2)
}
