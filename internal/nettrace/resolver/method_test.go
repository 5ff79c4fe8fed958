package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/verdie-g/nettrace/internal/nettrace/model"
)

func TestMethodTableResolveBoundaries(t *testing.T) {
	tbl := NewMethodTable()
	tbl.Add(model.MethodDescription{Name: "M", StartAddress: 0x1000, Size: 0x40})

	assert.True(t, tbl.Resolve(0x0FFF).IsUnresolved())

	got := tbl.Resolve(0x1020)
	assert.False(t, got.IsUnresolved())
	assert.Equal(t, "M", got.Name)

	assert.True(t, tbl.Resolve(0x1041).IsUnresolved())

	// Exact bounds are inclusive on both ends.
	assert.False(t, tbl.Resolve(0x1000).IsUnresolved())
	assert.False(t, tbl.Resolve(0x1040).IsUnresolved())
}

func TestMethodTableResolvePicksFloorAmongMultiple(t *testing.T) {
	tbl := NewMethodTable()
	tbl.Add(model.MethodDescription{Name: "A", StartAddress: 0x1000, Size: 0x10})
	tbl.Add(model.MethodDescription{Name: "B", StartAddress: 0x2000, Size: 0x10})
	tbl.Add(model.MethodDescription{Name: "C", StartAddress: 0x3000, Size: 0x10})

	got := tbl.Resolve(0x2005)
	assert.Equal(t, "B", got.Name)

	// Falls in the gap between A's end and B's start: neither range covers it.
	assert.True(t, tbl.Resolve(0x1500).IsUnresolved())
}

func TestMethodTableEmpty(t *testing.T) {
	tbl := NewMethodTable()
	assert.True(t, tbl.Resolve(0x1234).IsUnresolved())
}
