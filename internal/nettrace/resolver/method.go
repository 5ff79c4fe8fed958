// Package resolver accumulates stack address vectors and method-symbol
// records observed while parsing, then resolves each distinct address
// vector to a StackTrace once the stream is fully consumed. Grounded on
// aclements-go-perf/perfsession/symbolize.go's findIP: a flat slice sorted
// once by start address, searched with sort.Search for the floor index.
package resolver

import (
	"sort"

	"github.com/verdie-g/nettrace/internal/nettrace/model"
)

// MethodTable is the flat, start-address-sorted method list used for
// address resolution. Per spec.md §9 "Method-resolution table": a hash map
// keyed by address is wrong here because the lookup needs the floor, not
// an exact key, and would still need the range check.
type MethodTable struct {
	methods []model.MethodDescription
	sorted  bool
}

func NewMethodTable() *MethodTable {
	return &MethodTable{}
}

// Add registers one method-symbol record, typically from a
// MethodLoadUnloadVerbose rundown event.
func (t *MethodTable) Add(m model.MethodDescription) {
	t.methods = append(t.methods, m)
	t.sorted = false
}

func (t *MethodTable) ensureSorted() {
	if t.sorted {
		return
	}
	sort.Slice(t.methods, func(i, j int) bool {
		return t.methods[i].StartAddress < t.methods[j].StartAddress
	})
	t.sorted = true
}

// Resolve finds the method owning addr: the greatest StartAddress <= addr,
// range-checked against StartAddress+Size. Returns the Unresolved sentinel
// when no method qualifies (addr below the lowest known method, or past
// the end of the floor method's range).
func (t *MethodTable) Resolve(addr uint64) model.MethodDescription {
	t.ensureSorted()

	// sort.Search finds the first index whose StartAddress > addr; the
	// floor candidate, if any, is the entry immediately before it.
	idx := sort.Search(len(t.methods), func(i int) bool {
		return t.methods[i].StartAddress > addr
	})
	if idx == 0 {
		return model.Unresolved()
	}
	m := t.methods[idx-1]
	if addr < m.StartAddress || addr > m.StartAddress+m.Size {
		return model.Unresolved()
	}
	return m
}
