package resolver

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/verdie-g/nettrace/internal/nettrace/model"
)

// group is one distinct address vector, shared by every stack id that
// recorded the same sequence of addresses. Its StackTrace is resolved at
// most once, on first demand, per spec.md §9 "lazy StackTrace per group".
type group struct {
	index int32 // representative stack id, used as StackTrace.Index
	addrs []uint64
	trace *model.StackTrace
}

// StackRegistry accumulates stack id -> address vector associations during
// parsing and resolves each distinct vector to a StackTrace on demand.
// Grouping is by content hash of the address vector (arloliu-mebo's
// internal/hash/id.go hash.ID, xxhash.Sum64 over the raw bytes), with a
// collision check against the stored vector since xxhash is not
// collision-free.
type StackRegistry struct {
	byStackID map[int32]*group
	buckets   map[uint64][]*group
}

func NewStackRegistry() *StackRegistry {
	return &StackRegistry{
		byStackID: make(map[int32]*group),
		buckets:   make(map[uint64][]*group),
	}
}

// Add registers the address vector for stackID. An empty vector is not
// grouped at all — it always resolves to model.StackTraceEmpty.
func (sr *StackRegistry) Add(stackID int32, addrs []uint64) {
	if len(addrs) == 0 {
		return
	}

	h := hashAddrs(addrs)
	for _, g := range sr.buckets[h] {
		if equalAddrs(g.addrs, addrs) {
			sr.byStackID[stackID] = g
			return
		}
	}

	g := &group{index: stackID, addrs: addrs}
	sr.buckets[h] = append(sr.buckets[h], g)
	sr.byStackID[stackID] = g
}

// Resolve returns the StackTrace for stackID, resolving its group's
// address vector against methods on first use. Unknown stack ids (no
// address vector was ever recorded for them) resolve to
// model.StackTraceEmpty, matching "stack id has no group" in §4.11.
func (sr *StackRegistry) Resolve(stackID int32, methods *MethodTable) *model.StackTrace {
	g, ok := sr.byStackID[stackID]
	if !ok {
		return model.StackTraceEmpty
	}
	return sr.resolveGroup(g, methods)
}

func (sr *StackRegistry) resolveGroup(g *group, methods *MethodTable) *model.StackTrace {
	if g.trace == nil {
		frames := make([]model.MethodDescription, len(g.addrs))
		for i, addr := range g.addrs {
			frames[i] = methods.Resolve(addr)
		}
		g.trace = &model.StackTrace{Index: model.StackIndex(g.index), Frames: frames}
	}
	return g.trace
}

// AllStackTraces resolves and returns every distinct address-vector group
// as a StackTrace, for Trace.Stacks. Each group appears exactly once even
// though multiple stack ids may share it.
func (sr *StackRegistry) AllStackTraces(methods *MethodTable) []*model.StackTrace {
	seen := make(map[*group]bool)
	var out []*model.StackTrace
	for _, g := range sr.byStackID {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, sr.resolveGroup(g, methods))
	}
	return out
}

func hashAddrs(addrs []uint64) uint64 {
	buf := make([]byte, len(addrs)*8)
	for i, a := range addrs {
		binary.LittleEndian.PutUint64(buf[i*8:], a)
	}
	return xxhash.Sum64(buf)
}

func equalAddrs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
