// Package assemble runs the two post-parse passes described in §4.11: a
// stable sort of the collected events by timestamp, and stack resolution
// against the accumulated address vectors and method table. Grounded on
// aclements-go-perf/perffile/reader.go's timeSorter + sort.Stable — the
// same "stable sort by recorded timestamp, nothing fancier" shape.
package assemble

import (
	"sort"

	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/resolver"
)

type byTimestamp []*model.Event

func (s byTimestamp) Len() int           { return len(s) }
func (s byTimestamp) Less(i, j int) bool { return s[i].Timestamp < s[j].Timestamp }
func (s byTimestamp) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Run stable-sorts events by timestamp, reassigns Index to the post-sort
// position, and attaches each event's resolved StackTrace (or
// model.StackTraceEmpty when its stack id has no recorded address vector).
func Run(events []*model.Event, stacks *resolver.StackRegistry, methods *resolver.MethodTable) []*model.Event {
	sort.Stable(byTimestamp(events))

	for i, ev := range events {
		ev.Index = i
		ev.Stack = stacks.Resolve(int32(ev.StackIndex), methods)
	}

	return events
}
