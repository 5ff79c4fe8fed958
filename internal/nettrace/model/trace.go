package model

import "time"

// TraceMetadata is the session metadata decoded once from the trace's
// "Trace" header object. Immutable after creation.
type TraceMetadata struct {
	StartTime       time.Time
	QPCSyncTime     int64
	QPCFrequency    int64
	PointerSize     int32
	ProcessID       int32
	NumberOfProcessors int32
	CPUSamplingRate int32
}

// BlockTimeRange records a block header's declared [min, max] timestamp
// range, kept for diagnostic cross-checking against the final sorted order.
type BlockTimeRange struct {
	Kind string // "MetadataBlock" or "EventBlock"
	Min  int64
	Max  int64
}

// Trace is the fully assembled, immutable decode result: session metadata,
// the registered event schemas, the timestamp-ordered event list, and the
// set of resolved stack traces.
type Trace struct {
	Metadata        TraceMetadata
	EventMetadata   map[MetadataID]*EventMetadata
	Events          []*Event
	Stacks          []*StackTrace
	BlockTimeRanges []BlockTimeRange
}

// Duration returns the span between the first and last event's timestamps,
// converted to wall-clock time using QPCFrequency. Zero if there are fewer
// than two events.
func (t *Trace) Duration() time.Duration {
	if len(t.Events) < 2 || t.Metadata.QPCFrequency == 0 {
		return 0
	}
	first := t.Events[0]
	last := t.Events[len(t.Events)-1]
	ticks := last.Timestamp - first.Timestamp
	seconds := float64(ticks) / float64(t.Metadata.QPCFrequency)
	return time.Duration(seconds * float64(time.Second))
}

// TimeRange returns the wall-clock start/end time of the trace, anchored on
// TraceMetadata.StartTime and QPCSyncTime/QPCFrequency.
func (t *Trace) TimeRange() (start, end time.Time) {
	if len(t.Events) == 0 {
		return t.Metadata.StartTime, t.Metadata.StartTime
	}
	qpcToDuration := func(qpc int64) time.Duration {
		if t.Metadata.QPCFrequency == 0 {
			return 0
		}
		delta := qpc - t.Metadata.QPCSyncTime
		seconds := float64(delta) / float64(t.Metadata.QPCFrequency)
		return time.Duration(seconds * float64(time.Second))
	}
	first := t.Events[0]
	last := t.Events[len(t.Events)-1]
	start = t.Metadata.StartTime.Add(qpcToDuration(first.Timestamp))
	end = t.Metadata.StartTime.Add(qpcToDuration(last.Timestamp))
	return start, end
}
