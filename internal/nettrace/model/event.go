package model

import "github.com/google/uuid"

// StackIndex is an opaque handle into a Trace's stack table, assigned by the
// producer. It is resolved to a StackTrace during assembly.
type StackIndex int32

// Event is one decoded, fully-resolved trace event.
type Event struct {
	// Index is this event's position in the final, timestamp-sorted trace.
	// Assigned by the assembler; meaningless before sorting.
	Index int

	SequenceNumber   int32
	CapturingThreadID int64
	ThreadID         int64
	ProcessorNumber  int32
	StackIndex       StackIndex
	Timestamp        int64 // QPC ticks
	ActivityID       uuid.UUID
	RelatedActivityID uuid.UUID

	Metadata *EventMetadata
	Payload  Payload

	// Stack is populated by the assembler; StackTraceEmpty if StackIndex had
	// no corresponding address vector.
	Stack *StackTrace
}
