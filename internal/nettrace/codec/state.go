// Package codec decodes the event-blob bodies inside a MetadataBlock or
// EventBlock, in both the compressed (flag-driven delta) and uncompressed
// layouts (§4.5, §4.6). Grounded on spec.md §9 "Per-block state object":
// delta state is a plain struct mutated by reference across a single
// block's blobs, reset at each new block.
package codec

import "github.com/google/uuid"

// BlobState holds the "previous value" for every field a compressed blob
// may omit, plus Timestamp which is always a delta. One BlobState is owned
// per block (StackBlock has none; MetadataBlock/EventBlock each get a
// fresh zero-valued BlobState at the start of the block).
type BlobState struct {
	MetadataID        int32
	SequenceNumber     int32
	CapturingThreadID int64
	ThreadID          int64
	ProcessorNumber   int32
	StackID           int32
	ActivityID        uuid.UUID
	RelatedActivityID uuid.UUID
	PayloadSize       int32
	Timestamp         int64
}

func NewBlobState() *BlobState {
	return &BlobState{}
}
