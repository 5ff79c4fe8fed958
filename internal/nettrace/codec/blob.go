package codec

import (
	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/payload"
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/registry"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

const (
	flagHasMetadataID       = 1 << 0
	flagHasSeqThreadProc    = 1 << 1
	flagHasThreadID         = 1 << 2
	flagHasStackID          = 1 << 3
	flagHasActivityID       = 1 << 4
	flagHasRelatedActivityID = 1 << 5
	flagIsSorted            = 1 << 6
	flagHasPayloadSize      = 1 << 7
)

// Blob is the result of decoding one event blob: either a metadata
// definition (IsMetadata is set, Event is nil) or a fully decoded event
// (Event.Metadata is the EventMetadata it was decoded against).
type Blob struct {
	IsMetadata bool
	Event      *model.Event
}

// DecodeCompressed decodes one blob in the compressed, flag-driven layout
// (§4.6). state is the block's running delta state, mutated in place.
func DecodeCompressed(r *reader.Reader, state *BlobState, reg *registry.Registry, interp *payload.Interpreter) (*Blob, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return nil, wrapRead(r, err, "reading blob flags")
	}

	if flags&flagHasMetadataID != 0 {
		v, err := r.ReadVarIntS32()
		if err != nil {
			return nil, wrapRead(r, err, "reading metadata_id")
		}
		state.MetadataID = v
	}

	if flags&flagHasSeqThreadProc != 0 {
		seqDelta, err := r.ReadVarIntS32()
		if err != nil {
			return nil, wrapRead(r, err, "reading seq_delta")
		}
		captureThreadID, err := r.ReadVarIntS64()
		if err != nil {
			return nil, wrapRead(r, err, "reading capture_thread_id")
		}
		processorNumber, err := r.ReadVarIntS32()
		if err != nil {
			return nil, wrapRead(r, err, "reading processor_number")
		}
		state.SequenceNumber += seqDelta
		state.CapturingThreadID = captureThreadID
		state.ProcessorNumber = processorNumber
	}

	if flags&flagHasThreadID != 0 {
		v, err := r.ReadVarIntS64()
		if err != nil {
			return nil, wrapRead(r, err, "reading thread_id")
		}
		state.ThreadID = v
	}

	if flags&flagHasStackID != 0 {
		v, err := r.ReadVarIntS32()
		if err != nil {
			return nil, wrapRead(r, err, "reading stack_id")
		}
		state.StackID = v
	}

	tsDelta, err := r.ReadVarIntS64()
	if err != nil {
		return nil, wrapRead(r, err, "reading timestamp delta")
	}
	state.Timestamp += tsDelta

	if flags&flagHasActivityID != 0 {
		g, err := r.ReadGUID()
		if err != nil {
			return nil, wrapRead(r, err, "reading activity_id")
		}
		state.ActivityID = g
	}

	if flags&flagHasRelatedActivityID != 0 {
		g, err := r.ReadGUID()
		if err != nil {
			return nil, wrapRead(r, err, "reading related_activity_id")
		}
		state.RelatedActivityID = g
	}

	// flagIsSorted (bit 6) is record-only and does not affect parsing.

	if flags&flagHasPayloadSize != 0 {
		v, err := r.ReadVarIntS32()
		if err != nil {
			return nil, wrapRead(r, err, "reading payload_size")
		}
		state.PayloadSize = v
	}

	seqForEvent := state.SequenceNumber
	if state.MetadataID != 0 {
		// Format quirk (spec open question, implemented literally): the
		// sequence counter advances implicitly for any non-metadata blob,
		// whether or not has_seq_thread_proc was set on it.
		state.SequenceNumber++
	}

	return decodeBlobBody(r, state, seqForEvent, reg, interp)
}

// DecodeUncompressed decodes one blob in the uncompressed layout (§4.5):
// size, metadata_id, sequence_number, thread_id, capture_thread_id,
// processor_number, stack_id, timestamp, activity_id, related_activity_id
// and payload_size, all present unconditionally, then the payload and
// 4-byte alignment padding.
func DecodeUncompressed(r *reader.Reader, reg *registry.Registry, interp *payload.Interpreter) (*Blob, error) {
	// size is the blob's own declared length; block-level accounting already
	// validates the enclosing block's total size, so it isn't re-checked here.
	if _, err := r.ReadI32(); err != nil {
		return nil, wrapRead(r, err, "reading uncompressed blob size")
	}
	metadataID, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading metadata_id")
	}
	seqNumber, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading sequence_number")
	}
	threadID, err := r.ReadI64()
	if err != nil {
		return nil, wrapRead(r, err, "reading thread_id")
	}
	captureThreadID, err := r.ReadI64()
	if err != nil {
		return nil, wrapRead(r, err, "reading capture_thread_id")
	}
	processorNumber, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading processor_number")
	}
	stackID, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading stack_id")
	}
	timestamp, err := r.ReadI64()
	if err != nil {
		return nil, wrapRead(r, err, "reading timestamp")
	}
	activityID, err := r.ReadGUID()
	if err != nil {
		return nil, wrapRead(r, err, "reading activity_id")
	}
	relatedActivityID, err := r.ReadGUID()
	if err != nil {
		return nil, wrapRead(r, err, "reading related_activity_id")
	}
	payloadSize, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading payload_size")
	}

	state := &BlobState{
		MetadataID:        metadataID,
		SequenceNumber:    seqNumber,
		CapturingThreadID: captureThreadID,
		ThreadID:          threadID,
		ProcessorNumber:   processorNumber,
		StackID:           stackID,
		ActivityID:        activityID,
		RelatedActivityID: relatedActivityID,
		PayloadSize:       payloadSize,
		Timestamp:         timestamp,
	}

	blob, err := decodeBlobBody(r, state, seqNumber, reg, interp)
	if err != nil {
		return nil, err
	}

	if pad := int(r.Position()) % 4; pad != 0 {
		if err := r.Skip(4 - pad); err != nil {
			return nil, wrapRead(r, err, "reading uncompressed blob alignment padding")
		}
	}
	return blob, nil
}

func decodeBlobBody(r *reader.Reader, state *BlobState, seqForEvent int32, reg *registry.Registry, interp *payload.Interpreter) (*Blob, error) {
	payloadStart := r.Position()
	payloadEnd := payloadStart + int64(state.PayloadSize)

	if state.MetadataID == 0 {
		if _, err := reg.DecodeMetadataPayload(r, payloadEnd); err != nil {
			return nil, err
		}
		return &Blob{IsMetadata: true}, nil
	}

	meta, ok := reg.Lookup(model.MetadataID(state.MetadataID))
	if !ok {
		return nil, xerrors.NewCorrupt(r.Position(), "event blob references unknown metadata id %d", state.MetadataID)
	}

	p, err := interp.DecodePayload(r, meta.Fields)
	if err != nil {
		return nil, err
	}

	if r.Position() != payloadEnd {
		return nil, xerrors.NewCorrupt(r.Position(), "event payload ended at %d, expected %d", r.Position(), payloadEnd)
	}

	interp.MaybeRegisterMethod(meta, p)

	ev := &model.Event{
		SequenceNumber:    seqForEvent,
		CapturingThreadID: state.CapturingThreadID,
		ThreadID:          state.ThreadID,
		ProcessorNumber:   state.ProcessorNumber,
		StackIndex:        model.StackIndex(state.StackID),
		Timestamp:         state.Timestamp,
		ActivityID:        state.ActivityID,
		RelatedActivityID: state.RelatedActivityID,
		Metadata:          meta,
		Payload:           p,
	}
	return &Blob{Event: ev}, nil
}

func wrapRead(r *reader.Reader, err error, what string) error {
	if reader.IsPartialInput(err) {
		return xerrors.NewCorrupt(r.Position(), "%s: truncated input", what)
	}
	return xerrors.NewIO(err)
}
