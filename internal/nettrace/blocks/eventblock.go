package blocks

import (
	"github.com/verdie-g/nettrace/internal/nettrace/codec"
	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/payload"
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/registry"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

const compressedFlag = 1 << 0

// DecodeEventBlock decodes the shared MetadataBlock/EventBlock body
// (§4.5): a small header (header_size, flags, min/max timestamp, then
// padding out to header_size), followed by repeated event blobs until the
// block ends. kind labels the returned BlockTimeRange ("MetadataBlock" or
// "EventBlock") for the caller's diagnostics; the decode logic is
// identical either way — a MetadataBlock simply never yields an Event
// because every blob in it is metadata-defining.
func DecodeEventBlock(r *reader.Reader, blockSize int32, kind string, reg *registry.Registry, interp *payload.Interpreter) ([]*model.Event, model.BlockTimeRange, error) {
	bodyStart := r.Position()
	bodyEnd := bodyStart + int64(blockSize)

	headerSize, err := r.ReadI16()
	if err != nil {
		return nil, model.BlockTimeRange{}, wrapRead(r, err, "reading block header_size")
	}
	flags, err := r.ReadI16()
	if err != nil {
		return nil, model.BlockTimeRange{}, wrapRead(r, err, "reading block flags")
	}
	minTimestamp, err := r.ReadI64()
	if err != nil {
		return nil, model.BlockTimeRange{}, wrapRead(r, err, "reading block min_timestamp")
	}
	maxTimestamp, err := r.ReadI64()
	if err != nil {
		return nil, model.BlockTimeRange{}, wrapRead(r, err, "reading block max_timestamp")
	}

	bytesSoFar := r.Position() - bodyStart
	remaining := int64(headerSize) - bytesSoFar
	if remaining < 0 {
		return nil, model.BlockTimeRange{}, xerrors.NewCorrupt(r.Position(),
			"block header_size %d smaller than fields already read (%d)", headerSize, bytesSoFar)
	}
	if remaining > 0 {
		if err := r.Skip(int(remaining)); err != nil {
			return nil, model.BlockTimeRange{}, wrapRead(r, err, "reading block header padding")
		}
	}

	var events []*model.Event
	if flags&compressedFlag != 0 {
		state := codec.NewBlobState()
		for r.Position() < bodyEnd {
			blob, err := codec.DecodeCompressed(r, state, reg, interp)
			if err != nil {
				return nil, model.BlockTimeRange{}, err
			}
			if blob.Event != nil {
				events = append(events, blob.Event)
			}
		}
	} else {
		for r.Position() < bodyEnd {
			blob, err := codec.DecodeUncompressed(r, reg, interp)
			if err != nil {
				return nil, model.BlockTimeRange{}, err
			}
			if blob.Event != nil {
				events = append(events, blob.Event)
			}
		}
	}

	if r.Position() != bodyEnd {
		return nil, model.BlockTimeRange{}, xerrors.NewCorrupt(r.Position(),
			"%s ended at %d, expected %d", kind, r.Position(), bodyEnd)
	}

	return events, model.BlockTimeRange{Kind: kind, Min: minTimestamp, Max: maxTimestamp}, nil
}
