// Package nettrace decodes the NetTrace/EventPipe binary trace format
// produced by a managed-runtime diagnostic session into an in-memory
// Trace: ordered events with typed payloads, per-event stack traces
// resolved to method symbols, and session metadata.
//
// Decode consumes an io.Reader and performs no I/O beyond reading it; the
// diagnostic session/transport that produces the bytes, the CLI, and
// progress UIs are all outside this package's concern.
package nettrace

import (
	"context"
	"io"

	"github.com/verdie-g/nettrace/internal/nettrace/assemble"
	"github.com/verdie-g/nettrace/internal/nettrace/blocks"
	"github.com/verdie-g/nettrace/internal/nettrace/envelope"
	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/payload"
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/registry"
	"github.com/verdie-g/nettrace/internal/nettrace/resolver"
)

// Re-exported data model (internal/nettrace/model, §3), so callers never
// need to import internal/... themselves.
type (
	Trace             = model.Trace
	TraceMetadata     = model.TraceMetadata
	BlockTimeRange    = model.BlockTimeRange
	Event             = model.Event
	EventMetadata     = model.EventMetadata
	FieldDefinition   = model.FieldDefinition
	MetadataID        = model.MetadataID
	StackIndex        = model.StackIndex
	MethodDescription = model.MethodDescription
	StackTrace        = model.StackTrace
	Value             = model.Value
	FieldValue        = model.FieldValue
	Payload           = model.Payload
	TypeCode          = model.TypeCode
	Opcode            = model.Opcode
)

const (
	TypeObject  = model.TypeObject
	TypeBoolean = model.TypeBoolean
	TypeSByte   = model.TypeSByte
	TypeByte    = model.TypeByte
	TypeInt16   = model.TypeInt16
	TypeUInt16  = model.TypeUInt16
	TypeInt32   = model.TypeInt32
	TypeUInt32  = model.TypeUInt32
	TypeInt64   = model.TypeInt64
	TypeUInt64  = model.TypeUInt64
	TypeSingle  = model.TypeSingle
	TypeDouble  = model.TypeDouble
	TypeGuid    = model.TypeGuid
	TypeString  = model.TypeString
	TypeArray   = model.TypeArray
)

// Unresolved returns the sentinel MethodDescription shared by every
// address that fails to resolve to a known method.
func Unresolved() MethodDescription { return model.Unresolved() }

// Decode reads a complete NetTrace/EventPipe stream from r and returns the
// assembled Trace. It performs no I/O beyond reading r: it consumes it
// directly, so callers that want partial-input resumption semantics
// should hand in an io.Reader whose Read blocks for more bytes rather than
// returning io.EOF early (e.g. a pipe); an io.Reader with the whole
// message already buffered (bytes.Reader, a fully read file) works too.
//
// ctx is checked between top-level object reads only: an in-flight decode
// of an already-available block runs to completion before cancellation is
// observed, matching the single-threaded, suspend-only-at-the-reader
// resource model this package follows.
func Decode(ctx context.Context, r io.Reader, opts ...Option) (*Trace, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	rdr := reader.New(r)

	if err := envelope.ReadFileHeader(rdr); err != nil {
		return nil, err
	}

	reg := registry.New()
	stacks := resolver.NewStackRegistry()
	methods := resolver.NewMethodTable()
	interp := payload.NewInterpreter(reg, methods)

	var (
		traceMeta   model.TraceMetadata
		events      []*model.Event
		blockRanges []model.BlockTimeRange
		eventsRead  int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tag, err := envelope.ReadTopLevelTag(rdr)
		if err != nil {
			return nil, err
		}
		if tag == envelope.TagNullReference {
			break
		}

		hdr, err := envelope.ReadObjectHeader(rdr)
		if err != nil {
			return nil, err
		}

		if hdr.TypeName == "Trace" {
			traceMeta, err = envelope.DecodeTraceHeader(rdr)
			if err != nil {
				return nil, err
			}
		} else if err := decodeBlockObject(rdr, hdr, cfg, reg, interp, stacks, traceMeta.PointerSize, &events, &blockRanges, &eventsRead); err != nil {
			return nil, err
		}

		if err := envelope.ReadEndObject(rdr); err != nil {
			return nil, err
		}

		if cfg.progress != nil {
			cfg.progress(rdr.Position(), eventsRead)
		}
	}

	finalEvents := assemble.Run(events, stacks, methods)

	return &model.Trace{
		Metadata:        traceMeta,
		EventMetadata:   reg.All(),
		Events:          finalEvents,
		Stacks:          stacks.AllStackTraces(methods),
		BlockTimeRanges: blockRanges,
	}, nil
}

// decodeBlockObject handles everything after the type record for a
// non-Trace object: the block_size prefix, alignment padding, the
// version-gated dispatch to the right block decoder (or a forward-compat
// skip), per §4.2.
func decodeBlockObject(
	rdr *reader.Reader,
	hdr envelope.ObjectHeader,
	cfg *config,
	reg *registry.Registry,
	interp *payload.Interpreter,
	stacks *resolver.StackRegistry,
	pointerSize int32,
	events *[]*model.Event,
	blockRanges *[]model.BlockTimeRange,
	eventsRead *int,
) error {
	blockSize, err := envelope.ReadBlockSizeAligned(rdr)
	if err != nil {
		return err
	}

	if hdr.MinReaderVersion > cfg.readerVersion {
		return envelope.SkipBlockBody(rdr, blockSize)
	}

	switch hdr.TypeName {
	case "StackBlock":
		return blocks.DecodeStack(rdr, blockSize, pointerSize, stacks)

	case "MetadataBlock":
		blockEvents, tr, err := blocks.DecodeEventBlock(rdr, blockSize, "MetadataBlock", reg, interp)
		if err != nil {
			return err
		}
		*events = append(*events, blockEvents...)
		*blockRanges = append(*blockRanges, tr)
		return nil

	case "EventBlock":
		blockEvents, tr, err := blocks.DecodeEventBlock(rdr, blockSize, "EventBlock", reg, interp)
		if err != nil {
			return err
		}
		*events = append(*events, blockEvents...)
		*eventsRead += len(blockEvents)
		*blockRanges = append(*blockRanges, tr)
		return nil

	case "SPBlock":
		return blocks.DecodeSP(rdr, blockSize)

	default:
		return envelope.SkipBlockBody(rdr, blockSize)
	}
}
