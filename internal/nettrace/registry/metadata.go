// Package registry owns the per-trace metadata table (metadata id ->
// EventMetadata), the static (provider, event_id, version) override table,
// and the payload-value interning tables. Grounded on the teacher's
// internal/heap/registry package: a generic, mutex-free (single-threaded
// decode) table keyed by an integer id, populated incrementally as blocks
// are decoded.
package registry

import (
	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

const (
	extOpCode           = 1
	extParameterPayload = 2
)

// Registry is the live metadata table plus interning state for one decode.
type Registry struct {
	byID      map[model.MetadataID]*model.EventMetadata
	Strings   *StringTable
	Bools     *BoolTable
	SmallInts *SmallIntTable
}

func New() *Registry {
	return &Registry{
		byID:      make(map[model.MetadataID]*model.EventMetadata),
		Strings:   NewStringTable(),
		Bools:     NewBoolTable(),
		SmallInts: NewSmallIntTable(),
	}
}

// Lookup returns the registered EventMetadata for id, if any.
func (reg *Registry) Lookup(id model.MetadataID) (*model.EventMetadata, bool) {
	m, ok := reg.byID[id]
	return m, ok
}

// All returns the full metadata table, for Trace.EventMetadata. The
// registry does no further mutation after a decode completes, so handing
// out the live map is safe.
func (reg *Registry) All() map[model.MetadataID]*model.EventMetadata {
	return reg.byID
}

// DecodeMetadataPayload decodes one metadata-defining blob body (§4.7):
// the fixed header fields, a V1 field-definition list, then zero or more
// tagged extensions (OpCode, ParameterPayload) read until payloadEnd — the
// absolute stream position where the enclosing blob's payload ends, handed
// down by the codec so this function never needs to guess where the
// extension loop stops.
func (reg *Registry) DecodeMetadataPayload(r *reader.Reader, payloadEnd int64) (*model.EventMetadata, error) {
	metadataID, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading metadata_id")
	}
	providerName, err := r.ReadUTF16String()
	if err != nil {
		return nil, wrapRead(r, err, "reading provider_name")
	}
	providerName = reg.Strings.Intern(providerName)

	eventID, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading event_id")
	}
	eventName, err := r.ReadUTF16String()
	if err != nil {
		return nil, wrapRead(r, err, "reading event_name")
	}
	eventName = reg.Strings.Intern(eventName)

	keywords, err := r.ReadI64()
	if err != nil {
		return nil, wrapRead(r, err, "reading keywords")
	}
	version, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading version")
	}
	level, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading level")
	}

	fields, err := ReadFieldDefinitionsV1(r)
	if err != nil {
		return nil, err
	}

	var opcode model.Opcode
	var hasOpcode bool

	for r.Position() < payloadEnd {
		extStart := r.Position()
		tagPayloadBytes, err := r.ReadI32()
		if err != nil {
			return nil, wrapRead(r, err, "reading extension tag_payload_bytes")
		}
		if tagPayloadBytes < 0 {
			return nil, xerrors.NewCorrupt(r.Position(), "negative extension tag_payload_bytes %d", tagPayloadBytes)
		}
		tag, err := r.ReadByte()
		if err != nil {
			return nil, wrapRead(r, err, "reading extension tag")
		}

		payloadStart := r.Position()
		switch tag {
		case extOpCode:
			b, err := r.ReadByte()
			if err != nil {
				return nil, wrapRead(r, err, "reading OpCode extension")
			}
			opcode = model.Opcode(b)
			hasOpcode = true
		case extParameterPayload:
			v2Fields, err := ReadFieldDefinitionsV2(r)
			if err != nil {
				return nil, err
			}
			fields = v2Fields
		default:
			if err := r.Skip(int(tagPayloadBytes)); err != nil {
				return nil, wrapRead(r, err, "skipping unknown extension tag")
			}
		}

		consumed := r.Position() - payloadStart
		if consumed != int64(tagPayloadBytes) {
			return nil, xerrors.NewCorrupt(r.Position(),
				"extension at %d declared %d payload bytes but consumed %d", extStart, tagPayloadBytes, consumed)
		}
	}

	if r.Position() != payloadEnd {
		return nil, xerrors.NewCorrupt(r.Position(), "metadata payload ended at %d, expected %d", r.Position(), payloadEnd)
	}

	if o, ok := lookupOverride(providerName, eventID, version); ok {
		eventName = reg.Strings.Intern(o.EventName)
		fields = o.Fields
	}

	em := &model.EventMetadata{
		ID:           model.MetadataID(metadataID),
		ProviderName: providerName,
		EventID:      eventID,
		EventName:    eventName,
		Keywords:     keywords,
		Version:      version,
		Level:        level,
		Opcode:       opcode,
		HasOpcode:    hasOpcode,
		Fields:       fields,
	}
	reg.byID[em.ID] = em
	return em, nil
}
