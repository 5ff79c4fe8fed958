// Package payload decodes an event blob's typed field list against its
// EventMetadata's field definitions, interning repeated values through the
// registry's tables and invoking the rundown side effect for method-symbol
// records.
package payload

import (
	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/registry"
	"github.com/verdie-g/nettrace/internal/nettrace/resolver"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

// Interpreter walks field definitions and produces typed model.Value/
// model.Payload results, sharing one Registry's interning tables and one
// resolver.MethodTable across an entire decode.
type Interpreter struct {
	reg     *registry.Registry
	methods *resolver.MethodTable
}

func NewInterpreter(reg *registry.Registry, methods *resolver.MethodTable) *Interpreter {
	return &Interpreter{reg: reg, methods: methods}
}

// DecodePayload walks fields in order, producing one FieldValue per
// definition, in schema order (spec invariant: payload key set equals
// field-definition name set, same order).
func (ip *Interpreter) DecodePayload(r *reader.Reader, fields []model.FieldDefinition) (model.Payload, error) {
	out := make(model.Payload, 0, len(fields))
	for _, def := range fields {
		v, err := ip.decodeField(r, def)
		if err != nil {
			return nil, err
		}
		out = append(out, model.FieldValue{Name: def.Name, Value: v})
	}
	return out, nil
}

func (ip *Interpreter) decodeField(r *reader.Reader, def model.FieldDefinition) (model.Value, error) {
	switch def.Type {
	case model.TypeBoolean:
		// Boolean is wire-encoded as a 32-bit value; zero is false.
		u, err := r.ReadI32()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Boolean field "+def.Name)
		}
		return model.BoolValue(*ip.reg.Bools.Intern(u != 0)), nil

	case model.TypeSByte:
		b, err := r.ReadByte()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading SByte field "+def.Name)
		}
		return model.SByteValue(int8(ip.reg.SmallInts.Intern(int64(int8(b))))), nil

	case model.TypeByte:
		b, err := r.ReadByte()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Byte field "+def.Name)
		}
		return model.ByteValue(byte(ip.reg.SmallInts.Intern(int64(b)))), nil

	case model.TypeInt16:
		v, err := r.ReadI16()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Int16 field "+def.Name)
		}
		return model.Int16Value(int16(ip.reg.SmallInts.Intern(int64(v)))), nil

	case model.TypeUInt16:
		v, err := r.ReadU16()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading UInt16 field "+def.Name)
		}
		return model.UInt16Value(uint16(ip.reg.SmallInts.Intern(int64(v)))), nil

	case model.TypeInt32:
		v, err := r.ReadI32()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Int32 field "+def.Name)
		}
		return model.Int32Value(v), nil

	case model.TypeUInt32:
		v, err := r.ReadU32()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading UInt32 field "+def.Name)
		}
		return model.UInt32Value(v), nil

	case model.TypeInt64:
		v, err := r.ReadI64()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Int64 field "+def.Name)
		}
		return model.Int64Value(v), nil

	case model.TypeUInt64:
		v, err := r.ReadU64()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading UInt64 field "+def.Name)
		}
		return model.UInt64Value(v), nil

	case model.TypeSingle:
		v, err := r.ReadFloat32()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Single field "+def.Name)
		}
		return model.SingleValue(v), nil

	case model.TypeDouble:
		v, err := r.ReadFloat64()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Double field "+def.Name)
		}
		return model.DoubleValue(v), nil

	case model.TypeString:
		s, err := r.ReadUTF16String()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading String field "+def.Name)
		}
		return model.StringValue(ip.reg.Strings.Intern(s)), nil

	case model.TypeGuid:
		g, err := r.ReadGUID()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Guid field "+def.Name)
		}
		return model.GUIDValue(g), nil

	case model.TypeObject:
		sub, err := ip.DecodePayload(r, def.Fields)
		if err != nil {
			return model.Value{}, err
		}
		return model.ObjectValue(sub), nil

	case model.TypeArray:
		// Arrays are not required to decode beyond skipping (§4.8): the
		// source restricts itself to a few providers whose arrays never
		// reach a consumer. We still must not desynchronize the cursor, so
		// each element is walked and discarded rather than guessed over;
		// the returned Value carries no contents, only IsArray.
		count, err := r.ReadI32()
		if err != nil {
			return model.Value{}, wrapRead(r, err, "reading Array count for field "+def.Name)
		}
		if count < 0 {
			return model.Value{}, xerrors.NewCorrupt(r.Position(), "negative array count %d for field %q", count, def.Name)
		}
		elemDef := model.FieldDefinition{Type: def.ArrayElementType, Fields: def.Fields}
		for i := int32(0); i < count; i++ {
			if _, err := ip.decodeField(r, elemDef); err != nil {
				return model.Value{}, err
			}
		}
		return model.ArrayValue(), nil

	default:
		return model.Value{}, xerrors.NewUnsupported("field %q: unknown type code %d", def.Name, def.Type)
	}
}

func wrapRead(r *reader.Reader, err error, what string) error {
	if reader.IsPartialInput(err) {
		return xerrors.NewCorrupt(r.Position(), "%s: truncated input", what)
	}
	return xerrors.NewIO(err)
}
