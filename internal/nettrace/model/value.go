package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Value is a tagged sum over a decoded field's wire value. One variant field
// is populated according to Type; the rest are zero. Modeling it this way
// (rather than a bare interface{}/any) keeps the payload interpreter
// table-driven and lets tests assert on the exact variant instead of doing
// type-switches everywhere a payload is consumed.
type Value struct {
	Type TypeCode

	Bool    bool
	I8      int8
	U8      uint8
	I16     int16
	U16     uint16
	I32     int32
	U32     uint32
	I64     int64
	U64     uint64
	F32     float32
	F64     float64
	Str     string
	GUID    uuid.UUID
	Object  []FieldValue // populated when Type == TypeObject
	IsArray bool         // set when the field definition denoted an Array; Array contents are not decoded
}

// FieldValue pairs a field's declared name with its decoded Value, preserving
// the schema's field order in the enclosing Payload.
type FieldValue struct {
	Name  string
	Value Value
}

func BoolValue(b bool) Value    { return Value{Type: TypeBoolean, Bool: b} }
func SByteValue(v int8) Value   { return Value{Type: TypeSByte, I8: v} }
func ByteValue(v uint8) Value   { return Value{Type: TypeByte, U8: v} }
func Int16Value(v int16) Value  { return Value{Type: TypeInt16, I16: v} }
func UInt16Value(v uint16) Value { return Value{Type: TypeUInt16, U16: v} }
func Int32Value(v int32) Value  { return Value{Type: TypeInt32, I32: v} }
func UInt32Value(v uint32) Value { return Value{Type: TypeUInt32, U32: v} }
func Int64Value(v int64) Value  { return Value{Type: TypeInt64, I64: v} }
func UInt64Value(v uint64) Value { return Value{Type: TypeUInt64, U64: v} }
func SingleValue(v float32) Value { return Value{Type: TypeSingle, F32: v} }
func DoubleValue(v float64) Value { return Value{Type: TypeDouble, F64: v} }
func StringValue(v string) Value  { return Value{Type: TypeString, Str: v} }
func GUIDValue(v uuid.UUID) Value { return Value{Type: TypeGuid, GUID: v} }
func ObjectValue(fields []FieldValue) Value {
	return Value{Type: TypeObject, Object: fields}
}
func ArrayValue() Value { return Value{Type: TypeArray, IsArray: true} }

// String renders the value the way a human would expect to see it printed,
// regardless of variant.
func (v Value) String() string {
	switch v.Type {
	case TypeBoolean:
		return fmt.Sprintf("%t", v.Bool)
	case TypeSByte:
		return fmt.Sprintf("%d", v.I8)
	case TypeByte:
		return fmt.Sprintf("%d", v.U8)
	case TypeInt16:
		return fmt.Sprintf("%d", v.I16)
	case TypeUInt16:
		return fmt.Sprintf("%d", v.U16)
	case TypeInt32:
		return fmt.Sprintf("%d", v.I32)
	case TypeUInt32:
		return fmt.Sprintf("%d", v.U32)
	case TypeInt64:
		return fmt.Sprintf("%d", v.I64)
	case TypeUInt64:
		return fmt.Sprintf("%d", v.U64)
	case TypeSingle:
		return fmt.Sprintf("%g", v.F32)
	case TypeDouble:
		return fmt.Sprintf("%g", v.F64)
	case TypeString:
		return v.Str
	case TypeGuid:
		return v.GUID.String()
	case TypeObject:
		return fmt.Sprintf("{%d fields}", len(v.Object))
	case TypeArray:
		return "[]"
	default:
		return fmt.Sprintf("<unknown %s>", v.Type)
	}
}

// Payload is the ordered field-name -> value mapping for one decoded event,
// in field-definition order (spec invariant: its key set and order equal the
// owning EventMetadata's field-definition name set and order).
type Payload []FieldValue

// Get returns the value for name, or false if the payload has no such field.
func (p Payload) Get(name string) (Value, bool) {
	for _, fv := range p {
		if fv.Name == name {
			return fv.Value, true
		}
	}
	return Value{}, false
}
