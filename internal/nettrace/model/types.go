// Package model holds the plain data types produced by the nettrace decoder:
// trace metadata, event schemas, decoded events, resolved stacks, and the
// assembled Trace itself. Nothing in this package performs I/O.
package model

import "fmt"

// TypeCode identifies the primitive wire representation of a field. The set
// is closed; a field with an unrecognized value fails payload decoding with
// UnsupportedField rather than being treated as an extension point.
//
// Values follow the System.TypeCode numbering used on the wire, with Guid
// occupying TypeCode's unused slot 17 (between DateTime and String) so it
// does not collide with the base enumeration, and Array assigned 19 as a
// format-specific extension past String.
type TypeCode int32

const (
	TypeObject  TypeCode = 1
	TypeBoolean TypeCode = 3
	TypeSByte   TypeCode = 5
	TypeByte    TypeCode = 6
	TypeInt16   TypeCode = 7
	TypeUInt16  TypeCode = 8
	TypeInt32   TypeCode = 9
	TypeUInt32  TypeCode = 10
	TypeInt64   TypeCode = 11
	TypeUInt64  TypeCode = 12
	TypeSingle  TypeCode = 13
	TypeDouble  TypeCode = 14
	TypeGuid    TypeCode = 17
	TypeString  TypeCode = 18
	TypeArray   TypeCode = 19
)

func (t TypeCode) String() string {
	switch t {
	case TypeObject:
		return "Object"
	case TypeBoolean:
		return "Boolean"
	case TypeSByte:
		return "SByte"
	case TypeByte:
		return "Byte"
	case TypeInt16:
		return "Int16"
	case TypeUInt16:
		return "UInt16"
	case TypeInt32:
		return "Int32"
	case TypeUInt32:
		return "UInt32"
	case TypeInt64:
		return "Int64"
	case TypeUInt64:
		return "UInt64"
	case TypeSingle:
		return "Single"
	case TypeDouble:
		return "Double"
	case TypeGuid:
		return "Guid"
	case TypeString:
		return "String"
	case TypeArray:
		return "Array"
	default:
		return fmt.Sprintf("TypeCode(%d)", int32(t))
	}
}

// IsFixedPrimitive reports whether t decodes as a fixed-width scalar (i.e.
// not String, Object or Array, which need their own decode paths).
func (t TypeCode) IsFixedPrimitive() bool {
	switch t {
	case TypeBoolean, TypeSByte, TypeByte, TypeInt16, TypeUInt16,
		TypeInt32, TypeUInt32, TypeInt64, TypeUInt64, TypeSingle, TypeDouble, TypeGuid:
		return true
	default:
		return false
	}
}

// Opcode is the event's (optional) opcode tag, e.g. Start/Stop/Send.
type Opcode byte

const (
	OpcodeInfo Opcode = iota
	OpcodeStart
	OpcodeStop
	OpcodeDCStart
	OpcodeDCStop
	OpcodeExtension
	OpcodeReply
	OpcodeResume
	OpcodeSuspend
	OpcodeSend
	_ // 10 is reserved in the wire format
	OpcodeReceive Opcode = 11
)

func (o Opcode) String() string {
	switch o {
	case OpcodeInfo:
		return "Info"
	case OpcodeStart:
		return "Start"
	case OpcodeStop:
		return "Stop"
	case OpcodeDCStart:
		return "DataCollectionStart"
	case OpcodeDCStop:
		return "DataCollectionStop"
	case OpcodeExtension:
		return "Extension"
	case OpcodeReply:
		return "Reply"
	case OpcodeResume:
		return "Resume"
	case OpcodeSuspend:
		return "Suspend"
	case OpcodeSend:
		return "Send"
	case OpcodeReceive:
		return "Receive"
	default:
		return fmt.Sprintf("Opcode(%d)", byte(o))
	}
}
