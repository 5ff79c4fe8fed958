package model

// FieldDefinition describes one field of an event's payload schema: its name,
// primitive type, and (only when relevant) its array-element type or nested
// Object sub-fields.
type FieldDefinition struct {
	Name string
	Type TypeCode

	// ArrayElementType is set only when Type == TypeArray.
	ArrayElementType TypeCode

	// Fields holds the nested schema only when Type == TypeObject.
	Fields []FieldDefinition
}

// MetadataID is the per-trace-unique id a producer assigns to an EventMetadata.
// Zero is reserved: it marks a metadata-defining blob rather than an event.
type MetadataID int32

// EventMetadata is the schema for one kind of event: provider, numeric id,
// name, keyword bitset, version, level, optional opcode, and its ordered
// field definitions. Registered once per trace, referenced by every Event
// sharing that schema.
type EventMetadata struct {
	ID           MetadataID
	ProviderName string
	EventID      int32
	EventName    string
	Keywords     int64
	Version      int32
	Level        int32
	Opcode       Opcode
	HasOpcode    bool
	Fields       []FieldDefinition
}

// OverrideKey identifies an entry in the static metadata-override table:
// known-incomplete in-trace schemas are keyed by (provider, event id, version).
type OverrideKey struct {
	ProviderName string
	EventID      int32
	Version      int32
}
