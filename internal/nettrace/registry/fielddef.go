package registry

import (
	"github.com/verdie-g/nettrace/internal/nettrace/model"
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

// ReadFieldDefinitionsV1 reads a field-definition list in the V1 layout used
// inline in the metadata payload (§4.7/§4.8): a field count, then per field
// type_code, a recursive V1 list when type_code is Object, then the field
// name. V1 has no array-element type code — arrays did not exist yet.
func ReadFieldDefinitionsV1(r *reader.Reader) ([]model.FieldDefinition, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading V1 field count")
	}
	if count < 0 {
		return nil, xerrors.NewCorrupt(r.Position(), "negative V1 field count %d", count)
	}
	defs := make([]model.FieldDefinition, 0, count)
	for i := int32(0); i < count; i++ {
		def, err := readFieldV1(r)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func readFieldV1(r *reader.Reader) (model.FieldDefinition, error) {
	typeCode, err := r.ReadI32()
	if err != nil {
		return model.FieldDefinition{}, wrapRead(r, err, "reading V1 field type_code")
	}

	var nested []model.FieldDefinition
	if model.TypeCode(typeCode) == model.TypeObject {
		nested, err = ReadFieldDefinitionsV1(r)
		if err != nil {
			return model.FieldDefinition{}, err
		}
	}

	name, err := r.ReadUTF16String()
	if err != nil {
		return model.FieldDefinition{}, wrapRead(r, err, "reading V1 field name")
	}

	return model.FieldDefinition{
		Name:   name,
		Type:   model.TypeCode(typeCode),
		Fields: nested,
	}, nil
}

// ReadFieldDefinitionsV2 reads the richer layout carried in a
// ParameterPayload extension (§4.7): same shape as V1 but a type_code of
// Array additionally carries an array_type_code (and no nested list)
// before the field name.
func ReadFieldDefinitionsV2(r *reader.Reader) ([]model.FieldDefinition, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, wrapRead(r, err, "reading V2 field count")
	}
	if count < 0 {
		return nil, xerrors.NewCorrupt(r.Position(), "negative V2 field count %d", count)
	}
	defs := make([]model.FieldDefinition, 0, count)
	for i := int32(0); i < count; i++ {
		def, err := readFieldV2(r)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func readFieldV2(r *reader.Reader) (model.FieldDefinition, error) {
	typeCode, err := r.ReadI32()
	if err != nil {
		return model.FieldDefinition{}, wrapRead(r, err, "reading V2 field type_code")
	}

	def := model.FieldDefinition{Type: model.TypeCode(typeCode)}

	switch model.TypeCode(typeCode) {
	case model.TypeArray:
		elemType, err := r.ReadI32()
		if err != nil {
			return model.FieldDefinition{}, wrapRead(r, err, "reading V2 array_type_code")
		}
		def.ArrayElementType = model.TypeCode(elemType)
	case model.TypeObject:
		nested, err := ReadFieldDefinitionsV2(r)
		if err != nil {
			return model.FieldDefinition{}, err
		}
		def.Fields = nested
	}

	name, err := r.ReadUTF16String()
	if err != nil {
		return model.FieldDefinition{}, wrapRead(r, err, "reading V2 field name")
	}
	def.Name = name

	return def, nil
}

func wrapRead(r *reader.Reader, err error, what string) error {
	if reader.IsPartialInput(err) {
		return xerrors.NewCorrupt(r.Position(), "%s: truncated input", what)
	}
	return xerrors.NewIO(err)
}
