package envelope

import (
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

// ObjectHeader is the decoded type record that precedes every top-level
// object body: object_version/min_reader_version govern compatibility,
// TypeName drives the block dispatch in §4.2.
type ObjectHeader struct {
	ObjectVersion    int32
	MinReaderVersion int32
	TypeName         string
}

func readTag(r *reader.Reader) (Tag, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, wrapReadErr(r, err, "reading tag")
	}
	return Tag(b), nil
}

func expectTag(r *reader.Reader, want Tag) error {
	got, err := readTag(r)
	if err != nil {
		return err
	}
	if got != want {
		return xerrors.NewFormat(r.Position(), "unexpected tag %s, want %s", got, want)
	}
	return nil
}

// ReadTopLevelTag reads the tag that opens the main object loop: either
// BeginPrivateObject (another object follows) or NullReference (stream
// terminator, exactly one expected at the end per spec §8).
func ReadTopLevelTag(r *reader.Reader) (Tag, error) {
	tag, err := readTag(r)
	if err != nil {
		return 0, err
	}
	if tag != TagBeginPrivateObject && tag != TagNullReference {
		return 0, xerrors.NewFormat(r.Position(), "unexpected top-level tag %s", tag)
	}
	return tag, nil
}

// ReadEndObject consumes the EndObject tag that closes every top-level
// object, whether it held a Trace header or a block.
func ReadEndObject(r *reader.Reader) error {
	return expectTag(r, TagEndObject)
}

// ReadObjectHeader reads the nested type record: BeginPrivateObject,
// NullReference (the type's own type, never itself typed), object_version,
// min_reader_version, length-prefixed UTF-8 type name, EndObject.
func ReadObjectHeader(r *reader.Reader) (ObjectHeader, error) {
	if err := expectTag(r, TagBeginPrivateObject); err != nil {
		return ObjectHeader{}, err
	}
	if err := expectTag(r, TagNullReference); err != nil {
		return ObjectHeader{}, err
	}

	objVersion, err := r.ReadI32()
	if err != nil {
		return ObjectHeader{}, wrapReadErr(r, err, "reading object_version")
	}
	minReaderVersion, err := r.ReadI32()
	if err != nil {
		return ObjectHeader{}, wrapReadErr(r, err, "reading min_reader_version")
	}
	typeName, err := r.ReadASCIIString()
	if err != nil {
		return ObjectHeader{}, wrapReadErr(r, err, "reading type_name")
	}
	if err := expectTag(r, TagEndObject); err != nil {
		return ObjectHeader{}, err
	}

	return ObjectHeader{
		ObjectVersion:    objVersion,
		MinReaderVersion: minReaderVersion,
		TypeName:         typeName,
	}, nil
}

// SkipBlockBody discards block_size bytes without interpreting them, used
// both for forward-compat unknown type names and for min_reader_version >
// ReaderVersion.
func SkipBlockBody(r *reader.Reader, blockSize int32) error {
	if blockSize < 0 {
		return xerrors.NewCorrupt(r.Position(), "negative block_size %d", blockSize)
	}
	if err := r.Skip(int(blockSize)); err != nil {
		return wrapReadErr(r, err, "skipping block body")
	}
	return nil
}

// ReadBlockSizeAligned reads the 32-bit block_size prefix, then consumes
// padding so the cursor sits 4-byte-aligned from the stream start before
// the block body begins.
func ReadBlockSizeAligned(r *reader.Reader) (int32, error) {
	blockSize, err := r.ReadI32()
	if err != nil {
		return 0, wrapReadErr(r, err, "reading block_size")
	}
	if pad := int(r.Position()) % 4; pad != 0 {
		if err := r.Skip(4 - pad); err != nil {
			return 0, wrapReadErr(r, err, "reading alignment padding")
		}
	}
	return blockSize, nil
}
