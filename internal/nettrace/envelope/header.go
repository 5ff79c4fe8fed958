package envelope

import (
	"bytes"

	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

var fileMagic = []byte("Nettrace")

const serializerSignature = "!FastSerialization.1"

// ReadFileHeader consumes the literal "Nettrace" magic and the
// length-prefixed serializer signature. Grounded on the teacher's
// header-mismatch handling in parser/header.go: a fixed magic compared
// byte-for-byte, fmt.Errorf-wrapped into the taxonomy's fatal kind.
func ReadFileHeader(r *reader.Reader) error {
	magic, err := r.ReadBytes(len(fileMagic))
	if err != nil {
		return wrapReadErr(r, err, "reading file magic")
	}
	if !bytes.Equal(magic, fileMagic) {
		return xerrors.NewFormat(r.Position(), "bad file magic %q, want %q", magic, fileMagic)
	}

	sig, err := r.ReadASCIIString()
	if err != nil {
		return wrapReadErr(r, err, "reading serializer signature")
	}
	if sig != serializerSignature {
		return xerrors.NewFormat(r.Position(), "unsupported serializer signature %q, want %q", sig, serializerSignature)
	}
	return nil
}

func wrapReadErr(r *reader.Reader, err error, what string) error {
	if reader.IsPartialInput(err) {
		return xerrors.NewCorrupt(r.Position(), "%s: truncated input", what)
	}
	return xerrors.NewIO(err)
}
