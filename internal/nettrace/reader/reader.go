// Package reader implements the primitive little-endian cursor the rest of
// the decoder reads through: fixed-width integers, the format's one
// big-endian quirk (floats), GUIDs, null-terminated UTF-16 strings,
// length-prefixed blobs, and the two VarInt codings.
package reader

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf16"

	"github.com/google/uuid"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

// Reader is a cursor over a byte-oriented source. It tracks the absolute
// byte offset from the start of the stream, which callers use for block
// padding/bounds checks (absolute_position in spec terms).
//
// pos advances by however many bytes the underlying io.Reader actually
// delivered, even on a partial-input error, so a short read still leaves
// Position() accurate for the bytes that were consumed; there is no
// non-advancing "try" variant to re-await more input mid-field.
type Reader struct {
	r   io.Reader
	pos int64
}

// New wraps r. This decoder reads a field only after the enclosing block's
// full byte budget is known, so r is expected to behave as "all bytes
// already available" (a bytes.Reader or os.File); a source that can return
// io.EOF before the declared block size is exhausted will surface as a
// truncated-input error rather than being resumed.
func New(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Position returns the absolute offset of the cursor within the stream.
func (r *Reader) Position() int64 { return r.pos }

// IsPartialInput distinguishes a genuine I/O failure from "not enough bytes
// were available" (io.EOF / io.ErrUnexpectedEOF). The decode stages report
// partial input as a truncated-input CorruptedTrace; they do not wait for
// more input.
func IsPartialInput(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func (r *Reader) readFull(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.pos += int64(n)
	return err
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Reader) ReadByte() (byte, error) {
	var buf [1]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *Reader) ReadI16() (int16, error) {
	var buf [2]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

func (r *Reader) ReadU16() (uint16, error) {
	var buf [2]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func (r *Reader) ReadI32() (int32, error) {
	var buf [4]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (r *Reader) ReadI64() (int64, error) {
	var buf [8]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	var buf [8]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadFloat32 and ReadFloat64 are the format's one documented endianness
// quirk: floating point fields are big-endian while every integer is
// little-endian.
func (r *Reader) ReadFloat32() (float32, error) {
	var buf [4]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf[:])), nil
}

func (r *Reader) ReadFloat64() (float64, error) {
	var buf [8]byte
	if err := r.readFull(buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

// ReadGUID reads a 16-byte GUID using the same mixed-endian field layout as
// a standard Windows GUID / uuid.UUID with its Data1-3 fields swapped.
func (r *Reader) ReadGUID() (uuid.UUID, error) {
	buf, err := r.ReadBytes(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var out uuid.UUID
	// Guid's first three fields are little-endian on the wire; UUID's
	// textual/byte form expects them big-endian, so swap into place.
	out[0], out[1], out[2], out[3] = buf[3], buf[2], buf[1], buf[0]
	out[4], out[5] = buf[5], buf[4]
	out[6], out[7] = buf[7], buf[6]
	copy(out[8:], buf[8:])
	return out, nil
}

// ReadUTF16String reads a null-terminated, little-endian UTF-16 string.
func (r *Reader) ReadUTF16String() (string, error) {
	var units []uint16
	for {
		u, err := r.ReadU16()
		if err != nil {
			return "", err
		}
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// ReadBlob reads a 32-bit length prefix followed by that many raw bytes.
func (r *Reader) ReadBlob() ([]byte, error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, xerrors.NewCorrupt(r.pos, "negative blob length %d", n)
	}
	return r.ReadBytes(int(n))
}

// ReadASCIIString reads a 32-bit length prefix followed by that many ASCII
// bytes (used for the FastSerializer type name and serializer signature).
func (r *Reader) ReadASCIIString() (string, error) {
	b, err := r.ReadBlob()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const (
	maxVarInt32Bytes = 5
	maxVarInt64Bytes = 10
)

// ReadVarInt32 decodes a 7-bit-continuation varint into an unsigned 32-bit
// value (the caller reinterprets as signed where the schema calls for it).
// Per spec, at most 5 bytes may be consumed; a 5th byte with residual bits
// outside the low 4 is corrupt.
func (r *Reader) ReadVarInt32() (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < maxVarInt32Bytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		last := i == maxVarInt32Bytes-1
		if last {
			// Only 4 bits of payload remain in the 5th byte (32 - 7*4 = 4).
			if b&0xF0 != 0 {
				return 0, xerrors.NewCorrupt(r.pos, "varint32 exceeds 5 bytes with non-zero residual bits")
			}
			result |= uint32(b) << shift
			return result, nil
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, xerrors.NewCorrupt(r.pos, "varint32 exceeds 5 bytes")
}

// ReadVarInt64 is ReadVarInt32's 64-bit counterpart: at most 10 bytes, with
// the 10th byte limited to 1 residual bit (64 - 7*9 = 1).
func (r *Reader) ReadVarInt64() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxVarInt64Bytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		last := i == maxVarInt64Bytes-1
		if last {
			if b&0xFE != 0 {
				return 0, xerrors.NewCorrupt(r.pos, "varint64 exceeds 10 bytes with non-zero residual bits")
			}
			result |= uint64(b) << shift
			return result, nil
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, xerrors.NewCorrupt(r.pos, "varint64 exceeds 10 bytes")
}

// ReadVarIntS32 decodes a VarInt32 and reinterprets it as signed (used where
// the schema calls for a signed delta rather than an id/count).
func (r *Reader) ReadVarIntS32() (int32, error) {
	u, err := r.ReadVarInt32()
	return int32(u), err
}

// ReadVarIntS64 is the signed counterpart of ReadVarInt64.
func (r *Reader) ReadVarIntS64() (int64, error) {
	u, err := r.ReadVarInt64()
	return int64(u), err
}

// Skip discards n bytes without returning them.
func (r *Reader) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	written, err := io.CopyN(io.Discard, r.r, int64(n))
	r.pos += written
	return err
}
