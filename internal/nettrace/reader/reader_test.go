package reader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFloat32IsBigEndian(t *testing.T) {
	// 1.5 as a big-endian IEEE-754 float32.
	be := []byte{0x3F, 0xC0, 0x00, 0x00}
	r := New(bytes.NewReader(be))
	v, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v)

	// The same bytes read little-endian would decode to a different value,
	// which is the point of this test: swapping endianness must change it.
	le := New(bytes.NewReader([]byte{0x00, 0x00, 0xC0, 0x3F}))
	v2, err := le.ReadFloat32()
	require.NoError(t, err)
	assert.NotEqual(t, v, v2)
}

func TestReadFloat64IsBigEndian(t *testing.T) {
	be := []byte{0x3F, 0xF8, 0, 0, 0, 0, 0, 0} // 1.5
	r := New(bytes.NewReader(be))
	v, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
}

func TestVarInt32RoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 127, 128, 300, 1 << 20, 0xFFFFFFFF}
	for _, want := range cases {
		buf := encodeVarInt32(want)
		r := New(bytes.NewReader(buf))
		got, err := r.ReadVarInt32()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestVarInt32RejectsExcessBytes(t *testing.T) {
	// Five continuation bytes then a sixth: exceeds the 5-byte cap.
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	r := New(bytes.NewReader(buf))
	_, err := r.ReadVarInt32()
	assert.Error(t, err)
}

func TestVarInt32RejectsResidualBitsInFinalByte(t *testing.T) {
	// 5th byte must fit in the low 4 bits; 0xF0 set is corrupt.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	r := New(bytes.NewReader(buf))
	_, err := r.ReadVarInt32()
	assert.Error(t, err)
}

func TestVarInt64RejectsResidualBitsInFinalByte(t *testing.T) {
	buf := make([]byte, 10)
	for i := 0; i < 9; i++ {
		buf[i] = 0xFF
	}
	buf[9] = 0xFE // only bit 0 is valid in the 10th byte
	r := New(bytes.NewReader(buf))
	_, err := r.ReadVarInt64()
	assert.Error(t, err)
}

func TestReadUTF16StringNullTerminated(t *testing.T) {
	// "Hi" in UTF-16LE, null-terminated.
	buf := []byte{'H', 0, 'i', 0, 0, 0}
	r := New(bytes.NewReader(buf))
	s, err := r.ReadUTF16String()
	require.NoError(t, err)
	assert.Equal(t, "Hi", s)
}

func TestReadGUIDFieldSwap(t *testing.T) {
	// Data1-3 little-endian on the wire, Data4 raw bytes.
	wire := []byte{
		0x04, 0x03, 0x02, 0x01, // Data1 = 0x01020304
		0x06, 0x05, // Data2 = 0x0506
		0x08, 0x07, // Data3 = 0x0708
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
	}
	r := New(bytes.NewReader(wire))
	g, err := r.ReadGUID()
	require.NoError(t, err)
	assert.Equal(t, "01020304-0506-0708-090a-0b0c0d0e0f10", g.String())
}

func TestPositionTracksAbsoluteOffset(t *testing.T) {
	r := New(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	_, err := r.ReadI32()
	require.NoError(t, err)
	assert.EqualValues(t, 4, r.Position())
	_, err = r.ReadI16()
	require.NoError(t, err)
	assert.EqualValues(t, 6, r.Position())
}

func encodeVarInt32(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}
