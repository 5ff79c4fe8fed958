package nettrace

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wrapStream builds a complete NetTrace byte stream from a base64-encoded
// object-sequence body: the literal file header, the body, and the single
// top-level NullReference terminator, per spec.md §8 scenario 1's note.
func wrapStream(t *testing.T, bodyB64 string) []byte {
	t.Helper()
	body, err := base64.StdEncoding.DecodeString(bodyB64)
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.WriteString("Nettrace")
	sig := "!FastSerialization.1"
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(sig)))
	buf.Write(lenBuf[:])
	buf.WriteString(sig)
	buf.Write(body)
	buf.WriteByte(0x01) // NullReference terminator

	return buf.Bytes()
}

func TestDecodeTraceHeader(t *testing.T) {
	stream := wrapStream(t, "BQUBBAAAAAQAAAAFAAAAVHJhY2UG5wcMAAIAGgARAC8ACgBuAk8T5s1YAwAAgJaYAAAAAAAIAAAAxAoAAAwAAABAQg8ABg==")

	tr, err := Decode(context.Background(), bytes.NewReader(stream))
	require.NoError(t, err)

	want := time.Date(2023, time.December, 26, 17, 47, 10, 622*int(time.Millisecond), time.UTC)
	assert.True(t, tr.Metadata.StartTime.Equal(want), "got %s, want %s", tr.Metadata.StartTime, want)
	assert.EqualValues(t, 3_679_946_412_879, tr.Metadata.QPCSyncTime)
	assert.EqualValues(t, 10_000_000, tr.Metadata.QPCFrequency)
	assert.EqualValues(t, 8, tr.Metadata.PointerSize)
	assert.EqualValues(t, 2756, tr.Metadata.ProcessID)
	assert.EqualValues(t, 12, tr.Metadata.NumberOfProcessors)
	assert.EqualValues(t, 1_000_000, tr.Metadata.CPUSamplingRate)
}

func TestDecodeMetadataAndTwoEvents(t *testing.T) {
	stream := wrapStream(t, "BQUBAgAAAAIAAAANAAAATWV0YWRhdGFCbG9jawZqAQAAAAAAFAABACtLjC4YzQUAK0uMLhjNBQDG/////w8A/////w+OFKuWsfSCo/MCvgIBAAAAUwB5AHMAdABlAG0ALgBUAGgAcgBlAGEAZABpAG4AZwAuAFQAYQBzAGsAcwAuAFQAcABsAEUAdgBlAG4AdABTAG8AdQByAGMAZQAAAAoAAABUAGEAcwBrAFcAYQBpAHQAQgBlAGcAaQBuAAAAAwAAAADwAAADAAAABAAAAAUAAAAJAAAATwByAGkAZwBpAG4AYQB0AGkAbgBnAFQAYQBzAGsAUwBjAGgAZQBkAHUAbABlAHIASQBEAAAACQAAAE8AcgBpAGcAaQBuAGEAdABpAG4AZwBUAGEAcwBrAEkARAAAAAkAAABUAGEAcwBrAEkARAAAAAkAAABCAGUAaABhAHYAaQBvAHIAAAAJAAAAQwBvAG4AdABpAG4AdQBlAFcAaQB0AGgAVABhAHMAawBJAEQAAAABAAAAAQkGBQUBAgAAAAIAAAAKAAAARXZlbnRCbG9jawZXAAAAAAAAFAABACtLjC4YzQUAboSOLhjNBQDPAQCCFP////8PghQBq5ax9IKj8wIUAQAAAAAAAAAEAAAAAgAAAAUAAAAIAsPyCAEAAAAAAAAABQAAAAIAAAADAAAABg==")

	tr, err := Decode(context.Background(), bytes.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, tr.Events, 2)

	for _, ev := range tr.Events {
		require.NotNil(t, ev.Metadata)
		assert.Equal(t, "TaskWaitBegin", ev.Metadata.EventName)
		assert.Equal(t, "System.Threading.Tasks.TplEventSource", ev.Metadata.ProviderName)
		assert.EqualValues(t, 10, ev.Metadata.EventID)
		assert.EqualValues(t, 3, ev.Metadata.Version)
		assert.Len(t, ev.Metadata.Fields, 5)
	}

	e0, e1 := tr.Events[0], tr.Events[1]
	assertInt32Field(t, e0.Payload, "OriginatingTaskSchedulerID", 1)
	assertInt32Field(t, e0.Payload, "OriginatingTaskID", 0)
	assertInt32Field(t, e0.Payload, "TaskID", 4)
	assertInt32Field(t, e0.Payload, "Behavior", 2)
	assertInt32Field(t, e0.Payload, "ContinueWithTaskID", 5)

	assertInt32Field(t, e1.Payload, "TaskID", 5)
	assertInt32Field(t, e1.Payload, "ContinueWithTaskID", 3)

	// These equal the EventBlock's own min_timestamp/max_timestamp header
	// fields (plain int64s read straight off the wire, no delta decoding
	// involved) — the block declares exactly this range for its two events.
	assert.EqualValues(t, 1_632_878_627_408_683, e0.Timestamp)
	assert.EqualValues(t, 1_632_878_627_554_414, e1.Timestamp)
}

func TestDecodeStackBlockAndRundownSymbols(t *testing.T) {
	stream := wrapStream(t, "BQUBAgAAAAIAAAAKAAAAU3RhY2tCbG9jawYoAAAAAAABAAAAAgAAAAgAAADSBAAAAAAAABAAAADSBAAAAAAAAC4WAAAAAAAABgUFAQIAAAACAAAADQAAAE1ldGFkYXRhQmxvY2sGAwEAAAAAFAABAHF0hlwIAAAAcXSGXAgAAADG/////w8A/////w+wmwH56JnkBWwBAAAATQBpAGMAcgBvAHMAbwBmAHQALQBXAGkAbgBkAG8AdwBzAC0ARABvAHQATgBFAFQAUgB1AG4AdABpAG0AZQBSAHUAbgBkAG8AdwBuAAAAkAAAAAAAMAAAAAAAAAACAAAABAAAAAAAAABAAQIAAABNAGkAYwByAG8AcwBvAGYAdAAtAFcAaQBuAGQAbwB3AHMALQBEAG8AdABOAEUAVABSAHUAbgB0AGkAbQBlAFIAdQBuAGQAbwB3AG4AAACQAAAAAAAwAAAAAAAAAAEAAAAEAAAAAAAAAAYFBQECAAAAAgAAAAoAAABFdmVudEJsb2NrBnQBAAAAABQAAQAa4RpiCAAAAHanGmIIAAAAhwEAjDD/////D4ww/d/qkAamAcB3XIz7fwAAWNwqjPt/AADSBAAAAAAAAD0EAACOAwAGCAIAAE0AeQBOAGEAbQBlAHMAcABhAGMAZQAAAE0AeQBNAGUAdABoAG8AZAAAAGkAbgBzAHQAYQBuAGMAZQAgAGMAbABhAHMAcwAgAE0AeQBOAGEAbQBlAHMAcABhAGMAZQAuAE0AeQBNAGUAdABoAG8AZAAgACgAKQAAAAgAAgAAAAAAAACBAgGiAdicGIz7fwAAAEAEjPt/AAAuFgAAAAAAAF0AAAAKZAAGCAIAAE0AeQBOAGEAbQBlAHMAcABhAGMAZQAAAE0AeQBNAGUAdABoAG8AZAAyAAAAaQBuAHMAdABhAG4AYwBlACAAYwBsAGEAcwBzACAATQB5AE4AYQBtAGUAcwBwAGEAYwBlAC4ATQB5AE0AZQB0AGgAbwBkADIAIAAoACkAAAAAAAY=")

	tr, err := Decode(context.Background(), bytes.NewReader(stream))
	require.NoError(t, err)
	require.Len(t, tr.Stacks, 2)

	byLen := map[int][]*StackTrace{}
	for _, s := range tr.Stacks {
		byLen[len(s.Frames)] = append(byLen[len(s.Frames)], s)
	}
	require.Len(t, byLen[1], 1)
	require.Len(t, byLen[2], 1)

	one := byLen[1][0]
	assert.Equal(t, "MyNamespace", one.Frames[0].Namespace)
	assert.Equal(t, "MyMethod", one.Frames[0].Name)
	assert.EqualValues(t, 1234, one.Frames[0].StartAddress)
	assert.EqualValues(t, 1085, one.Frames[0].Size)

	two := byLen[2][0]
	assert.Equal(t, one.Frames[0], two.Frames[0])
	assert.Equal(t, "MyMethod2", two.Frames[1].Name)
	assert.EqualValues(t, 5678, two.Frames[1].StartAddress)
	assert.EqualValues(t, 93, two.Frames[1].Size)
}

func assertInt32Field(t *testing.T, p Payload, name string, want int32) {
	t.Helper()
	for _, fv := range p {
		if fv.Name == name {
			assert.Equal(t, want, fv.Value.I32)
			return
		}
	}
	t.Fatalf("field %q not found in payload", name)
}
