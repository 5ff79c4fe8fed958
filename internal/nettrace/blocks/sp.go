package blocks

import (
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

// DecodeSP decodes an SPBlock body (§4.9): a timestamp, a thread count,
// then that many (thread_id, sequence_number) pairs. Consumed for format
// correctness only — sequence points don't feed the assembled Trace.
func DecodeSP(r *reader.Reader, blockSize int32) error {
	bodyStart := r.Position()
	bodyEnd := bodyStart + int64(blockSize)

	if _, err := r.ReadI64(); err != nil { // timestamp
		return wrapRead(r, err, "reading SPBlock timestamp")
	}
	threadCount, err := r.ReadI32()
	if err != nil {
		return wrapRead(r, err, "reading SPBlock thread_count")
	}
	if threadCount < 0 {
		return xerrors.NewCorrupt(r.Position(), "negative SPBlock thread_count %d", threadCount)
	}

	for i := int32(0); i < threadCount; i++ {
		if _, err := r.ReadI64(); err != nil { // thread_id
			return wrapRead(r, err, "reading SPBlock thread_id")
		}
		if _, err := r.ReadI32(); err != nil { // sequence_number
			return wrapRead(r, err, "reading SPBlock sequence_number")
		}
	}

	if r.Position() != bodyEnd {
		return xerrors.NewCorrupt(r.Position(), "SPBlock ended at %d, expected %d", r.Position(), bodyEnd)
	}
	return nil
}
