// Package blocks decodes the four block kinds carried by the envelope:
// StackBlock, the shared MetadataBlock/EventBlock layout, and SPBlock.
// Each decoder receives exactly blockSize bytes of budget and is
// responsible for proving it consumed exactly that many.
package blocks

import (
	"github.com/verdie-g/nettrace/internal/nettrace/reader"
	"github.com/verdie-g/nettrace/internal/nettrace/resolver"
	"github.com/verdie-g/nettrace/internal/nettrace/xerrors"
)

// DecodeStack decodes a StackBlock body (§4.4): first_id, count, then count
// entries of (stack_size, stack_size/pointerSize addresses). Addresses are
// recorded into stacks for resolution after the stream is fully consumed.
func DecodeStack(r *reader.Reader, blockSize int32, pointerSize int32, stacks *resolver.StackRegistry) error {
	bodyStart := r.Position()
	bodyEnd := bodyStart + int64(blockSize)

	if pointerSize <= 0 {
		// No Trace object has been read yet (a StackBlock can precede it in
		// the stream); addresses are always stored as 8 bytes on the wire
		// regardless of the process's actual pointer width.
		pointerSize = 8
	}

	firstID, err := r.ReadI32()
	if err != nil {
		return wrapRead(r, err, "reading stack block first_id")
	}
	count, err := r.ReadI32()
	if err != nil {
		return wrapRead(r, err, "reading stack block count")
	}
	if count < 0 {
		return xerrors.NewCorrupt(r.Position(), "negative stack block count %d", count)
	}

	for i := int32(0); i < count; i++ {
		stackSize, err := r.ReadI32()
		if err != nil {
			return wrapRead(r, err, "reading stack entry size")
		}
		if stackSize < 0 || stackSize%pointerSize != 0 {
			return xerrors.NewCorrupt(r.Position(), "stack entry size %d not a multiple of pointer_size %d", stackSize, pointerSize)
		}
		n := int(stackSize / pointerSize)
		addrs := make([]uint64, n)
		for j := 0; j < n; j++ {
			addr, err := r.ReadU64()
			if err != nil {
				return wrapRead(r, err, "reading stack address")
			}
			addrs[j] = addr
		}
		stacks.Add(firstID+i, addrs)
	}

	if r.Position() != bodyEnd {
		return xerrors.NewCorrupt(r.Position(), "stack block ended at %d, expected %d", r.Position(), bodyEnd)
	}
	return nil
}

func wrapRead(r *reader.Reader, err error, what string) error {
	if reader.IsPartialInput(err) {
		return xerrors.NewCorrupt(r.Position(), "%s: truncated input", what)
	}
	return xerrors.NewIO(err)
}
