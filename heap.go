package tiered

import (
	"errors"
	"io"

	cockroacherrors "github.com/cockroachdb/errors"
)

// ErrMediumNotFresh is returned by NewHeap/NewOwnedHeap when the supplied
// Medium already has nonzero length. A Heap always starts its address
// space at 0 (§3: heap_length grows monotonically from an empty state);
// there is no cross-run format to recover a prior layout from (§6), so
// binding to a medium with leftover bytes would either silently discard
// them or risk the first grow truncating live data out from under the
// caller. Callers that want a scratch file should use NewTempFileMedium,
// which always starts empty.
var ErrMediumNotFresh = errors.New("tiered: medium is not empty")

// Heap binds a HeapManager to a concrete Medium and performs read/write
// (§4.2). It does not cache bytes and does not reorder I/O.
type Heap struct {
	hm     *HeapManager
	medium Medium
	owned  bool
}

// NewHeap binds blockSize-granularity allocation to medium, which the
// returned Heap does not own: Dispose will not close it.
func NewHeap(medium Medium, blockSize uint64) (*Heap, error) {
	return newHeap(medium, blockSize, false)
}

// NewOwnedHeap is like NewHeap, except the returned Heap owns medium and
// closes it on Dispose (§4.2, §5's dispose-cascade).
func NewOwnedHeap(medium Medium, blockSize uint64) (*Heap, error) {
	return newHeap(medium, blockSize, true)
}

func newHeap(medium Medium, blockSize uint64, owned bool) (*Heap, error) {
	if medium.Length() != 0 {
		return nil, ErrMediumNotFresh
	}
	h := &Heap{medium: medium, owned: owned}
	h.hm = NewHeapManager(blockSize, func(newLength uint64) error {
		return medium.SetLength(newLength)
	})
	return h, nil
}

// Allocate delegates to the HeapManager; any grow triggered along the way
// extends the medium first via the grow hook installed in newHeap.
func (h *Heap) Allocate(length uint64) (Handle, error) {
	return h.hm.Allocate(length)
}

// Free delegates to the HeapManager.
func (h *Heap) Free(handle Handle) error {
	return h.hm.Free(handle)
}

// Read positions to the handle's block and reads exactly its length,
// looping over short reads; reaching end-of-medium before completion is
// ErrUnexpectedEndOfStream.
func (h *Heap) Read(handle Handle) ([]byte, error) {
	block, err := h.hm.GetAllocatedBlock(handle)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, block.Length)
	h.medium.SetPosition(block.Offset)

	var total int
	for total < len(buf) {
		n, err := h.medium.Read(buf[total:])
		total += n
		if err != nil {
			if cockroacherrors.Is(err, io.EOF) {
				if total < len(buf) {
					return nil, newUnexpectedEOFError(handle, len(buf), total)
				}
				break
			}
			return nil, err
		}
		if n == 0 {
			return nil, newUnexpectedEOFError(handle, len(buf), total)
		}
	}
	return buf, nil
}

// Write requires len(data) == the allocated block's length, positions to
// its offset, and writes the full buffer.
func (h *Heap) Write(handle Handle, data []byte) error {
	block, err := h.hm.GetAllocatedBlock(handle)
	if err != nil {
		return err
	}
	if uint64(len(data)) != block.Length {
		return newLengthMismatchError(handle, int(block.Length), len(data))
	}
	h.medium.SetPosition(block.Offset)
	return h.medium.Write(data)
}

// Length returns the current heap_length (§3).
func (h *Heap) Length() uint64 { return h.hm.Length() }

// AllocatedBytes returns the sum of every currently allocated block's
// length.
func (h *Heap) AllocatedBytes() uint64 { return h.hm.AllocatedBytes() }

// FreeBytes returns the sum of every free block's length.
func (h *Heap) FreeBytes() uint64 { return h.hm.FreeBytes() }

// Dispose releases the medium iff this Heap owns it (§4.2, §5).
func (h *Heap) Dispose() error {
	if !h.owned {
		return nil
	}
	return h.medium.Close()
}

// Flush forces pending writes to stable storage if the medium supports
// it; it is a no-op otherwise.
func (h *Heap) Flush() error {
	if f, ok := h.medium.(Flusher); ok {
		return f.Flush()
	}
	return nil
}
