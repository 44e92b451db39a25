package tiered

import (
	"github.com/dolthub/swiss"
)

// minGrowBlockSize is the floor for HeapManager.blockSize; with a zero
// block size roundUp would not round at all, and a zero-length allocation
// would grow the heap by zero bytes.
const minGrowBlockSize = 1

// growHook lets a HeapManager's owner (the Heap) extend the backing
// medium before a newly grown free block becomes usable (§4.2: "the Heap
// must first extend the underlying medium so medium.length == heap_length
// before the block becomes usable"). It is called with the heap's new
// total length immediately before the grow is committed; if it returns an
// error the grow — and the allocation that triggered it — is aborted with
// nothing changed. Grounded on the FastAllocator.onGrow test hook in
// hivekit's hive/alloc/fastalloc.go, generalized from a test-only callback
// into the production seam between HeapManager and Heap.
type growHook func(newLength uint64) error

// HeapManager maintains the free list and allocated index over an
// abstract linear address space [0, heap_length). It performs no I/O; a
// Heap binds it to a concrete Medium.
type HeapManager struct {
	blockSize  uint64
	nextHandle uint64
	length     uint64

	allocated *swiss.Map[Handle, Block]

	// free is an unordered free set; freeByStart/freeByEnd index it by
	// offset and end-offset respectively so Free can coalesce in O(1)
	// instead of scanning, following the offset/end-offset index pair
	// hivekit's FastAllocator keeps (startIdx/endIdx) for the same reason.
	free        []Block
	freeByStart map[uint64]int
	freeByEnd   map[uint64]int

	onGrow growHook
}

// NewHeapManager creates a HeapManager with the given grow granularity.
// onGrow may be nil (the manager then grows freely with no medium to
// keep in sync, useful for tests that exercise the allocator in
// isolation).
func NewHeapManager(blockSize uint64, onGrow growHook) *HeapManager {
	if blockSize < minGrowBlockSize {
		blockSize = minGrowBlockSize
	}
	return &HeapManager{
		blockSize:   blockSize,
		nextHandle:  1,
		allocated:   swiss.NewMap[Handle, Block](16),
		freeByStart: make(map[uint64]int),
		freeByEnd:   make(map[uint64]int),
		onGrow:      onGrow,
	}
}

// Length returns the current heap_length.
func (hm *HeapManager) Length() uint64 { return hm.length }

// AllocatedBytes returns the sum of every currently allocated block's
// length.
func (hm *HeapManager) AllocatedBytes() uint64 {
	var total uint64
	hm.allocated.Iter(func(_ Handle, b Block) (stop bool) {
		total += b.Length
		return false
	})
	return total
}

// FreeBytes returns the sum of every block in the free set.
func (hm *HeapManager) FreeBytes() uint64 {
	var total uint64
	for _, b := range hm.free {
		total += b.Length
	}
	return total
}

// Allocate returns a handle to a newly allocated block of exactly length
// bytes, per §4.1's best-fit/split/grow policy.
func (hm *HeapManager) Allocate(length uint64) (Handle, error) {
	idx := hm.bestFitIndex(length)
	if idx == -1 {
		if _, err := hm.grow(length); err != nil {
			return invalidHandle, err
		}
		idx = hm.bestFitIndex(length)
		if idx == -1 {
			// Growth rounds up to at least length, so this should be
			// unreachable; treat it as an address-space exhaustion.
			return invalidHandle, newOutOfAddressSpaceError(hm.length, length)
		}
	}

	alloc := hm.fragmentAt(idx, length)

	h := Handle(hm.nextHandle)
	hm.nextHandle++
	alloc.Handle = h
	hm.allocated.Put(h, alloc)
	return h, nil
}

// Free removes handle from the allocated index and returns its block to
// the free set, coalescing with adjacent free blocks (§4.1).
func (hm *HeapManager) Free(handle Handle) error {
	block, ok := hm.allocated.Get(handle)
	if !ok {
		return newInvalidHandleError(handle)
	}
	hm.allocated.Delete(handle)

	// Coalesce backward: a free block ending exactly where this one starts.
	if predIdx, ok := hm.freeByEnd[block.Offset]; ok {
		pred := hm.removeFreeAt(predIdx)
		block.Offset = pred.Offset
		block.Length += pred.Length
	}
	// Coalesce forward: a free block starting exactly where this one ends.
	if succIdx, ok := hm.freeByStart[block.end()]; ok {
		succ := hm.removeFreeAt(succIdx)
		block.Length += succ.Length
	}

	block.Handle = invalidHandle
	hm.addFree(block)
	return nil
}

// FindFreeBlock performs a best-fit search of the free set without
// mutating it: the smallest free block with length >= the requested
// length, or (Block{}, false) if none fits.
func (hm *HeapManager) FindFreeBlock(length uint64) (Block, bool) {
	idx := hm.bestFitIndex(length)
	if idx == -1 {
		return Block{}, false
	}
	return hm.free[idx], true
}

// GetAllocatedBlock returns the block behind handle, or ErrInvalidHandle
// if handle is not currently allocated.
func (hm *HeapManager) GetAllocatedBlock(handle Handle) (Block, error) {
	block, ok := hm.allocated.Get(handle)
	if !ok {
		return Block{}, newInvalidHandleError(handle)
	}
	return block, nil
}

// CreateFreeBlock extends the address space by the smallest multiple of
// blockSize that is >= minLength, and returns the newly appended free
// block. Exposed so a Heap can grow its medium in lockstep; ordinary
// allocation uses this internally via grow.
func (hm *HeapManager) CreateFreeBlock(minLength uint64) (Block, error) {
	return hm.grow(minLength)
}

// Fragment splits an over-sized free block into a head of exactly length
// bytes and a tail remainder, which is reinserted into the free set. The
// returned block is allocated-shaped (it carries no handle and is not
// registered in the allocated index) — per §4.1's design, the caller owns
// deciding whether and how to register it; HeapManager.Allocate is the
// only caller that does so in this package.
func (hm *HeapManager) Fragment(block Block, length uint64) (Block, error) {
	if block.Length < length {
		return Block{}, newBlockTooSmallError(block.Length, length)
	}
	idx, ok := hm.freeByStart[block.Offset]
	if !ok || hm.free[idx].Length != block.Length {
		return Block{}, newInvalidHandleError(block.Handle)
	}
	return hm.fragmentAt(idx, length), nil
}

// fragmentAt removes the free block at idx, carves off its low length
// bytes as the returned (unregistered) block, and reinserts any remainder
// into the free set.
func (hm *HeapManager) fragmentAt(idx int, length uint64) Block {
	block := hm.removeFreeAt(idx)
	if remainder := block.Length - length; remainder > 0 {
		hm.addFree(Block{Offset: block.Offset + length, Length: remainder})
	}
	return Block{Offset: block.Offset, Length: length}
}

// bestFitIndex returns the index in hm.free of the smallest block with
// length >= length, or -1. Ties break on slice order, which is stable
// within a run but unspecified across runs (§4.1, §9) since it depends on
// insertion history.
func (hm *HeapManager) bestFitIndex(length uint64) int {
	best := -1
	for i, b := range hm.free {
		if b.Length < length {
			continue
		}
		if best == -1 || b.Length < hm.free[best].Length {
			best = i
		}
	}
	return best
}

// grow appends a new free block sized to the next multiple of blockSize
// that is >= minLength, invoking onGrow (if set) before committing so the
// owning Heap can keep its medium's length in sync.
func (hm *HeapManager) grow(minLength uint64) (Block, error) {
	grownLen := roundUp(minLength, hm.blockSize)
	newLength := hm.length + grownLen
	if newLength < hm.length {
		return Block{}, newOutOfAddressSpaceError(hm.length, grownLen)
	}

	if hm.onGrow != nil {
		if err := hm.onGrow(newLength); err != nil {
			return Block{}, err
		}
	}

	block := Block{Offset: hm.length, Length: grownLen}
	hm.length = newLength
	hm.addFree(block)
	return block, nil
}

func roundUp(n, multiple uint64) uint64 {
	if multiple == 0 {
		return n
	}
	rem := n % multiple
	if rem == 0 {
		if n == 0 {
			return multiple
		}
		return n
	}
	return n + (multiple - rem)
}

// addFree appends b to the free set and indexes it by start/end offset.
func (hm *HeapManager) addFree(b Block) {
	idx := len(hm.free)
	hm.free = append(hm.free, b)
	hm.freeByStart[b.Offset] = idx
	hm.freeByEnd[b.end()] = idx
}

// removeFreeAt removes the free block at idx (swap-with-last) and returns
// it, fixing up the index entries of whichever block took its place.
func (hm *HeapManager) removeFreeAt(idx int) Block {
	b := hm.free[idx]
	last := len(hm.free) - 1
	if idx != last {
		moved := hm.free[last]
		hm.free[idx] = moved
		hm.freeByStart[moved.Offset] = idx
		hm.freeByEnd[moved.end()] = idx
	}
	hm.free = hm.free[:last]
	delete(hm.freeByStart, b.Offset)
	delete(hm.freeByEnd, b.end())
	return b
}
