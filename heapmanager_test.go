package tiered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapManagerAllocateGrows(t *testing.T) {
	hm := NewHeapManager(64, nil)
	require.Equal(t, uint64(0), hm.Length())

	h, err := hm.Allocate(10)
	require.NoError(t, err)
	require.Equal(t, uint64(64), hm.Length())

	block, err := hm.GetAllocatedBlock(h)
	require.NoError(t, err)
	require.Equal(t, uint64(0), block.Offset)
	require.Equal(t, uint64(10), block.Length)
}

func TestHeapManagerAllocateReusesCoalescedBlock(t *testing.T) {
	hm := NewHeapManager(1, nil)

	a, err := hm.Allocate(100)
	require.NoError(t, err)
	b, err := hm.Allocate(10)
	require.NoError(t, err)
	require.NoError(t, hm.Free(a))
	require.NoError(t, hm.Free(b))

	// a and b occupied adjacent offsets, so freeing both coalesces them
	// into a single free block starting at offset 0; a third allocation
	// should reuse that block rather than grow.
	c, err := hm.Allocate(50)
	require.NoError(t, err)
	block, err := hm.GetAllocatedBlock(c)
	require.NoError(t, err)
	require.Equal(t, uint64(0), block.Offset)
}

func TestHeapManagerFreeCoalescesAdjacent(t *testing.T) {
	hm := NewHeapManager(1000, nil)

	a, err := hm.Allocate(100)
	require.NoError(t, err)
	b, err := hm.Allocate(100)
	require.NoError(t, err)

	require.NoError(t, hm.Free(a))
	require.NoError(t, hm.Free(b))

	// a and b occupied adjacent offsets in the same grown block; freeing
	// both should coalesce them plus the remainder into one free block
	// spanning the entire grown region.
	free, ok := hm.FindFreeBlock(hm.Length())
	require.True(t, ok)
	require.Equal(t, hm.Length(), free.Length)
	require.Equal(t, uint64(0), free.Offset)
}

func TestHeapManagerFreeInvalidHandle(t *testing.T) {
	hm := NewHeapManager(64, nil)
	err := hm.Free(Handle(999))
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestHeapManagerGetAllocatedBlockInvalidHandle(t *testing.T) {
	hm := NewHeapManager(64, nil)
	_, err := hm.GetAllocatedBlock(Handle(999))
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestHeapManagerZeroLengthAllocation(t *testing.T) {
	hm := NewHeapManager(64, nil)
	h, err := hm.Allocate(0)
	require.NoError(t, err)
	block, err := hm.GetAllocatedBlock(h)
	require.NoError(t, err)
	require.Equal(t, uint64(0), block.Length)
}

func TestHeapManagerGrowHookInvoked(t *testing.T) {
	var sawLength uint64
	hm := NewHeapManager(128, func(newLength uint64) error {
		sawLength = newLength
		return nil
	})
	_, err := hm.Allocate(10)
	require.NoError(t, err)
	require.Equal(t, uint64(128), sawLength)
}

func TestHeapManagerGrowHookErrorAbortsAllocate(t *testing.T) {
	hm := NewHeapManager(128, func(newLength uint64) error {
		return ErrOutOfAddressSpace
	})
	_, err := hm.Allocate(10)
	require.Error(t, err)
	require.Equal(t, uint64(0), hm.Length())
}

func TestHeapManagerFragmentSplitsRemainder(t *testing.T) {
	hm := NewHeapManager(100, nil)
	h, err := hm.Allocate(10)
	require.NoError(t, err)
	require.NoError(t, hm.Free(h))

	free, ok := hm.FindFreeBlock(10)
	require.True(t, ok)
	require.Equal(t, uint64(100), free.Length)

	frag, err := hm.Fragment(free, 30)
	require.NoError(t, err)
	require.Equal(t, uint64(30), frag.Length)

	remainder, ok := hm.FindFreeBlock(1)
	require.True(t, ok)
	require.Equal(t, uint64(70), remainder.Length)
}

func TestHeapManagerNoAdjacentFreeInvariant(t *testing.T) {
	hm := NewHeapManager(50, nil)
	var handles []Handle
	for i := 0; i < 5; i++ {
		h, err := hm.Allocate(10)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	for _, h := range handles {
		require.NoError(t, hm.Free(h))
	}
	// Every block freed, all adjacent: must coalesce down to one entry.
	require.Len(t, hm.free, 1)
}
