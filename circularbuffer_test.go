package tiered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCircularBufferEnqueueWithinCapacity(t *testing.T) {
	cb := NewCircularBuffer[int](3)
	for _, v := range []int{1, 2, 3} {
		_, didEvict := cb.Enqueue(v)
		require.False(t, didEvict)
	}
	require.Equal(t, 3, cb.Len())
	for i, want := range []int{1, 2, 3} {
		got, err := cb.At(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCircularBufferEnqueueOverwritesOldest(t *testing.T) {
	cb := NewCircularBuffer[int](3)
	cb.Enqueue(1)
	cb.Enqueue(2)
	cb.Enqueue(3)

	evicted, didEvict := cb.Enqueue(4)
	require.True(t, didEvict)
	require.Equal(t, 1, evicted)
	require.Equal(t, 3, cb.Len())

	got, err := cb.At(0)
	require.NoError(t, err)
	require.Equal(t, 2, got)
	got, err = cb.At(2)
	require.NoError(t, err)
	require.Equal(t, 4, got)
}

func TestCircularBufferDequeue(t *testing.T) {
	cb := NewCircularBuffer[string](2)
	cb.Enqueue("a")
	cb.Enqueue("b")

	v, ok := cb.Dequeue()
	require.True(t, ok)
	require.Equal(t, "a", v)
	require.Equal(t, 1, cb.Len())

	cb.Dequeue()
	_, ok = cb.Dequeue()
	require.False(t, ok)
}

func TestCircularBufferFrontEmpty(t *testing.T) {
	cb := NewCircularBuffer[int](2)
	_, err := cb.Front()
	require.ErrorIs(t, err, ErrEmpty)
}

func TestCircularBufferAtOutOfRange(t *testing.T) {
	cb := NewCircularBuffer[int](2)
	cb.Enqueue(1)
	_, err := cb.At(1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = cb.At(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestCircularBufferInsertShiftsWithinCapacity(t *testing.T) {
	cb := NewCircularBuffer[int](4)
	cb.Enqueue(1)
	cb.Enqueue(3)

	_, didEvict, err := cb.Insert(1, 2)
	require.NoError(t, err)
	require.False(t, didEvict)

	for i, want := range []int{1, 2, 3} {
		got, err := cb.At(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCircularBufferInsertWhenFullEvictsOldest(t *testing.T) {
	cb := NewCircularBuffer[int](2)
	cb.Enqueue(1)
	cb.Enqueue(2)

	evicted, didEvict, err := cb.Insert(1, 99)
	require.NoError(t, err)
	require.True(t, didEvict)
	require.Equal(t, 1, evicted)
	require.Equal(t, 2, cb.Len())

	// 1 was evicted to make room; 99 takes the position it was inserted
	// at relative to what remains (immediately before the surviving 2).
	got, err := cb.At(0)
	require.NoError(t, err)
	require.Equal(t, 99, got)
	got, err = cb.At(1)
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestCircularBufferRemoveAt(t *testing.T) {
	cb := NewCircularBuffer[int](4)
	cb.Enqueue(1)
	cb.Enqueue(2)
	cb.Enqueue(3)

	removed, err := cb.RemoveAt(1)
	require.NoError(t, err)
	require.Equal(t, 2, removed)
	require.Equal(t, 2, cb.Len())

	got, _ := cb.At(1)
	require.Equal(t, 3, got)
}

func TestCircularBufferResizeRoundTrip(t *testing.T) {
	cb := NewCircularBuffer[int](4)
	cb.Enqueue(1)
	cb.Enqueue(2)
	cb.Enqueue(3)

	dropped, err := cb.Resize(6)
	require.NoError(t, err)
	require.Empty(t, dropped)
	require.Equal(t, 6, cb.Capacity())

	for i, want := range []int{1, 2, 3} {
		got, err := cb.At(i)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCircularBufferResizeShrinkDropsNewestOverflow(t *testing.T) {
	cb := NewCircularBuffer[int](3)
	cb.Enqueue(1)
	cb.Enqueue(2)
	cb.Enqueue(3)

	dropped, err := cb.Resize(2)
	require.NoError(t, err)
	require.Equal(t, []int{3}, dropped)

	got, err := cb.At(0)
	require.NoError(t, err)
	require.Equal(t, 1, got)
	got, err = cb.At(1)
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestCircularBufferClear(t *testing.T) {
	cb := NewCircularBuffer[int](3)
	cb.Enqueue(1)
	cb.Enqueue(2)
	cb.Clear()
	require.Equal(t, 0, cb.Len())
	_, ok := cb.Dequeue()
	require.False(t, ok)
}
