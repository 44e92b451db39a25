package tiered

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapAllocateWriteRead(t *testing.T) {
	heap, err := NewHeap(NewMemoryMedium(), 64)
	require.NoError(t, err)

	h, err := heap.Allocate(5)
	require.NoError(t, err)

	require.NoError(t, heap.Write(h, []byte("hello")))

	got, err := heap.Read(h)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestHeapWriteLengthMismatch(t *testing.T) {
	heap, err := NewHeap(NewMemoryMedium(), 64)
	require.NoError(t, err)

	h, err := heap.Allocate(5)
	require.NoError(t, err)

	err = heap.Write(h, []byte("too long"))
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestHeapReadInvalidHandle(t *testing.T) {
	heap, err := NewHeap(NewMemoryMedium(), 64)
	require.NoError(t, err)

	_, err = heap.Read(Handle(42))
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestHeapFreeThenReadFails(t *testing.T) {
	heap, err := NewHeap(NewMemoryMedium(), 64)
	require.NoError(t, err)

	h, err := heap.Allocate(5)
	require.NoError(t, err)
	require.NoError(t, heap.Write(h, []byte("hello")))
	require.NoError(t, heap.Free(h))

	_, err = heap.Read(h)
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestHeapGrowExtendsMedium(t *testing.T) {
	medium := NewMemoryMedium()
	heap, err := NewHeap(medium, 64)
	require.NoError(t, err)

	_, err = heap.Allocate(10)
	require.NoError(t, err)
	require.Equal(t, uint64(64), medium.Length())

	_, err = heap.Allocate(100)
	require.NoError(t, err)
	require.Equal(t, heap.Length(), medium.Length())
}

func TestNewHeapRejectsNonEmptyMedium(t *testing.T) {
	medium := NewMemoryMedium()
	require.NoError(t, medium.SetLength(10))

	_, err := NewHeap(medium, 64)
	require.ErrorIs(t, err, ErrMediumNotFresh)
}

func TestOwnedHeapDisposeClosesMedium(t *testing.T) {
	medium := &closeTrackingMedium{Medium: NewMemoryMedium()}
	heap, err := NewOwnedHeap(medium, 64)
	require.NoError(t, err)
	require.NoError(t, heap.Dispose())
	require.True(t, medium.closed)
}

func TestBorrowedHeapDisposeLeavesMediumOpen(t *testing.T) {
	medium := &closeTrackingMedium{Medium: NewMemoryMedium()}
	heap, err := NewHeap(medium, 64)
	require.NoError(t, err)
	require.NoError(t, heap.Dispose())
	require.False(t, medium.closed)
}

type closeTrackingMedium struct {
	Medium
	closed bool
}

func (m *closeTrackingMedium) Close() error {
	m.closed = true
	return m.Medium.Close()
}
