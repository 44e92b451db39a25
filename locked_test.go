package tiered

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLocked(t *testing.T, localCapacity int) *Locked[string, []byte] {
	t.Helper()
	heap, err := NewHeap(NewMemoryMedium(), 64)
	require.NoError(t, err)
	cache := NewSerializingCache[[]byte](heap, BytesCodec{})
	pd := NewPersistentDictionary[string, []byte](cache)
	return NewLocked[string, []byte](NewCachingDictionary[string, []byte](localCapacity, pd))
}

func TestLockedConcurrentAddAndGet(t *testing.T) {
	l := newTestLocked(t, 8)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			require.NoError(t, l.Add(key, []byte(key)))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 64, l.Count())

	wg = sync.WaitGroup{}
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			v, err := l.Get(key)
			require.NoError(t, err)
			require.Equal(t, key, string(v))
		}(i)
	}
	wg.Wait()
}

func TestLockedDisposeClosesOwnedMedium(t *testing.T) {
	medium := &closeTrackingMedium{Medium: NewMemoryMedium()}
	heap, err := NewOwnedHeap(medium, 64)
	require.NoError(t, err)
	cache := NewSerializingCache[[]byte](heap, BytesCodec{})
	pd := NewPersistentDictionary[string, []byte](cache)
	l := NewLocked[string, []byte](NewCachingDictionary[string, []byte](4, pd))

	require.NoError(t, l.Dispose())
	require.True(t, medium.closed)
}
