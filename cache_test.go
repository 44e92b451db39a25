package tiered

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInMemoryRoundTrip(t *testing.T) {
	l, err := NewInMemory[string, []byte](Config{LocalCapacity: 4}, BytesCodec{})
	require.NoError(t, err)

	require.NoError(t, l.Add("k", []byte("value")))
	v, err := l.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), v)
}

func TestNewUsesScratchDirectory(t *testing.T) {
	dir := t.TempDir()
	l, err := New[string, []byte](Config{BlockSize: 128, LocalCapacity: 2}, BytesCodec{}, dir, false)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "*.heap"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		require.NoError(t, l.Add(key, []byte(key)))
	}
	require.Equal(t, 5, l.Count())

	require.NoError(t, l.Dispose())
}

func TestNewWithMediumDoesNotOwnMedium(t *testing.T) {
	medium := &closeTrackingMedium{Medium: NewMemoryMedium()}
	l, err := NewWithMedium[string, []byte](medium, BytesCodec{}, Config{LocalCapacity: 2})
	require.NoError(t, err)
	require.NoError(t, l.Dispose())
	require.False(t, medium.closed)
}

func TestNewInvalidConfigRejected(t *testing.T) {
	_, err := NewInMemory[string, []byte](Config{LocalCapacity: -1}, BytesCodec{})
	require.Error(t, err)
}
