package tiered

import "fmt"

// New builds a fully wired, concurrency-safe two-tier cache: a
// BlockSize-granularity heap over a scratch temp file (optionally
// memory-mapped) backs the persistent tier, fronted by a LocalCapacity
// LocalCache. dir is the directory the scratch file is created in;
// an empty dir uses os.TempDir(). The returned Locked owns the scratch
// file and deletes it on Dispose.
func New[K comparable, V any](config Config, codec Codec[V], dir string, useMmap bool) (*Locked[K, V], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	medium, err := NewTempFileMedium(dir, useMmap)
	if err != nil {
		return nil, fmt.Errorf("tiered: failed to create backing medium: %w", err)
	}

	heap, err := NewOwnedHeap(medium, config.BlockSize)
	if err != nil {
		medium.Close()
		return nil, fmt.Errorf("tiered: failed to bind heap: %w", err)
	}

	return wire[K, V](heap, codec, config), nil
}

// NewInMemory builds a two-tier cache whose persistent tier lives
// entirely in process memory rather than a scratch file, for tests and
// short-lived processes that would rather not touch disk.
func NewInMemory[K comparable, V any](config Config, codec Codec[V]) (*Locked[K, V], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	heap, err := NewOwnedHeap(NewMemoryMedium(), config.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("tiered: failed to bind heap: %w", err)
	}

	return wire[K, V](heap, codec, config), nil
}

// NewWithMedium is like New, but binds to a caller-supplied, caller-owned
// Medium instead of creating one. The returned Locked does not close
// medium on Dispose.
func NewWithMedium[K comparable, V any](medium Medium, codec Codec[V], config Config) (*Locked[K, V], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	heap, err := NewHeap(medium, config.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("tiered: failed to bind heap: %w", err)
	}

	return wire[K, V](heap, codec, config), nil
}

func wire[K comparable, V any](heap *Heap, codec Codec[V], config Config) *Locked[K, V] {
	cache := NewSerializingCache[V](heap, codec)
	persistent := NewPersistentDictionary[K, V](cache)
	dict := NewCachingDictionary[K, V](config.LocalCapacity, persistent)
	return NewLocked[K, V](dict)
}
