// Package tiered provides a two-tier caching dictionary: a bounded
// in-memory tier with recency-ordered eviction, spilling colder entries
// into a byte-addressable heap managed by a free-list allocator.
//
// The library is organised into several files for clarity:
//
//	handle.go               – opaque block identity
//	block.go                – allocator region record
//	errors.go                – sentinel and structural failure values
//	options.go               – configuration struct & defaults
//	config.go                – configuration validation
//	medium.go                – backing medium capability & implementations
//	heapmanager.go           – free-list allocator over an abstract address space
//	heap.go                  – binds a HeapManager to a concrete Medium
//	codec.go                 – serializer/deserializer contract
//	serializingcache.go      – typed CRUD over a Heap
//	persistentdictionary.go  – key -> handle index over a SerializingCache
//	circularbuffer.go        – fixed-capacity recency queue
//	localcache.go            – bounded LRU map backed by a CircularBuffer
//	cachingdictionary.go     – composes LocalCache and PersistentDictionary
//	locked.go                – coarse-grained concurrency adapter
//	stats.go                 – hit/miss and heap-usage snapshot
//	cache.go                 – top-level constructors wiring the tiers together
package tiered
