package tiered

// Config provides construction-time tuning for a CachingDictionary and its
// underlying heap.
//
//   - BlockSize:     allocator grow granularity in bytes (§4.1); the heap's
//     address space always grows by a multiple of this value.
//   - LocalCapacity: LocalCache's maximum resident key count (§4.6).
//
// All fields are optional; a zero value means "use the default." See
// DefaultConfig for the values used when Config{} is passed as-is.
type Config struct {
	BlockSize     uint64
	LocalCapacity int
}

// DefaultConfig returns the configuration used when the zero Config is
// supplied to New, NewInMemory or NewWithMedium.
func DefaultConfig() Config {
	return Config{
		BlockSize:     2048,
		LocalCapacity: 256,
	}
}

// withDefaults fills zero fields with DefaultConfig's values.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BlockSize == 0 {
		c.BlockSize = def.BlockSize
	}
	if c.LocalCapacity == 0 {
		c.LocalCapacity = def.LocalCapacity
	}
	return c
}
