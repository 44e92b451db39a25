package tiered

// Handle is an opaque identifier for an allocated block. Two handles are
// equal iff their underlying values are equal; callers must not assign any
// other meaning to a handle's numeric value (see HeapManager's allocation
// counter).
type Handle uint64

// invalidHandle is never issued by the allocator's counter, which starts
// at 1; it is used internally as a zero value sentinel.
const invalidHandle Handle = 0
