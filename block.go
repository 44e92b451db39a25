package tiered

// Block describes one allocator region: the handle identifying it, and its
// offset and length within the heap's address space. A Block is immutable;
// allocation-time length is retained exactly even when the underlying free
// cell that backed it was larger before a split.
type Block struct {
	Handle Handle
	Offset uint64
	Length uint64
}

// end returns the exclusive end offset of the block.
func (b Block) end() uint64 {
	return b.Offset + b.Length
}

// adjacentBefore reports whether b immediately precedes other (b.end() ==
// other.Offset), i.e. b would coalesce forward into other.
func (b Block) adjacentBefore(other Block) bool {
	return b.end() == other.Offset
}
