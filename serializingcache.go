package tiered

// SerializingCache encodes/decodes values of type T around a Heap (§4.3).
// It owns no policy of its own: every handle it hands out came from a
// prior Create, and every Create/Update allocates exactly enc(value)
// bytes.
type SerializingCache[T any] struct {
	heap  *Heap
	codec Codec[T]
}

// NewSerializingCache returns a SerializingCache that encodes/decodes
// through codec over heap.
func NewSerializingCache[T any](heap *Heap, codec Codec[T]) *SerializingCache[T] {
	return &SerializingCache[T]{heap: heap, codec: codec}
}

// Create encodes value, allocates a block sized to the encoding, writes
// it, and returns the resulting handle.
func (sc *SerializingCache[T]) Create(value T) (Handle, error) {
	data, err := sc.codec.Encode(value)
	if err != nil {
		return invalidHandle, err
	}
	handle, err := sc.heap.Allocate(uint64(len(data)))
	if err != nil {
		return invalidHandle, err
	}
	if err := sc.heap.Write(handle, data); err != nil {
		sc.heap.Free(handle)
		return invalidHandle, err
	}
	return handle, nil
}

// Read returns the decoded value stored at handle.
func (sc *SerializingCache[T]) Read(handle Handle) (T, error) {
	var zero T
	data, err := sc.heap.Read(handle)
	if err != nil {
		return zero, err
	}
	return sc.codec.Decode(data)
}

// Update replaces the value at handle with value, re-allocating when the
// new encoding's length differs from the existing block's (§4.3: updates
// that change size free the old block and allocate a new one rather than
// fragmenting in place). It returns the handle to use going forward,
// which callers must persist even when it equals the one passed in.
func (sc *SerializingCache[T]) Update(handle Handle, value T) (Handle, error) {
	data, err := sc.codec.Encode(value)
	if err != nil {
		return invalidHandle, err
	}

	block, err := sc.heap.hm.GetAllocatedBlock(handle)
	if err != nil {
		return invalidHandle, err
	}

	if uint64(len(data)) == block.Length {
		if err := sc.heap.Write(handle, data); err != nil {
			return invalidHandle, err
		}
		return handle, nil
	}

	newHandle, err := sc.heap.Allocate(uint64(len(data)))
	if err != nil {
		return invalidHandle, err
	}
	if err := sc.heap.Write(newHandle, data); err != nil {
		sc.heap.Free(newHandle)
		return invalidHandle, err
	}
	if err := sc.heap.Free(handle); err != nil {
		return invalidHandle, err
	}
	return newHandle, nil
}

// Delete frees the block at handle.
func (sc *SerializingCache[T]) Delete(handle Handle) error {
	return sc.heap.Free(handle)
}

// Dispose releases the underlying Heap's medium, if owned.
func (sc *SerializingCache[T]) Dispose() error {
	return sc.heap.Dispose()
}

// HeapLength, AllocatedBytes and FreeBytes expose the underlying Heap's
// usage for Stats.
func (sc *SerializingCache[T]) HeapLength() uint64    { return sc.heap.Length() }
func (sc *SerializingCache[T]) AllocatedBytes() uint64 { return sc.heap.AllocatedBytes() }
func (sc *SerializingCache[T]) FreeBytes() uint64      { return sc.heap.FreeBytes() }

// Flush forces pending writes to stable storage, if the underlying Heap
// supports it.
func (sc *SerializingCache[T]) Flush() error { return sc.heap.Flush() }
