package tiered

// CircularBuffer is a fixed-capacity recency queue (§4.5): Enqueue
// appends at the tail and, once full, silently overwrites the oldest
// entry rather than growing. It backs LocalCache's eviction order.
type CircularBuffer[T any] struct {
	data  []T
	head  int // logical index 0 lives here
	count int
}

// NewCircularBuffer returns an empty CircularBuffer with room for
// capacity elements.
func NewCircularBuffer[T any](capacity int) *CircularBuffer[T] {
	return &CircularBuffer[T]{data: make([]T, capacity)}
}

// Len returns the number of elements currently held.
func (cb *CircularBuffer[T]) Len() int { return cb.count }

// Capacity returns the maximum number of elements the buffer can hold.
func (cb *CircularBuffer[T]) Capacity() int { return len(cb.data) }

// Enqueue appends value as the newest element. If the buffer is already
// at capacity, the oldest element is overwritten and returned with
// didEvict=true.
func (cb *CircularBuffer[T]) Enqueue(value T) (evicted T, didEvict bool) {
	if len(cb.data) == 0 {
		return value, true
	}
	if cb.count == len(cb.data) {
		evicted = cb.data[cb.head]
		didEvict = true
		cb.data[cb.head] = value
		cb.head = (cb.head + 1) % len(cb.data)
		return evicted, true
	}
	tail := (cb.head + cb.count) % len(cb.data)
	cb.data[tail] = value
	cb.count++
	return evicted, false
}

// Dequeue removes and returns the oldest element, if any.
func (cb *CircularBuffer[T]) Dequeue() (T, bool) {
	var zero T
	if cb.count == 0 {
		return zero, false
	}
	v := cb.data[cb.head]
	cb.data[cb.head] = zero
	cb.head = (cb.head + 1) % len(cb.data)
	cb.count--
	return v, true
}

// Front returns the oldest element without removing it, or ErrEmpty.
func (cb *CircularBuffer[T]) Front() (T, error) {
	var zero T
	if cb.count == 0 {
		return zero, ErrEmpty
	}
	return cb.data[cb.head], nil
}

// At returns the element at logical index (0 is oldest), or
// ErrOutOfRange.
func (cb *CircularBuffer[T]) At(index int) (T, error) {
	var zero T
	if index < 0 || index >= cb.count {
		return zero, ErrOutOfRange
	}
	return cb.data[(cb.head+index)%len(cb.data)], nil
}

// Insert places value at logical index, shifting elements at and after
// index toward the tail.
//
// Quirk (§4.5, §9): when the buffer is already full, there is no room to
// shift into, so Insert behaves like Enqueue first — it evicts the
// current oldest element (logical index 0) to free a slot — and then
// inserts value at index adjusted for that eviction. Callers that need
// insert to never evict must check Len() < Capacity() first.
func (cb *CircularBuffer[T]) Insert(index int, value T) (evicted T, didEvict bool, err error) {
	if index < 0 || index > cb.count {
		return evicted, false, ErrOutOfRange
	}
	items := cb.toSlice()
	if len(items) == len(cb.data) && len(cb.data) > 0 {
		evicted = items[0]
		didEvict = true
		items = items[1:]
		index--
		if index < 0 {
			index = 0
		}
	}
	items = append(items[:index:index], append([]T{value}, items[index:]...)...)
	cb.loadFrom(items)
	return evicted, didEvict, nil
}

// RemoveAt removes and returns the element at logical index, shifting
// subsequent elements toward the head.
func (cb *CircularBuffer[T]) RemoveAt(index int) (T, error) {
	var zero T
	if index < 0 || index >= cb.count {
		return zero, ErrOutOfRange
	}
	items := cb.toSlice()
	removed := items[index]
	items = append(items[:index], items[index+1:]...)
	cb.loadFrom(items)
	return removed, nil
}

// Resize changes the buffer's capacity by dequeuing from the current
// buffer up to min(count, newCapacity) times into the new array (§4.5):
// growing or resizing to the current length round-trips every element
// in order with nothing dropped. Shrinking below the current length
// keeps the oldest newCapacity elements and drops the newest overflow,
// returning the dropped elements oldest first.
func (cb *CircularBuffer[T]) Resize(newCapacity int) ([]T, error) {
	if newCapacity < 0 {
		return nil, ErrOutOfRange
	}
	items := cb.toSlice()
	var dropped []T
	if newCapacity < len(items) {
		dropped = items[newCapacity:]
		items = items[:newCapacity]
	}
	newData := make([]T, newCapacity)
	copy(newData, items)
	cb.data = newData
	cb.head = 0
	cb.count = len(items)
	return dropped, nil
}

// Clear empties the buffer, zeroing every slot so no stale references
// are retained.
func (cb *CircularBuffer[T]) Clear() {
	var zero T
	for i := range cb.data {
		cb.data[i] = zero
	}
	cb.head = 0
	cb.count = 0
}

// toSlice materializes the buffer's contents in logical order, oldest
// first.
func (cb *CircularBuffer[T]) toSlice() []T {
	out := make([]T, cb.count)
	for i := 0; i < cb.count; i++ {
		out[i] = cb.data[(cb.head+i)%len(cb.data)]
	}
	return out
}

// loadFrom resets the buffer to hold items (oldest first), which must
// not exceed the buffer's current capacity.
func (cb *CircularBuffer[T]) loadFrom(items []T) {
	n := len(items)
	if n > len(cb.data) {
		n = len(cb.data)
	}
	cb.head = 0
	cb.count = n
	for i := 0; i < n; i++ {
		cb.data[i] = items[i]
	}
}
