package utils

import "sync"

// RingBuffer is a fixed-size buffer of T. Pushing into a full buffer evicts
// the oldest element. Elements are kept oldest first.
//
//	rb := NewRingBuffer[int](3)
//	rb.Push(1)
//	rb.Push(2)
//	rb.Push(3)
//	rb.Push(4) // evicts 1
//	fmt.Println(rb.ToSlice()) // [2 3 4]
//
// RingBuffer is safe for concurrent use.
type RingBuffer[T any] struct {
	data  []T
	size  int
	count int
	head  int // oldest element
	tail  int // next write position
	mu    sync.RWMutex
}

// NewRingBuffer creates a buffer holding up to size elements.
// It panics when size is not positive.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	if size <= 0 {
		panic("ring buffer size must be positive")
	}
	return &RingBuffer[T]{
		data: make([]T, size),
		size: size,
	}
}

// Push appends item, evicting the oldest element when the buffer is full.
func (rb *RingBuffer[T]) Push(item T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.data[rb.tail] = item
	rb.tail = (rb.tail + 1) % rb.size

	if rb.count < rb.size {
		rb.count++
	} else {
		rb.head = (rb.head + 1) % rb.size
	}
}

// Len returns the number of stored elements, always within [0, Cap()].
func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

// Cap returns the capacity of the buffer.
func (rb *RingBuffer[T]) Cap() int {
	return rb.size
}

// At returns the i-th element, 0 being the oldest.
// It panics when i is outside [0, Len()).
func (rb *RingBuffer[T]) At(i int) T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	if i < 0 || i >= rb.count {
		panic("index out of range")
	}
	return rb.data[(rb.head+i)%rb.size]
}

// Last returns the newest element, or false when the buffer is empty.
func (rb *RingBuffer[T]) Last() (T, bool) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	var zero T
	if rb.count == 0 {
		return zero, false
	}
	return rb.data[(rb.head+rb.count-1)%rb.size], true
}

// ToSlice copies the elements, oldest first. An empty buffer gives an empty slice.
func (rb *RingBuffer[T]) ToSlice() []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	result := make([]T, rb.count)
	for i := range rb.count {
		result[i] = rb.data[(rb.head+i)%rb.size]
	}
	return result
}
