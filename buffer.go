// SPDX-License-Identifier: Apache-2.0

package segarena

import (
	"sync/atomic"
	"unsafe"
)

// Buffer is a fixed-capacity slab holding numElems slots of elemSize bytes
// each. Buffers link into singly linked lists through an intrusive next
// pointer, used either by the owning Array's chain or by a FreeBufferPool's
// stack, never both at once.
type Buffer struct {
	elemSize int
	numElems int

	next atomic.Pointer[Buffer]

	// Index of the next slot to hand out. The buffer is full once this
	// reaches numElems; it can overshoot because AllocSlot increments
	// unconditionally and checks only afterwards. The stored value is
	// never corrected.
	nextAllocate atomic.Uint32

	data []byte
	src  MemorySource

	// Table slot assigned by the first FreeBufferPool that adopts this
	// buffer; zero means not yet adopted. Atomic because a pop holding a
	// stale snapshot can read it while the buffer is being adopted.
	poolIndex atomic.Uint32
}

// NewBuffer acquires numElems*elemSize aligned bytes from src and wraps
// them in a Buffer linked to next. The region starts out zeroed.
func NewBuffer(elemSize, numElems, alignment int, next *Buffer, src MemorySource) (*Buffer, error) {
	data, err := src.Acquire(numElems*elemSize, alignment)
	if err != nil {
		return nil, err
	}
	b := &Buffer{
		elemSize: elemSize,
		numElems: numElems,
		data:     data,
		src:      src,
	}
	b.next.Store(next)
	return b, nil
}

// AllocSlot claims one slot via a single atomic bump of the allocation
// index. It reports false once the buffer is full; any index at or above
// capacity counts as full, including overshoot from racing callers.
func (b *Buffer) AllocSlot() (unsafe.Pointer, bool) {
	if b.nextAllocate.Load() >= uint32(b.numElems) {
		return nil, false
	}
	idx := b.nextAllocate.Add(1) - 1
	if idx >= uint32(b.numElems) {
		return nil, false
	}
	return b.slot(int(idx)), true
}

func (b *Buffer) slot(i int) unsafe.Pointer {
	return unsafe.Pointer(&b.data[i*b.elemSize])
}

// Reset prepares a recycled buffer for a new owner: allocation index to
// zero, next link overwritten, backing region zero-filled. The caller must
// hold the only reference; no allocator or pool may observe the buffer
// while it is reset.
func (b *Buffer) Reset(next *Buffer) {
	b.nextAllocate.Store(0)
	b.next.Store(next)
	clear(b.data)
}

// Len returns the number of allocated slots, clamped to capacity.
func (b *Buffer) Len() int {
	n := int(b.nextAllocate.Load())
	if n > b.numElems {
		return b.numElems
	}
	return n
}

// IsFull reports whether the allocation index has reached capacity.
func (b *Buffer) IsFull() bool {
	return b.nextAllocate.Load() >= uint32(b.numElems)
}

// ElemSize returns the size of one slot in bytes.
func (b *Buffer) ElemSize() int { return b.elemSize }

// NumElems returns the slot capacity.
func (b *Buffer) NumElems() int { return b.numElems }

// MemSize returns the memory footprint: header plus backing region.
func (b *Buffer) MemSize() int {
	return int(unsafe.Sizeof(*b)) + len(b.data)
}

// Next returns the intrusive link.
func (b *Buffer) Next() *Buffer { return b.next.Load() }

// SetNext overwrites the intrusive link.
func (b *Buffer) SetNext(next *Buffer) { b.next.Store(next) }

// release returns the backing region to the memory source. Only the
// FreeBufferPool calls this, at teardown.
func (b *Buffer) release() {
	if b.data == nil {
		return
	}
	b.src.Release(b.data)
	b.data = nil
}
