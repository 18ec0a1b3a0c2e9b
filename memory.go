// SPDX-License-Identifier: Apache-2.0

package segarena

import (
	"errors"
	"unsafe"
)

// ErrAllocationFailed reports that the MemorySource could not provide
// fresh backing memory. It is surfaced by Array.Allocate on the slow path
// and is never retried internally.
var ErrAllocationFailed = errors.New("segarena: memory acquisition failed")

// MemorySource provides raw backing memory for buffers. It is consulted
// only on the allocation slow path (when the free pool is empty) and at
// pool teardown, never per element.
//
// Acquire returns a slice of exactly size bytes whose first byte is
// aligned to alignment. Release returns a slice previously obtained from
// Acquire; implementations for which the garbage collector reclaims the
// memory may treat it as a no-op.
type MemorySource interface {
	Acquire(size, alignment int) ([]byte, error)
	Release(buf []byte)
}

// HeapSource returns the default MemorySource backed by the Go heap.
func HeapSource() MemorySource { return heapSource{} }

type heapSource struct{}

func (heapSource) Acquire(size, alignment int) ([]byte, error) {
	if alignment <= 1 {
		return make([]byte, size), nil
	}
	raw := make([]byte, size+alignment-1)
	off := 0
	for p := uintptr(unsafe.Pointer(unsafe.SliceData(raw))); p%uintptr(alignment) != 0; p++ {
		off++
	}
	return raw[off : off+size : off+size], nil
}

func (heapSource) Release([]byte) {}
