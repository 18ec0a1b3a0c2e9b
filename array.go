// SPDX-License-Identifier: Apache-2.0

package segarena

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// Array owns an ordered chain of buffers and serves fixed-size slot
// allocations from the newest one. The first buffer in the chain is the
// current allocation target; the last is the oldest. Allocate is safe for
// concurrent use by any number of goroutines. DropAll and Iterate require
// the caller to rule out concurrent Allocate on the same Array.
type Array struct {
	name   string
	policy GrowthPolicy
	pool   *FreeBufferPool
	src    MemorySource

	first atomic.Pointer[Buffer]
	// Oldest buffer. Written only by the winner installing the first
	// buffer and by DropAll, both of which exclude each other.
	last *Buffer

	numBuffers   atomic.Int64
	memSize      atomic.Int64
	numAvailable atomic.Int64 // slots across all buffers in the chain
	numAllocated atomic.Int64 // slots handed out
}

// ArrayOption configures an Array.
type ArrayOption func(*Array)

// WithMemorySource injects the raw-memory capability used on the slow
// path. Defaults to HeapSource.
func WithMemorySource(src MemorySource) ArrayOption {
	return func(a *Array) { a.src = src }
}

// NewArray builds an empty Array bound to a shared pool of the same
// element size/category. The name is diagnostic only.
func NewArray(name string, policy GrowthPolicy, pool *FreeBufferPool, opts ...ArrayOption) *Array {
	if pool == nil {
		panic("segarena: nil free buffer pool")
	}
	a := &Array{
		name:   name,
		policy: policy,
		pool:   pool,
		src:    HeapSource(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns one zeroed-on-first-use slot of the configured element
// size. The fast path is a single atomic bump on the newest buffer; on
// exhaustion one caller installs a replacement while the rest retry. The
// only error is ErrAllocationFailed from the slow path.
func (a *Array) Allocate() (unsafe.Pointer, error) {
	cur := a.first.Load()
	if cur == nil {
		var err error
		if cur, err = a.installBuffer(nil); err != nil {
			return nil, err
		}
	}
	for {
		if p, ok := cur.AllocSlot(); ok {
			a.numAllocated.Add(1)
			return p, nil
		}
		var err error
		if cur, err = a.installBuffer(cur); err != nil {
			return nil, err
		}
	}
}

// installBuffer makes a new head buffer available, preferring a recycled
// pool buffer over fresh memory. A CAS on the head pointer arbitrates
// racing installers: the loser hands its speculative buffer to the pool
// and continues on whatever head the winner installed.
func (a *Array) installBuffer(prev *Buffer) (*Buffer, error) {
	next, ok := a.pool.Pop()
	if ok {
		if next.ElemSize() != a.policy.ElemSize() {
			panic("segarena: pool buffer element size mismatch")
		}
		// Recycled buffers are reset here, not at DropAll time, so the
		// new owner always sees zeroed slots.
		next.Reset(prev)
	} else {
		prevCap := 0
		if prev != nil {
			prevCap = prev.NumElems()
		}
		numElems := a.policy.NextCapacity(prevCap)
		var err error
		next, err = NewBuffer(a.policy.ElemSize(), numElems, a.policy.Alignment(), prev, a.src)
		if err != nil {
			return nil, fmt.Errorf("%w: array %q: buffer of %d elems: %v",
				ErrAllocationFailed, a.name, numElems, err)
		}
	}

	if !a.first.CompareAndSwap(prev, next) {
		// Somebody else installed a buffer; recycle ours and use theirs.
		a.pool.Push(next)
		return a.first.Load(), nil
	}
	if prev == nil {
		a.last = next
	}
	a.numBuffers.Add(1)
	a.memSize.Add(int64(next.MemSize()))
	a.numAvailable.Add(int64(next.NumElems()))
	return next, nil
}

// Iterate applies visit to every allocated slot, newest buffer first and
// in allocation order within each buffer. The caller must rule out
// concurrent Allocate; slots racing the traversal are not ordered with it.
func (a *Array) Iterate(visit func(unsafe.Pointer)) {
	for b := a.first.Load(); b != nil; b = b.Next() {
		limit := b.Len()
		for i := 0; i < limit; i++ {
			visit(b.slot(i))
		}
	}
}

// DropAll hands the entire chain to the shared pool in one bulk push and
// resets the Array to empty, ready for fresh allocation. The caller must
// rule out concurrent Allocate. Dropped buffers are not reset here;
// whichever Array later reuses one resets it before exposing slots.
func (a *Array) DropAll() {
	first := a.first.Load()
	if first != nil {
		a.pool.BulkPush(first, a.last, int(a.numBuffers.Load()), a.memSize.Load())
	}
	a.first.Store(nil)
	a.last = nil
	a.numBuffers.Store(0)
	a.memSize.Store(0)
	a.numAvailable.Store(0)
	a.numAllocated.Store(0)
}

// Name returns the diagnostic name.
func (a *Array) Name() string { return a.name }

// Category returns the policy's diagnostic category tag.
func (a *Array) Category() string { return a.policy.Category() }

// ElemSize returns the slot size in bytes.
func (a *Array) ElemSize() int { return a.policy.ElemSize() }

// NumBuffers returns the number of buffers in the chain.
func (a *Array) NumBuffers() int { return int(a.numBuffers.Load()) }

// Length returns the number of slots handed out.
func (a *Array) Length() int { return int(a.numAllocated.Load()) }

// Available returns the slot capacity across the whole chain.
func (a *Array) Available() int { return int(a.numAvailable.Load()) }

// MemSize returns the bytes held by the chain.
func (a *Array) MemSize() int64 { return a.memSize.Load() }

// ArrayStats is a point-in-time snapshot of an Array's counters. All
// fields are read lock-free and can be transiently inconsistent with each
// other while allocations are in flight.
type ArrayStats struct {
	Name       string
	Category   string
	NumBuffers int
	Length     int
	Available  int
	MemSize    int64
}

// Stats returns a best-effort counter snapshot.
func (a *Array) Stats() ArrayStats {
	return ArrayStats{
		Name:       a.name,
		Category:   a.Category(),
		NumBuffers: a.NumBuffers(),
		Length:     a.Length(),
		Available:  a.Available(),
		MemSize:    a.MemSize(),
	}
}

func (a *Array) String() string {
	return fmt.Sprintf("%s: buffers %d elems %d/%d size %d",
		a.name, a.NumBuffers(), a.Length(), a.Available(), a.MemSize())
}
