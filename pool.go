// SPDX-License-Identifier: Apache-2.0

package segarena

import (
	"fmt"
	"sync/atomic"
)

// FreeBufferPool holds the currently unowned buffers of one element
// size/category as a lock-free LIFO, so Arrays recycle each other's
// reclaimed buffers instead of acquiring fresh memory. Every operation is
// a CAS-retry loop; there is no mutual exclusion anywhere.
//
// The stack reuses each buffer's own next link, with the head packed into
// a single uint64 as {buffer table index, version}. Every successful head
// CAS bumps the version, so a pop whose snapshot was invalidated by an
// intervening pop/re-push cycle of the same buffer always fails its CAS
// instead of installing a stale next link. Indices resolve through an
// append-only buffer table that grows by copy-on-write CAS.
//
// NumBuffers and MemSize are best effort: each counter is individually
// atomic, but counters and list content are not updated as one unit, so
// readers racing a push or pop can observe transiently stale values.
type FreeBufferPool struct {
	// head packs {table index, version}; index zero means empty.
	head atomic.Uint64

	// table resolves head indices to buffers. Slot 0 is reserved so that
	// index zero can mean "empty". Entries are never removed; a buffer
	// keeps its index for its whole lifetime.
	table atomic.Pointer[[]*Buffer]

	numBuffers atomic.Int64
	memSize    atomic.Int64
}

// NewFreeBufferPool returns an empty pool.
func NewFreeBufferPool() *FreeBufferPool {
	p := &FreeBufferPool{}
	t := make([]*Buffer, 1)
	p.table.Store(&t)
	return p
}

func packHead(index, version uint32) uint64 {
	return uint64(index)<<32 | uint64(version)
}

func headIndex(h uint64) uint32 { return uint32(h >> 32) }

func headVersion(h uint64) uint32 { return uint32(h) }

func (p *FreeBufferPool) lookup(index uint32) *Buffer {
	if index == 0 {
		return nil
	}
	return (*p.table.Load())[index]
}

// register assigns table indices to every not-yet-adopted buffer in the
// chain first..last, growing the table in one copy-on-write CAS. The
// caller owns the chain exclusively at this point.
func (p *FreeBufferPool) register(first, last *Buffer) {
	var pending []*Buffer
	for b := first; b != nil; b = b.Next() {
		if b.poolIndex.Load() == 0 {
			pending = append(pending, b)
		}
		if b == last {
			break
		}
	}
	if len(pending) == 0 {
		return
	}
	for {
		old := p.table.Load()
		grown := make([]*Buffer, len(*old), len(*old)+len(pending))
		copy(grown, *old)
		grown = append(grown, pending...)
		if p.table.CompareAndSwap(old, &grown) {
			for i, b := range pending {
				b.poolIndex.Store(uint32(len(*old) + i))
			}
			return
		}
	}
}

// Push inserts one buffer at the head of the stack. The caller transfers
// ownership; the buffer's next link is overwritten.
func (p *FreeBufferPool) Push(b *Buffer) {
	p.register(b, b)
	for {
		old := p.head.Load()
		b.SetNext(p.lookup(headIndex(old)))
		if p.head.CompareAndSwap(old, packHead(b.poolIndex.Load(), headVersion(old)+1)) {
			break
		}
	}
	p.numBuffers.Add(1)
	p.memSize.Add(int64(b.MemSize()))
}

// BulkPush splices an already linked chain first..last onto the head of
// the stack in a single CAS loop and then adds count and memSize to the
// aggregate counters. Array.DropAll uses this to return a whole chain
// without one CAS per buffer.
func (p *FreeBufferPool) BulkPush(first, last *Buffer, count int, memSize int64) {
	if first == nil {
		return
	}
	p.register(first, last)
	for {
		old := p.head.Load()
		last.SetNext(p.lookup(headIndex(old)))
		if p.head.CompareAndSwap(old, packHead(first.poolIndex.Load(), headVersion(old)+1)) {
			break
		}
	}
	p.numBuffers.Add(int64(count))
	p.memSize.Add(memSize)
}

// Pop removes and returns the most recently pushed buffer. It reports
// false when the pool is empty, which is a normal signal to acquire fresh
// memory rather than an error.
func (p *FreeBufferPool) Pop() (*Buffer, bool) {
	for {
		old := p.head.Load()
		index := headIndex(old)
		if index == 0 {
			return nil, false
		}
		b := p.lookup(index)
		next := b.Next()
		var nextIndex uint32
		if next != nil {
			nextIndex = next.poolIndex.Load()
		}
		if p.head.CompareAndSwap(old, packHead(nextIndex, headVersion(old)+1)) {
			p.numBuffers.Add(-1)
			p.memSize.Add(-int64(b.MemSize()))
			return b, true
		}
	}
}

// Drain detaches the entire chain in one CAS and returns its head together
// with the buffer count and byte total observed at the instant of
// detachment. The detached chain is consistent; the counters can lag
// briefly if pushes race the detach and converge once those complete.
func (p *FreeBufferPool) Drain() (first *Buffer, count int, memSize int64) {
	for {
		old := p.head.Load()
		index := headIndex(old)
		if index == 0 {
			return nil, 0, 0
		}
		if p.head.CompareAndSwap(old, packHead(0, headVersion(old)+1)) {
			n := p.numBuffers.Load()
			m := p.memSize.Load()
			p.numBuffers.Add(-n)
			p.memSize.Add(-m)
			return p.lookup(index), int(n), m
		}
	}
}

// ReleaseAll empties the pool and hands every buffer's backing memory back
// to its MemorySource. Intended for shutdown.
func (p *FreeBufferPool) ReleaseAll() {
	for {
		b, ok := p.Pop()
		if !ok {
			return
		}
		b.release()
	}
}

// NumBuffers returns the best-effort buffer count.
func (p *FreeBufferPool) NumBuffers() int { return int(p.numBuffers.Load()) }

// MemSize returns the best-effort byte total held by the pool.
func (p *FreeBufferPool) MemSize() int64 { return p.memSize.Load() }

// PoolStats is a point-in-time snapshot of the pool's counters.
type PoolStats struct {
	NumBuffers int
	MemSize    int64
}

// Stats returns a best-effort counter snapshot.
func (p *FreeBufferPool) Stats() PoolStats {
	return PoolStats{
		NumBuffers: p.NumBuffers(),
		MemSize:    p.MemSize(),
	}
}

func (p *FreeBufferPool) String() string {
	return fmt.Sprintf("free buffer pool: buffers %d size %d", p.NumBuffers(), p.MemSize())
}
