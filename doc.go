// SPDX-License-Identifier: Apache-2.0

// Package segarena implements a segmented arena allocator for fixed-size
// elements: many independent owners continuously allocate small records of
// one uniform size, individual records are never freed, and entire buffer
// chains are reclaimed in bulk during a synchronized phase.
//
// The allocator has three layers:
//
//   - Buffer: a fixed-capacity slab allocated with a single atomic bump of
//     a monotonic index.
//   - FreeBufferPool: a lock-free stack of currently unowned buffers,
//     shared between any number of owners of the same element category, so
//     reclaimed memory is recycled instead of returned to the system.
//   - Array: the per-owner buffer chain. Allocation bumps the newest
//     buffer; on exhaustion a single CAS arbitrates which caller installs
//     the next buffer, taken from the pool or freshly acquired using a
//     GrowthPolicy.
//
// Typical usage:
//
//	pool := segarena.NewFreeBufferPool()
//	arr := segarena.NewArray("remset", segarena.GrowthPolicyFor[Entry](), pool)
//
//	e, err := segarena.Allocate[Entry](arr)
//	...
//	arr.DropAll() // synchronized phase: whole chain back to the pool
//
// Allocate is safe for concurrent use by any number of goroutines; the
// fast path never blocks. DropAll and Iterate require the caller to rule
// out concurrent allocation on the same Array. Raw memory is obtained
// through an injected MemorySource, so callers can substitute mmap-backed
// or instrumented sources for the default Go-heap one.
package segarena
