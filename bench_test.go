// SPDX-License-Identifier: Apache-2.0

package segarena

import "testing"

func BenchmarkArrayAllocate(b *testing.B) {
	pool := NewFreeBufferPool()
	policy := NewGrowthPolicy(16, WithInitialCapacity(1024), WithMaxCapacity(64*1024))
	arr := NewArray("bench", policy, pool)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := arr.Allocate(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkArrayAllocateParallel(b *testing.B) {
	pool := NewFreeBufferPool()
	policy := NewGrowthPolicy(16, WithInitialCapacity(1024), WithMaxCapacity(64*1024))
	arr := NewArray("bench-parallel", policy, pool)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := arr.Allocate(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkArrayAllocateRecycled(b *testing.B) {
	pool := NewFreeBufferPool()
	policy := NewGrowthPolicy(16, WithInitialCapacity(1024), WithGrowthFunc(FlatGrowth))
	arr := NewArray("bench-recycled", policy, pool)

	// Steady state: every buffer comes back out of the pool.
	const batch = 16 * 1024
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := arr.Allocate(); err != nil {
			b.Fatal(err)
		}
		if (i+1)%batch == 0 {
			arr.DropAll()
		}
	}
}

func BenchmarkFreeBufferPoolPushPop(b *testing.B) {
	pool := NewFreeBufferPool()
	buf, err := NewBuffer(16, 1024, DefaultAlignment, nil, HeapSource())
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Push(buf)
		if _, ok := pool.Pop(); !ok {
			b.Fatal("pop failed")
		}
	}
}
