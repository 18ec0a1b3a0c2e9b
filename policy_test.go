// SPDX-License-Identifier: Apache-2.0

package segarena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrowthPolicyDefaults(t *testing.T) {
	p := NewGrowthPolicy(8)
	require.Equal(t, 8, p.ElemSize())
	require.Equal(t, DefaultInitialCapacity, p.InitialCapacity())
	require.Equal(t, DefaultMaxCapacity, p.MaxCapacity())
	require.Equal(t, DefaultAlignment, p.Alignment())
	require.Empty(t, p.Category())
}

func TestGrowthPolicyDoublingClamped(t *testing.T) {
	p := NewGrowthPolicy(8, WithInitialCapacity(8), WithMaxCapacity(64))

	var got []int
	capacity := 0
	for i := 0; i < 6; i++ {
		capacity = p.NextCapacity(capacity)
		got = append(got, capacity)
	}
	require.Equal(t, []int{8, 16, 32, 64, 64, 64}, got)
}

func TestGrowthPolicyFlatGrowth(t *testing.T) {
	p := NewGrowthPolicy(8,
		WithInitialCapacity(8),
		WithMaxCapacity(64),
		WithGrowthFunc(FlatGrowth))

	capacity := 0
	for i := 0; i < 4; i++ {
		capacity = p.NextCapacity(capacity)
		require.Equal(t, 8, capacity)
	}
}

func TestGrowthPolicyCustomGrowthClamped(t *testing.T) {
	p := NewGrowthPolicy(8,
		WithInitialCapacity(16),
		WithMaxCapacity(100),
		WithGrowthFunc(func(prev, initial, max int) int { return prev * 10 }))

	require.Equal(t, 16, p.NextCapacity(0))
	require.Equal(t, 100, p.NextCapacity(16), "result above max must clamp")
	require.Equal(t, 16, p.NextCapacity(1), "result below initial must clamp")
}

func TestGrowthPolicyRoundsElemSizeToAlignment(t *testing.T) {
	p := NewGrowthPolicy(10, WithAlignment(8))
	require.Equal(t, 16, p.ElemSize())

	p = NewGrowthPolicy(16, WithAlignment(8))
	require.Equal(t, 16, p.ElemSize())

	p = NewGrowthPolicy(3, WithAlignment(1))
	require.Equal(t, 3, p.ElemSize())
}

func TestGrowthPolicyCategory(t *testing.T) {
	p := NewGrowthPolicy(8, WithCategory("card-set"))
	require.Equal(t, "card-set", p.Category())

	// The tag must not influence sizing.
	plain := NewGrowthPolicy(8)
	require.Equal(t, plain.ElemSize(), p.ElemSize())
	require.Equal(t, plain.NextCapacity(8), p.NextCapacity(8))
}

func TestGrowthPolicySanitizesDegenerateValues(t *testing.T) {
	p := NewGrowthPolicy(0, WithInitialCapacity(0), WithMaxCapacity(0), WithAlignment(0))
	require.Equal(t, 1, p.ElemSize())
	require.Equal(t, 1, p.InitialCapacity())
	require.Equal(t, 1, p.MaxCapacity())
	require.Equal(t, 1, p.Alignment())
	require.Equal(t, 1, p.NextCapacity(0))
}
