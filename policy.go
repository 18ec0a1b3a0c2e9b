// SPDX-License-Identifier: Apache-2.0

package segarena

import "math"

const (
	// DefaultInitialCapacity is the slot count of the first buffer when no
	// option overrides it.
	DefaultInitialCapacity = 8

	// DefaultMaxCapacity bounds buffer growth when no option overrides it.
	DefaultMaxCapacity = math.MaxInt32 / 2

	// DefaultAlignment is the slot alignment when no option overrides it.
	DefaultAlignment = 4
)

// GrowthFunc computes the capacity of the buffer that follows one of prev
// slots. The policy clamps the result into [initial, max], so a rule only
// has to express its shape.
type GrowthFunc func(prev, initial, max int) int

// ExponentialGrowth doubles the previous capacity. This is the default.
func ExponentialGrowth(prev, initial, max int) int {
	return prev * 2
}

// FlatGrowth sizes every buffer at the initial capacity.
func FlatGrowth(prev, initial, max int) int {
	return initial
}

// GrowthPolicy is the immutable sizing rule for one Array: element size,
// alignment, initial and maximum buffer capacity, and how capacity grows
// from one buffer to the next. The category tag is carried for diagnostic
// grouping only and never affects allocation.
type GrowthPolicy struct {
	elemSize  int
	initial   int
	max       int
	alignment int
	category  string
	grow      GrowthFunc
}

// GrowthOption configures a GrowthPolicy.
type GrowthOption func(*GrowthPolicy)

// WithInitialCapacity sets the slot count of the first buffer.
func WithInitialCapacity(n int) GrowthOption {
	return func(p *GrowthPolicy) { p.initial = n }
}

// WithMaxCapacity caps the slot count of any buffer.
func WithMaxCapacity(n int) GrowthOption {
	return func(p *GrowthPolicy) { p.max = n }
}

// WithAlignment sets the slot alignment in bytes.
func WithAlignment(n int) GrowthOption {
	return func(p *GrowthPolicy) { p.alignment = n }
}

// WithCategory attaches a diagnostic category tag.
func WithCategory(tag string) GrowthOption {
	return func(p *GrowthPolicy) { p.category = tag }
}

// WithGrowthFunc selects the capacity growth rule.
func WithGrowthFunc(f GrowthFunc) GrowthOption {
	return func(p *GrowthPolicy) { p.grow = f }
}

// NewGrowthPolicy builds a policy for elements of elemSize bytes. The
// element size is rounded up to a multiple of the alignment so that every
// slot boundary is aligned, not just the first.
func NewGrowthPolicy(elemSize int, opts ...GrowthOption) GrowthPolicy {
	p := GrowthPolicy{
		elemSize:  elemSize,
		initial:   DefaultInitialCapacity,
		max:       DefaultMaxCapacity,
		alignment: DefaultAlignment,
		grow:      ExponentialGrowth,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.elemSize < 1 {
		p.elemSize = 1
	}
	if p.alignment < 1 {
		p.alignment = 1
	}
	if rem := p.elemSize % p.alignment; rem != 0 {
		p.elemSize += p.alignment - rem
	}
	if p.initial < 1 {
		p.initial = 1
	}
	if p.max < p.initial {
		p.max = p.initial
	}
	if p.grow == nil {
		p.grow = ExponentialGrowth
	}
	return p
}

// NextCapacity returns the slot count for the buffer following one of prev
// slots. A prev of zero means no buffer exists yet and yields the initial
// capacity.
func (p GrowthPolicy) NextCapacity(prev int) int {
	if prev == 0 {
		return p.initial
	}
	n := p.grow(prev, p.initial, p.max)
	if n < p.initial {
		n = p.initial
	}
	if n > p.max {
		n = p.max
	}
	return n
}

// ElemSize returns the slot size in bytes, after alignment rounding.
func (p GrowthPolicy) ElemSize() int { return p.elemSize }

// InitialCapacity returns the slot count of the first buffer.
func (p GrowthPolicy) InitialCapacity() int { return p.initial }

// MaxCapacity returns the largest permitted buffer slot count.
func (p GrowthPolicy) MaxCapacity() int { return p.max }

// Alignment returns the slot alignment in bytes.
func (p GrowthPolicy) Alignment() int { return p.alignment }

// Category returns the diagnostic category tag, possibly empty.
func (p GrowthPolicy) Category() string { return p.category }
