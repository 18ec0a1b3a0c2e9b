// SPDX-License-Identifier: Apache-2.0

package segarena

import "unsafe"

// GrowthPolicyFor derives a policy's element size and alignment from T.
// Options may still override either.
func GrowthPolicyFor[T any](opts ...GrowthOption) GrowthPolicy {
	var x T
	all := append([]GrowthOption{WithAlignment(int(unsafe.Alignof(x)))}, opts...)
	return NewGrowthPolicy(int(unsafe.Sizeof(x)), all...)
}

// Allocate returns a *T backed by one slot of the array. The slot reads as
// the zero value of T on first use after buffer (re)initialization. It
// panics if T does not fit the array's configured slot size.
func Allocate[T any](a *Array) (*T, error) {
	var x T
	if int(unsafe.Sizeof(x)) > a.ElemSize() {
		panic("segarena: element type larger than configured slot size")
	}
	p, err := a.Allocate()
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// IterateTyped applies visit to every allocated slot as a *T. Same
// caller-synchronization contract as Array.Iterate.
func IterateTyped[T any](a *Array, visit func(*T)) {
	a.Iterate(func(p unsafe.Pointer) {
		visit((*T)(p))
	})
}
