// SPDX-License-Identifier: Apache-2.0

//go:build linux

package segarena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapSource returns a MemorySource backed by anonymous private mappings.
// Buffers acquired from it live outside the Go heap and are returned to
// the operating system on Release.
func MmapSource() MemorySource { return mmapSource{} }

type mmapSource struct{}

func (mmapSource) Acquire(size, alignment int) ([]byte, error) {
	if page := unix.Getpagesize(); alignment > page {
		return nil, fmt.Errorf("segarena: alignment %d exceeds page size %d", alignment, page)
	}
	// Mappings are page aligned, which covers any supported alignment.
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("segarena: mmap %d bytes: %w", size, err)
	}
	return buf, nil
}

func (mmapSource) Release(buf []byte) {
	if buf == nil {
		return
	}
	_ = unix.Munmap(buf)
}
