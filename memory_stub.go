// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package segarena

// MmapSource falls back to the Go heap on platforms without mmap support.
func MmapSource() MemorySource { return heapSource{} }
