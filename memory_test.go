// SPDX-License-Identifier: Apache-2.0

package segarena

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func sliceAddr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}

// failingSource refuses every acquisition, to exercise the slow-path
// failure handling.
type failingSource struct{}

func (failingSource) Acquire(size, alignment int) ([]byte, error) {
	return nil, errors.New("no memory")
}

func (failingSource) Release([]byte) {}

// recordingSource wraps the heap source and counts acquire/release calls.
type recordingSource struct {
	acquired int
	released int
}

func (s *recordingSource) Acquire(size, alignment int) ([]byte, error) {
	s.acquired++
	return heapSource{}.Acquire(size, alignment)
}

func (s *recordingSource) Release(buf []byte) {
	s.released++
}

func TestHeapSourceAlignment(t *testing.T) {
	src := HeapSource()
	for _, alignment := range []int{1, 2, 4, 8, 16, 64} {
		buf, err := src.Acquire(256, alignment)
		require.NoError(t, err)
		require.Len(t, buf, 256)
		require.Zero(t, sliceAddr(buf)%uintptr(alignment))
		for _, c := range buf {
			require.Zero(t, c)
		}
	}
}

func TestMmapSourceRoundTrip(t *testing.T) {
	src := MmapSource()
	buf, err := src.Acquire(4096, 8)
	require.NoError(t, err)
	require.Len(t, buf, 4096)
	require.Zero(t, sliceAddr(buf)%8)

	// The region must be writable until released.
	for i := range buf {
		buf[i] = byte(i)
	}
	src.Release(buf)
}
