// Package hostmem owns host-side staging memory for device transfers.
//
// On unix systems regions are page-aligned anonymous mappings released with
// munmap; elsewhere they live on the Go heap. Either way a Region is freed
// exactly once and the package keeps a live count for leak checks.
package hostmem

import (
	"errors"
	"sync/atomic"
)

// ErrInvalidSize is returned for non-positive allocation sizes.
var ErrInvalidSize = errors.New("hostmem: invalid size")

var live atomic.Int64

// Region is an owned block of float32 scalars.
type Region struct {
	data    []float32
	release func() error
}

// Alloc returns a zeroed region of n float32 scalars.
func Alloc(n int) (*Region, error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}

	data, release, err := allocFloats(n)
	if err != nil {
		return nil, err
	}
	live.Add(1)

	return &Region{data: data, release: release}, nil
}

// Float32s returns the region's storage. It is nil after Free.
func (r *Region) Float32s() []float32 {
	if r == nil {
		return nil
	}
	return r.data
}

// Len returns the number of scalars in the region.
func (r *Region) Len() int {
	if r == nil {
		return 0
	}
	return len(r.data)
}

// Free releases the region. Calling Free again is a no-op.
func (r *Region) Free() error {
	if r == nil || r.release == nil {
		return nil
	}
	release := r.release
	r.release = nil
	r.data = nil
	live.Add(-1)
	return release()
}

// Live reports how many regions are currently allocated.
func Live() int64 {
	return live.Load()
}
