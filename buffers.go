package algocaf

import (
	"fmt"

	"github.com/cwbudde/algo-caf/device"
)

// BufferPair owns the two equally sized device buffers of a PlanContext.
type BufferPair struct {
	slots [2]device.Buffer
	size  int
}

// allocateBufferPair allocates two read-write buffers of n*4 float32 scalars.
// If the second allocation fails the first is released before returning.
func allocateBufferPair(ctx device.Context, n int) (*BufferPair, error) {
	size := n * ScalarsPerSample * scalarSize

	var pair BufferPair
	pair.size = size
	for i := range pair.slots {
		buf, err := ctx.NewBuffer(device.MemReadWrite, size)
		if err != nil {
			_ = pair.Close()
			return nil, fmt.Errorf("%w: slot %d (%d bytes): %w", ErrAllocation, i, size, err)
		}
		pair.slots[i] = buf
	}

	return &pair, nil
}

// Select returns the buffer for slot. It never returns a nil buffer with a nil error.
func (p *BufferPair) Select(slot Slot) (device.Buffer, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelector, int(slot))
	}
	if p == nil || p.slots[slot] == nil {
		return nil, ErrClosed
	}
	return p.slots[slot], nil
}

// Size returns the byte size of each buffer.
func (p *BufferPair) Size() int {
	return p.size
}

// Close releases both buffers. Released slots are cleared, so repeated
// calls never release a device buffer twice.
func (p *BufferPair) Close() error {
	if p == nil {
		return nil
	}
	var firstErr error
	for i, buf := range p.slots {
		if buf == nil {
			continue
		}
		if err := buf.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.slots[i] = nil
	}
	return firstErr
}
