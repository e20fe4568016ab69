package host

import (
	"sync"
	"unsafe"

	"github.com/cwbudde/algo-caf/device"
)

type buffer struct {
	ctx   *hostContext
	flags device.MemFlags

	mu       sync.Mutex
	data     []float32
	released bool
}

func (b *buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) * 4
}

func (b *buffer) Flags() device.MemFlags {
	return b.flags
}

func (b *buffer) Close() error {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return &device.Error{Op: "clReleaseMemObject", Status: device.StatusInvalidMemObject}
	}
	size := len(b.data) * 4
	b.released = true
	b.data = nil
	b.mu.Unlock()

	b.ctx.backend.unreserve(size)
	return nil
}

// complexView reinterprets the first n interleaved (re, im) pairs as complex64.
// The caller holds b.mu.
func (b *buffer) complexView(n int) []complex64 {
	return unsafe.Slice((*complex64)(unsafe.Pointer(&b.data[0])), n)
}

// resolveBuffer checks that buf is a live host buffer of ctx.
func resolveBuffer(ctx *hostContext, buf device.Buffer, op string) (*buffer, error) {
	hb, ok := buf.(*buffer)
	if !ok || hb == nil {
		return nil, &device.Error{Op: op, Status: device.StatusInvalidMemObject}
	}
	if hb.ctx != ctx {
		return nil, &device.Error{Op: op, Status: device.StatusInvalidContext}
	}
	return hb, nil
}
