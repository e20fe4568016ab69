package host

import (
	"sync"

	"github.com/cwbudde/algo-caf/device"
)

// queue executes every command at enqueue time, so blocking and
// non-blocking transfers behave the same and Finish has nothing to wait for.
type queue struct {
	ctx *hostContext

	mu       sync.Mutex
	released bool
}

func (q *queue) valid() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.released
}

func (q *queue) EnqueueWrite(buf device.Buffer, _ bool, offset int, src []float32) error {
	const op = "clEnqueueWriteBuffer"

	if !q.valid() {
		return &device.Error{Op: op, Status: device.StatusInvalidCommandQueue}
	}
	hb, err := resolveBuffer(q.ctx, buf, op)
	if err != nil {
		return err
	}
	if len(src) == 0 {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}

	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.released {
		return &device.Error{Op: op, Status: device.StatusInvalidMemObject}
	}
	if !inBounds(offset, len(src), len(hb.data)) {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}

	copy(hb.data[offset/4:], src)
	q.ctx.backend.record(func(s *Stats) {
		s.Writes++
		s.BytesWritten += len(src) * 4
	})
	return nil
}

func (q *queue) EnqueueRead(buf device.Buffer, _ bool, offset int, dst []float32) error {
	const op = "clEnqueueReadBuffer"

	if !q.valid() {
		return &device.Error{Op: op, Status: device.StatusInvalidCommandQueue}
	}
	hb, err := resolveBuffer(q.ctx, buf, op)
	if err != nil {
		return err
	}
	if len(dst) == 0 {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}

	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.released {
		return &device.Error{Op: op, Status: device.StatusInvalidMemObject}
	}
	if !inBounds(offset, len(dst), len(hb.data)) {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}

	copy(dst, hb.data[offset/4:offset/4+len(dst)])
	q.ctx.backend.record(func(s *Stats) {
		s.Reads++
		s.BytesRead += len(dst) * 4
	})
	return nil
}

func (q *queue) Finish() error {
	if !q.valid() {
		return &device.Error{Op: "clFinish", Status: device.StatusInvalidCommandQueue}
	}
	return nil
}

func (q *queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.released {
		return &device.Error{Op: "clReleaseCommandQueue", Status: device.StatusInvalidCommandQueue}
	}
	q.released = true
	q.ctx.backend.record(func(s *Stats) { s.LiveQueues-- })
	return nil
}

// inBounds reports whether count scalars starting at byte offset fit in size scalars.
func inBounds(offset, count, size int) bool {
	if offset < 0 || offset%4 != 0 {
		return false
	}
	return offset/4+count <= size
}

// resolveQueue checks that q is a live host queue of ctx.
func resolveQueue(ctx *hostContext, q device.Queue, op string) (*queue, error) {
	hq, ok := q.(*queue)
	if !ok || hq == nil || !hq.valid() {
		return nil, &device.Error{Op: op, Status: device.StatusInvalidCommandQueue}
	}
	if hq.ctx != ctx {
		return nil, &device.Error{Op: op, Status: device.StatusDeviceMismatch}
	}
	return hq, nil
}
