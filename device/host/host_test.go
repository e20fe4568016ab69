package host

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-caf/device"
)

func newReady(t *testing.T, opts Options) (*Backend, device.Context, device.Queue) {
	t.Helper()

	b := New(opts)
	if err := b.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	ctx, err := b.NewContext(0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	q, err := ctx.NewQueue()
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	t.Cleanup(func() {
		_ = q.Close()
		_ = ctx.Close()
		_ = b.Teardown()
	})
	return b, ctx, q
}

func wantStatus(t *testing.T, err error, want device.Status) {
	t.Helper()

	got, ok := device.StatusOf(err)
	if !ok {
		t.Fatalf("error %v carries no device status, want %s", err, want)
	}
	if got != want {
		t.Fatalf("status = %s, want %s", got, want)
	}
}

func TestHostBackendInfo(t *testing.T) {
	t.Parallel()

	b := New(Options{Name: "test", MemoryLimit: 8 << 20})
	devs, err := b.Devices()
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devs) != 1 || devs[0].Name != "test" || devs[0].MemoryMB != 8 {
		t.Errorf("Devices() = %+v", devs)
	}
	if devs[0].ComputeCap == "" {
		t.Error("ComputeCap should describe the host CPU")
	}
	if _, err := b.NewContext(1); err == nil {
		t.Error("NewContext(1) should fail")
	} else {
		wantStatus(t, err, device.StatusInvalidDevice)
	}
}

func TestHostBufferLifecycle(t *testing.T) {
	t.Parallel()

	b, ctx, q := newReady(t, Options{})

	buf, err := ctx.NewBuffer(device.MemReadWrite, 64)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	if buf.Size() != 64 {
		t.Errorf("Size() = %d, want 64", buf.Size())
	}

	src := []float32{1, 2, 3, 4}
	if err := q.EnqueueWrite(buf, true, 8, src); err != nil {
		t.Fatalf("EnqueueWrite: %v", err)
	}

	dst := make([]float32, 6)
	if err := q.EnqueueRead(buf, true, 0, dst); err != nil {
		t.Fatalf("EnqueueRead: %v", err)
	}
	want := []float32{0, 0, 1, 2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	st := b.Stats()
	if st.BytesWritten != 16 || st.BytesRead != 24 {
		t.Errorf("bytes written/read = %d/%d, want 16/24", st.BytesWritten, st.BytesRead)
	}
	if st.LiveBuffers != 1 || st.LiveBytes != 64 {
		t.Errorf("live = %d buffers / %d bytes, want 1 / 64", st.LiveBuffers, st.LiveBytes)
	}

	if err := buf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wantStatus(t, buf.Close(), device.StatusInvalidMemObject)
	wantStatus(t, q.EnqueueWrite(buf, true, 0, src), device.StatusInvalidMemObject)

	if st := b.Stats(); st.LiveBuffers != 0 || st.LiveBytes != 0 || st.Releases != 1 {
		t.Errorf("after Close: %+v", st)
	}
}

func TestHostTransferBounds(t *testing.T) {
	t.Parallel()

	_, ctx, q := newReady(t, Options{})
	buf, err := ctx.NewBuffer(device.MemReadWrite, 16)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer buf.Close()

	tests := []struct {
		name   string
		offset int
		n      int
	}{
		{"past end", 0, 5},
		{"offset past end", 12, 2},
		{"unaligned offset", 2, 1},
		{"negative offset", -4, 1},
		{"empty", 0, 0},
	}
	for _, tt := range tests {
		wantStatus(t, q.EnqueueWrite(buf, true, tt.offset, make([]float32, tt.n)), device.StatusInvalidValue)
		wantStatus(t, q.EnqueueRead(buf, true, tt.offset, make([]float32, tt.n)), device.StatusInvalidValue)
	}
}

func TestHostMemoryLimit(t *testing.T) {
	t.Parallel()

	b, ctx, _ := newReady(t, Options{MemoryLimit: 100})

	first, err := ctx.NewBuffer(device.MemReadWrite, 64)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	_, err = ctx.NewBuffer(device.MemReadWrite, 64)
	wantStatus(t, err, device.StatusMemObjectAllocationFailure)

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	again, err := ctx.NewBuffer(device.MemReadWrite, 64)
	if err != nil {
		t.Fatalf("NewBuffer after release: %v", err)
	}
	_ = again.Close()

	if st := b.Stats(); st.FailedAllocations != 1 || st.Allocations != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestHostInvalidBufferRequests(t *testing.T) {
	t.Parallel()

	_, ctx, _ := newReady(t, Options{})

	for _, size := range []int{0, -8, 6} {
		_, err := ctx.NewBuffer(device.MemReadWrite, size)
		wantStatus(t, err, device.StatusInvalidBufferSize)
	}
	_, err := ctx.NewBuffer(0, 16)
	wantStatus(t, err, device.StatusInvalidValue)
}

func TestHostPlanRequiresSetup(t *testing.T) {
	t.Parallel()

	b := New(Options{})
	ctx, err := b.NewContext(0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer ctx.Close()

	_, err = ctx.NewFFTPlan(device.Interleaved1D(8))
	wantStatus(t, err, device.StatusInvalidOperation)

	wantStatus(t, b.Teardown(), device.StatusInvalidOperation)
}

func TestHostPlanDescriptorChecks(t *testing.T) {
	t.Parallel()

	_, ctx, _ := newReady(t, Options{MaxTransformLength: 64})

	double := device.Interleaved1D(8)
	double.Precision = device.PrecisionDouble
	_, err := ctx.NewFFTPlan(double)
	wantStatus(t, err, device.StatusDeviceNoDouble)

	outOfPlace := device.Interleaved1D(8)
	outOfPlace.Placement = device.PlacementOutOfPlace
	_, err = ctx.NewFFTPlan(outOfPlace)
	wantStatus(t, err, device.StatusNotImplemented)

	_, err = ctx.NewFFTPlan(device.Interleaved1D(128))
	wantStatus(t, err, device.StatusNotImplemented)

	_, err = ctx.NewFFTPlan(device.PlanDescriptor{Dim: device.Dim1D, Lengths: []int{0}})
	if !errors.Is(err, device.ErrInvalidDescriptor) {
		t.Errorf("zero length error = %v, want ErrInvalidDescriptor", err)
	}
}

func TestHostPlanBakeAndEnqueue(t *testing.T) {
	t.Parallel()

	const n = 8
	b, ctx, q := newReady(t, Options{})

	p, err := ctx.NewFFTPlan(device.Interleaved1D(n))
	if err != nil {
		t.Fatalf("NewFFTPlan: %v", err)
	}
	defer p.Close()

	buf, err := ctx.NewBuffer(device.MemReadWrite, n*4*4)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer buf.Close()

	wantStatus(t, p.Enqueue(q, device.Forward, buf), device.StatusInvalidPlan)

	if err := p.Bake(q); err != nil {
		t.Fatalf("Bake: %v", err)
	}

	impulse := make([]float32, 2*n)
	impulse[0] = 1
	if err := q.EnqueueWrite(buf, true, 0, impulse); err != nil {
		t.Fatalf("EnqueueWrite: %v", err)
	}
	if err := p.Enqueue(q, device.Forward, buf); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	out := make([]float32, 4*n)
	if err := q.EnqueueRead(buf, true, 0, out); err != nil {
		t.Fatalf("EnqueueRead: %v", err)
	}
	for k := range n {
		re, im := out[2*k], out[2*k+1]
		if math.Abs(float64(re)-1) > 1e-6 || math.Abs(float64(im)) > 1e-6 {
			t.Errorf("X[%d] = (%v, %v), want (1, 0)", k, re, im)
		}
	}
	for i := 2 * n; i < 4*n; i++ {
		if out[i] != 0 {
			t.Errorf("working space scalar %d = %v, want 0", i, out[i])
		}
	}

	wantStatus(t, p.Enqueue(q, device.Direction(0), buf), device.StatusInvalidValue)

	st := b.Stats()
	if st.Bakes != 1 || st.Enqueues != 1 || st.Forward != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestHostPlanQueueMismatch(t *testing.T) {
	t.Parallel()

	b, ctx, q := newReady(t, Options{})

	p, err := ctx.NewFFTPlan(device.Interleaved1D(4))
	if err != nil {
		t.Fatalf("NewFFTPlan: %v", err)
	}
	defer p.Close()

	otherCtx, err := b.NewContext(0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer otherCtx.Close()
	otherQ, err := otherCtx.NewQueue()
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	defer otherQ.Close()

	wantStatus(t, p.Bake(otherQ), device.StatusDeviceMismatch)

	if err := p.Bake(q); err != nil {
		t.Fatalf("Bake: %v", err)
	}

	foreign, err := otherCtx.NewBuffer(device.MemReadWrite, 64)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer foreign.Close()
	wantStatus(t, p.Enqueue(q, device.Forward, foreign), device.StatusInvalidContext)

	small, err := ctx.NewBuffer(device.MemReadWrite, 16)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer small.Close()
	wantStatus(t, p.Enqueue(q, device.Forward, small), device.StatusInvalidBufferSize)

	second, err := ctx.NewQueue()
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	defer second.Close()
	big, err := ctx.NewBuffer(device.MemReadWrite, 64)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer big.Close()
	wantStatus(t, p.Enqueue(second, device.Forward, big), device.StatusDeviceMismatch)
}

func TestHostReleasedHandles(t *testing.T) {
	t.Parallel()

	b, ctx, _ := newReady(t, Options{})

	q, err := ctx.NewQueue()
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	buf, err := ctx.NewBuffer(device.MemReadWrite, 16)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	defer buf.Close()

	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wantStatus(t, q.Close(), device.StatusInvalidCommandQueue)
	wantStatus(t, q.Finish(), device.StatusInvalidCommandQueue)
	wantStatus(t, q.EnqueueWrite(buf, true, 0, []float32{1}), device.StatusInvalidCommandQueue)

	p, err := ctx.NewFFTPlan(device.Interleaved1D(2))
	if err != nil {
		t.Fatalf("NewFFTPlan: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("plan Close: %v", err)
	}
	wantStatus(t, p.Close(), device.StatusInvalidPlan)

	if st := b.Stats(); st.LivePlans() != 0 {
		t.Errorf("LivePlans() = %d, want 0", st.LivePlans())
	}
}
