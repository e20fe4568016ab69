package algocaf

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-caf/device"
	"github.com/cwbudde/algo-caf/device/host"
)

// Shared test helper functions used across multiple test files

type hostDevice struct {
	backend *host.Backend
	ctx     device.Context
	queue   device.Queue
}

func newHostDevice(t *testing.T, opts host.Options) *hostDevice {
	t.Helper()

	b := host.New(opts)
	lib, err := device.Acquire(b)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
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
		_ = lib.Close()
	})

	return &hostDevice{backend: b, ctx: ctx, queue: q}
}

func newTestPlanContext(t *testing.T, n int) (*PlanContext, *hostDevice) {
	t.Helper()

	dev := newHostDevice(t, host.Options{})
	pc, err := NewPlanContext(dev.ctx, dev.queue, n)
	if err != nil {
		t.Fatalf("NewPlanContext(%d): %v", n, err)
	}
	t.Cleanup(func() { _ = pc.Close() })

	return pc, dev
}

// squareWave builds the interleaved pattern x[i] = (i+1) mod 2 over 2n scalars.
func squareWave(n int) []float32 {
	x := make([]float32, 2*n)
	for i := range x {
		x[i] = float32((i + 1) % 2)
	}
	return x
}

func rampSignal(n int, scale float32) []float32 {
	x := make([]float32, 2*n)
	for i := range n {
		x[2*i] = scale * float32(i+1)
		x[2*i+1] = scale * float32(n-i) / 2
	}
	return x
}

func assertApproxFloat32Tolf(t *testing.T, got, want float32, tol float64, format string, args ...any) {
	t.Helper()

	if diff := math.Abs(float64(got) - float64(want)); diff > tol {
		t.Fatalf(format+": got %v want %v (diff=%v)", append(args, got, want, diff)...)
	}
}
