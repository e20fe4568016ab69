// Package host implements the device API on the CPU.
//
// Device memory is ordinary float32 storage owned by the backend, queues
// execute commands synchronously in submission order, and baked plans run
// on the internal FFT engine. The backend accounts for every allocation,
// bake, enqueue and transferred byte, which makes it the reference device
// for lifecycle tests.
package host

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-caf/device"
	"github.com/cwbudde/algo-caf/internal/fft"
)

// Options configures a host backend.
type Options struct {
	// Name overrides the reported device name.
	Name string

	// MemoryLimit caps the total bytes of live device buffers (0 = unlimited).
	// Allocations beyond it fail with StatusMemObjectAllocationFailure.
	MemoryLimit int

	// MaxTransformLength rejects plans longer than this (0 = unlimited)
	// with StatusNotImplemented.
	MaxTransformLength int
}

// Backend is a CPU-backed device backend with a single device.
type Backend struct {
	opts   Options
	device device.DeviceInfo

	mu    sync.Mutex
	ready bool
	used  int
	stats Stats
}

// New returns a host backend.
func New(opts Options) *Backend {
	name := opts.Name
	if name == "" {
		name = "HostCPU"
	}

	memMB := 0
	if opts.MemoryLimit > 0 {
		memMB = opts.MemoryLimit >> 20
	}

	return &Backend{
		opts: opts,
		device: device.DeviceInfo{
			Name:       name,
			Vendor:     "algocaf",
			Driver:     "host",
			MemoryMB:   memMB,
			ComputeCap: fft.DetectFeatures().String(),
		},
	}
}

func (b *Backend) Info() device.BackendInfo {
	return device.BackendInfo{
		Name:        "host",
		Version:     "1.0",
		Description: "CPU-backed device with synchronous queues",
	}
}

func (b *Backend) Available() bool {
	return true
}

func (b *Backend) Devices() ([]device.DeviceInfo, error) {
	return []device.DeviceInfo{b.device}, nil
}

func (b *Backend) NewContext(deviceIndex int) (device.Context, error) {
	if deviceIndex != 0 {
		return nil, fmt.Errorf("host backend: device index %d out of range: %w", deviceIndex,
			&device.Error{Op: "clCreateContext", Status: device.StatusInvalidDevice})
	}
	b.mu.Lock()
	b.stats.Contexts++
	b.mu.Unlock()
	return &hostContext{backend: b}, nil
}

// Setup initializes the FFT library. Plans can only be created in between
// Setup and Teardown.
func (b *Backend) Setup() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return &device.Error{Op: "clfftSetup", Status: device.StatusInvalidOperation}
	}
	b.ready = true
	b.stats.Setups++
	return nil
}

// Teardown releases the FFT library.
func (b *Backend) Teardown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return &device.Error{Op: "clfftTeardown", Status: device.StatusInvalidOperation}
	}
	b.ready = false
	b.stats.Teardowns++
	return nil
}

// Register registers a host backend with default options as the active backend.
func Register() *Backend {
	b := New(Options{})
	device.RegisterBackend(b)
	return b
}

func (b *Backend) initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// reserve accounts size bytes against the memory limit.
func (b *Backend) reserve(size int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.opts.MemoryLimit > 0 && b.used+size > b.opts.MemoryLimit {
		b.stats.FailedAllocations++
		return false
	}
	b.used += size
	b.stats.Allocations++
	b.stats.LiveBuffers++
	b.stats.LiveBytes = b.used
	return true
}

func (b *Backend) unreserve(size int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used -= size
	b.stats.Releases++
	b.stats.LiveBuffers--
	b.stats.LiveBytes = b.used
}

func (b *Backend) record(fn func(*Stats)) {
	b.mu.Lock()
	fn(&b.stats)
	b.mu.Unlock()
}
