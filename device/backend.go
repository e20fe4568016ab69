package device

import "sync"

// Backend is implemented by device backends (host CPU, OpenCL, ...).
// It is responsible for device discovery, context creation and FFT library setup.
type Backend interface {
	Info() BackendInfo
	Available() bool
	Devices() ([]DeviceInfo, error)
	NewContext(deviceIndex int) (Context, error)
	// Setup initializes the backend's FFT library. It is called once per
	// process-wide acquisition cycle; see Acquire.
	Setup() error
	// Teardown releases the FFT library after the last Library is closed.
	Teardown() error
}

// Context represents a compute context tied to one device.
type Context interface {
	Device() DeviceInfo
	// NewBuffer allocates size bytes of device memory.
	NewBuffer(flags MemFlags, size int) (Buffer, error)
	// NewQueue creates an in-order command queue on the context's device.
	NewQueue() (Queue, error)
	// NewFFTPlan creates an unbaked FFT plan. Plans must be baked against a
	// queue before they can be enqueued.
	NewFFTPlan(desc PlanDescriptor) (FFTPlan, error)
	Close() error
}

// Queue is an in-order command queue. Offsets and sizes are in bytes of
// device memory; host slices are float32 scalars.
type Queue interface {
	// EnqueueWrite copies src into buf at byte offset. With blocking set the
	// call returns after the device owns the data.
	EnqueueWrite(buf Buffer, blocking bool, offset int, src []float32) error
	// EnqueueRead copies len(dst) scalars from buf at byte offset into dst.
	EnqueueRead(buf Buffer, blocking bool, offset int, dst []float32) error
	Finish() error
	Close() error
}

// Buffer is a device memory object.
type Buffer interface {
	// Size returns the allocation size in bytes.
	Size() int
	Flags() MemFlags
	Close() error
}

// FFTPlan is a compiled, size-specialized transform.
type FFTPlan interface {
	Descriptor() PlanDescriptor
	// Bake compiles the plan for q. It is the expensive step.
	Bake(q Queue) error
	// Enqueue runs the plan on buf in the given direction. The buffer and
	// direction are runtime parameters; one baked plan serves both.
	Enqueue(q Queue, dir Direction, buf Buffer) error
	Close() error
}

var (
	backendMu sync.RWMutex
	backend   Backend
)

// RegisterBackend registers a device backend. Passing nil clears the backend.
func RegisterBackend(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// CurrentBackendInfo reports the currently registered backend, if any.
func CurrentBackendInfo() (BackendInfo, bool) {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	if b == nil {
		return BackendInfo{}, false
	}
	return b.Info(), true
}

// CurrentBackend returns the registered backend or ErrNoBackend.
func CurrentBackend() (Backend, error) {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	if b == nil {
		return nil, ErrNoBackend
	}
	return b, nil
}
