package host

import (
	"sync"

	"github.com/cwbudde/algo-caf/device"
)

type hostContext struct {
	backend *Backend

	mu     sync.Mutex
	closed bool
}

func (c *hostContext) Device() device.DeviceInfo {
	return c.backend.device
}

func (c *hostContext) valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *hostContext) NewBuffer(flags device.MemFlags, size int) (device.Buffer, error) {
	if !c.valid() {
		return nil, &device.Error{Op: "clCreateBuffer", Status: device.StatusInvalidContext}
	}
	if size <= 0 || size%4 != 0 {
		return nil, &device.Error{Op: "clCreateBuffer", Status: device.StatusInvalidBufferSize}
	}
	if flags&(device.MemReadWrite|device.MemReadOnly|device.MemWriteOnly) == 0 {
		return nil, &device.Error{Op: "clCreateBuffer", Status: device.StatusInvalidValue}
	}
	if !c.backend.reserve(size) {
		return nil, &device.Error{Op: "clCreateBuffer", Status: device.StatusMemObjectAllocationFailure}
	}

	return &buffer{
		ctx:   c,
		flags: flags,
		data:  make([]float32, size/4),
	}, nil
}

func (c *hostContext) NewQueue() (device.Queue, error) {
	if !c.valid() {
		return nil, &device.Error{Op: "clCreateCommandQueue", Status: device.StatusInvalidContext}
	}
	c.backend.record(func(s *Stats) { s.LiveQueues++ })
	return &queue{ctx: c}, nil
}

func (c *hostContext) NewFFTPlan(desc device.PlanDescriptor) (device.FFTPlan, error) {
	const op = "clfftCreateDefaultPlan"

	if !c.valid() {
		return nil, &device.Error{Op: op, Status: device.StatusInvalidContext}
	}
	if !c.backend.initialized() {
		return nil, &device.Error{Op: op, Status: device.StatusInvalidOperation}
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if desc.Precision != device.PrecisionSingle {
		return nil, &device.Error{Op: op, Status: device.StatusDeviceNoDouble}
	}
	if desc.Dim != device.Dim1D ||
		desc.InputLayout != device.LayoutComplexInterleaved ||
		desc.OutputLayout != device.LayoutComplexInterleaved ||
		desc.Placement != device.PlacementInPlace {
		return nil, &device.Error{Op: op, Status: device.StatusNotImplemented}
	}
	if limit := c.backend.opts.MaxTransformLength; limit > 0 && desc.Len() > limit {
		return nil, &device.Error{Op: op, Status: device.StatusNotImplemented}
	}

	c.backend.record(func(s *Stats) { s.PlansCreated++ })

	desc.Lengths = append([]int(nil), desc.Lengths...)
	return &plan{ctx: c, desc: desc}, nil
}

func (c *hostContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return &device.Error{Op: "clReleaseContext", Status: device.StatusInvalidContext}
	}
	c.closed = true
	return nil
}
