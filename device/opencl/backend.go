//go:build linux || darwin

package opencl

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/cwbudde/algo-caf/device"
)

func check(op string, code int32) error {
	return device.Check(op, device.Status(code))
}

type clDevice struct {
	platform uintptr
	id       uintptr
	info     device.DeviceInfo
}

// Backend exposes every OpenCL device of every platform, in platform order.
type Backend struct {
	once    sync.Once
	devices []clDevice
	err     error

	mu      sync.Mutex
	ready   bool
	version string
}

// New returns an OpenCL backend. Libraries are loaded on first use.
func New() *Backend {
	return &Backend{}
}

// Register registers a new OpenCL backend as the active backend.
func Register() *Backend {
	b := New()
	device.RegisterBackend(b)
	return b
}

func (b *Backend) Info() device.BackendInfo {
	b.mu.Lock()
	version := b.version
	b.mu.Unlock()
	return device.BackendInfo{
		Name:        "opencl",
		Version:     version,
		Description: "OpenCL devices with clFFT plans",
	}
}

func (b *Backend) Available() bool {
	devs, err := b.enumerate()
	return err == nil && len(devs) > 0
}

func (b *Backend) Devices() ([]device.DeviceInfo, error) {
	devs, err := b.enumerate()
	if err != nil {
		return nil, err
	}
	out := make([]device.DeviceInfo, len(devs))
	for i, d := range devs {
		out[i] = d.info
	}
	return out, nil
}

func (b *Backend) enumerate() ([]clDevice, error) {
	b.once.Do(func() {
		if err := load(); err != nil {
			b.err = fmt.Errorf("%w: %w", device.ErrBackendUnavailable, err)
			return
		}
		b.devices, b.err = discover()
	})
	return b.devices, b.err
}

func discover() ([]clDevice, error) {
	var numPlatforms uint32
	if err := check("clGetPlatformIDs", clGetPlatformIDs(0, nil, &numPlatforms)); err != nil {
		return nil, err
	}
	if numPlatforms == 0 {
		return nil, nil
	}
	platforms := make([]uintptr, numPlatforms)
	if err := check("clGetPlatformIDs", clGetPlatformIDs(numPlatforms, &platforms[0], nil)); err != nil {
		return nil, err
	}

	var devices []clDevice
	for _, p := range platforms {
		var n uint32
		status := device.Status(clGetDeviceIDs(p, clDeviceTypeAll, 0, nil, &n))
		if status == device.StatusDeviceNotFound || n == 0 {
			continue
		}
		if err := device.Check("clGetDeviceIDs", status); err != nil {
			return nil, err
		}
		ids := make([]uintptr, n)
		if err := check("clGetDeviceIDs", clGetDeviceIDs(p, clDeviceTypeAll, n, &ids[0], nil)); err != nil {
			return nil, err
		}
		for _, id := range ids {
			info, err := deviceInfo(id)
			if err != nil {
				return nil, err
			}
			devices = append(devices, clDevice{platform: p, id: id, info: info})
		}
	}
	return devices, nil
}

func deviceInfo(id uintptr) (device.DeviceInfo, error) {
	var info device.DeviceInfo
	var err error
	if info.Name, err = deviceString(id, clDeviceName); err != nil {
		return info, err
	}
	if info.Vendor, err = deviceString(id, clDeviceVendor); err != nil {
		return info, err
	}
	if info.Driver, err = deviceString(id, clDriverVersion); err != nil {
		return info, err
	}
	if info.ComputeCap, err = deviceString(id, clDeviceVersion); err != nil {
		return info, err
	}

	var mem uint64
	if err := check("clGetDeviceInfo", clGetDeviceInfo(id, clDeviceGlobalMemSize, unsafe.Sizeof(mem), unsafe.Pointer(&mem), nil)); err != nil {
		return info, err
	}
	info.MemoryMB = int(mem >> 20)
	return info, nil
}

func deviceString(id uintptr, param uint32) (string, error) {
	var size uintptr
	if err := check("clGetDeviceInfo", clGetDeviceInfo(id, param, 0, nil, &size)); err != nil {
		return "", err
	}
	if size == 0 {
		return "", nil
	}
	buf := make([]byte, size)
	if err := check("clGetDeviceInfo", clGetDeviceInfo(id, param, size, unsafe.Pointer(&buf[0]), nil)); err != nil {
		return "", err
	}
	return cString(buf), nil
}

func (b *Backend) NewContext(deviceIndex int) (device.Context, error) {
	devs, err := b.enumerate()
	if err != nil {
		return nil, err
	}
	if deviceIndex < 0 || deviceIndex >= len(devs) {
		return nil, fmt.Errorf("opencl: device index %d out of range (%d devices): %w", deviceIndex, len(devs),
			&device.Error{Op: "clCreateContext", Status: device.StatusInvalidDevice})
	}
	d := devs[deviceIndex]

	props := []uintptr{clContextPlatform, d.platform, 0}
	id := d.id
	var code int32
	handle := clCreateContext(&props[0], 1, &id, 0, 0, &code)
	if err := check("clCreateContext", code); err != nil {
		return nil, err
	}
	return &clContext{handle: handle, dev: d}, nil
}

// Setup initializes clFFT with the version reported by the loaded library.
func (b *Backend) Setup() error {
	if _, err := b.enumerate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return &device.Error{Op: "clfftSetup", Status: device.StatusInvalidOperation}
	}

	var sd setupData
	if err := check("clfftGetVersion", clfftGetVersion(&sd.major, &sd.minor, &sd.patch)); err != nil {
		return err
	}
	if err := check("clfftSetup", clfftSetup(&sd)); err != nil {
		return err
	}
	b.ready = true
	b.version = fmt.Sprintf("clFFT %d.%d.%d", sd.major, sd.minor, sd.patch)
	return nil
}

// Teardown releases clFFT.
func (b *Backend) Teardown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return &device.Error{Op: "clfftTeardown", Status: device.StatusInvalidOperation}
	}
	b.ready = false
	return check("clfftTeardown", clfftTeardown())
}

type clContext struct {
	handle uintptr
	dev    clDevice

	mu     sync.Mutex
	closed bool
}

func (c *clContext) Device() device.DeviceInfo {
	return c.dev.info
}

func (c *clContext) live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *clContext) NewBuffer(flags device.MemFlags, size int) (device.Buffer, error) {
	if !c.live() {
		return nil, &device.Error{Op: "clCreateBuffer", Status: device.StatusInvalidContext}
	}
	if size <= 0 || size%4 != 0 {
		return nil, &device.Error{Op: "clCreateBuffer", Status: device.StatusInvalidBufferSize}
	}

	var code int32
	mem := clCreateBuffer(c.handle, uint64(flags), uintptr(size), nil, &code)
	if err := check("clCreateBuffer", code); err != nil {
		return nil, err
	}
	return &buffer{ctx: c, mem: mem, size: size, flags: flags}, nil
}

func (c *clContext) NewQueue() (device.Queue, error) {
	if !c.live() {
		return nil, &device.Error{Op: "clCreateCommandQueue", Status: device.StatusInvalidContext}
	}
	var code int32
	q := clCreateCommandQueue(c.handle, c.dev.id, 0, &code)
	if err := check("clCreateCommandQueue", code); err != nil {
		return nil, err
	}
	return &queue{ctx: c, handle: q}, nil
}

func (c *clContext) NewFFTPlan(desc device.PlanDescriptor) (device.FFTPlan, error) {
	if !c.live() {
		return nil, &device.Error{Op: "clfftCreateDefaultPlan", Status: device.StatusInvalidContext}
	}
	p, err := translate(desc)
	if err != nil {
		return nil, err
	}

	var handle uintptr
	if err := check("clfftCreateDefaultPlan", clfftCreateDefaultPlan(&handle, c.handle, p.dim, &p.lengths[0])); err != nil {
		return nil, err
	}
	pl := &plan{ctx: c, handle: handle, desc: desc}

	setters := []struct {
		op   string
		call func() int32
	}{
		{"clfftSetPlanPrecision", func() int32 { return clfftSetPlanPrecision(handle, p.precision) }},
		{"clfftSetLayout", func() int32 { return clfftSetLayout(handle, p.inLayout, p.outLayout) }},
		{"clfftSetResultLocation", func() int32 { return clfftSetResultLocation(handle, p.placement) }},
	}
	for _, s := range setters {
		if err := check(s.op, s.call()); err != nil {
			_ = pl.Close()
			return nil, err
		}
	}
	return pl, nil
}

func (c *clContext) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return &device.Error{Op: "clReleaseContext", Status: device.StatusInvalidContext}
	}
	c.closed = true
	return check("clReleaseContext", clReleaseContext(c.handle))
}

type buffer struct {
	ctx   *clContext
	mem   uintptr
	size  int
	flags device.MemFlags

	mu       sync.Mutex
	released bool
}

func (b *buffer) Size() int              { return b.size }
func (b *buffer) Flags() device.MemFlags { return b.flags }

func (b *buffer) handle() (uintptr, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mem, !b.released
}

func (b *buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return &device.Error{Op: "clReleaseMemObject", Status: device.StatusInvalidMemObject}
	}
	b.released = true
	return check("clReleaseMemObject", clReleaseMemObject(b.mem))
}

// resolveBuffer returns the cl_mem behind buf if it is a live buffer of ctx.
func resolveBuffer(op string, ctx *clContext, buf device.Buffer) (*buffer, uintptr, error) {
	b, ok := buf.(*buffer)
	if !ok || b == nil {
		return nil, 0, &device.Error{Op: op, Status: device.StatusInvalidMemObject}
	}
	if b.ctx != ctx {
		return nil, 0, &device.Error{Op: op, Status: device.StatusInvalidContext}
	}
	mem, live := b.handle()
	if !live {
		return nil, 0, &device.Error{Op: op, Status: device.StatusInvalidMemObject}
	}
	return b, mem, nil
}

type queue struct {
	ctx    *clContext
	handle uintptr

	mu       sync.Mutex
	closed   bool
	inFlight [][]float32
}

func (q *queue) live() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.closed
}

// pin keeps host memory of a non-blocking transfer reachable until Finish.
func (q *queue) pin(data []float32) {
	q.mu.Lock()
	q.inFlight = append(q.inFlight, data)
	q.mu.Unlock()
}

func (q *queue) transfer(op string, buf device.Buffer, blocking bool, offset int, data []float32,
	call func(q, mem uintptr, blocking uint32, offset, size uintptr, ptr unsafe.Pointer, numEvents uint32, waitList, event uintptr) int32,
) error {
	if !q.live() {
		return &device.Error{Op: op, Status: device.StatusInvalidCommandQueue}
	}
	b, mem, err := resolveBuffer(op, q.ctx, buf)
	if err != nil {
		return err
	}
	size := len(data) * 4
	if offset < 0 || offset%4 != 0 || size == 0 || offset+size > b.size {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}

	var flag uint32
	if blocking {
		flag = clTrue
	} else {
		q.pin(data)
	}
	return check(op, call(q.handle, mem, flag, uintptr(offset), uintptr(size), unsafe.Pointer(&data[0]), 0, 0, 0))
}

func (q *queue) EnqueueWrite(buf device.Buffer, blocking bool, offset int, src []float32) error {
	return q.transfer("clEnqueueWriteBuffer", buf, blocking, offset, src, clEnqueueWriteBuffer)
}

func (q *queue) EnqueueRead(buf device.Buffer, blocking bool, offset int, dst []float32) error {
	return q.transfer("clEnqueueReadBuffer", buf, blocking, offset, dst, clEnqueueReadBuffer)
}

func (q *queue) Finish() error {
	if !q.live() {
		return &device.Error{Op: "clFinish", Status: device.StatusInvalidCommandQueue}
	}
	err := check("clFinish", clFinish(q.handle))
	q.mu.Lock()
	q.inFlight = nil
	q.mu.Unlock()
	return err
}

func (q *queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return &device.Error{Op: "clReleaseCommandQueue", Status: device.StatusInvalidCommandQueue}
	}
	q.closed = true
	q.inFlight = nil
	return check("clReleaseCommandQueue", clReleaseCommandQueue(q.handle))
}

type plan struct {
	ctx    *clContext
	handle uintptr
	desc   device.PlanDescriptor

	mu       sync.Mutex
	bakedFor *queue
	released bool
}

func (p *plan) Descriptor() device.PlanDescriptor {
	return p.desc
}

func resolveQueue(op string, ctx *clContext, q device.Queue) (*queue, error) {
	cq, ok := q.(*queue)
	if !ok || cq == nil || !cq.live() {
		return nil, &device.Error{Op: op, Status: device.StatusInvalidCommandQueue}
	}
	if cq.ctx != ctx {
		return nil, &device.Error{Op: op, Status: device.StatusDeviceMismatch}
	}
	return cq, nil
}

func (p *plan) Bake(q device.Queue) error {
	const op = "clfftBakePlan"

	cq, err := resolveQueue(op, p.ctx, q)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return &device.Error{Op: op, Status: device.StatusInvalidPlan}
	}
	qh := cq.handle
	if err := check(op, clfftBakePlan(p.handle, 1, &qh, 0, 0)); err != nil {
		return err
	}
	p.bakedFor = cq
	return nil
}

func (p *plan) Enqueue(q device.Queue, dir device.Direction, buf device.Buffer) error {
	const op = "clfftEnqueueTransform"

	cq, err := resolveQueue(op, p.ctx, q)
	if err != nil {
		return err
	}
	if !dir.Valid() {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}
	b, mem, err := resolveBuffer(op, p.ctx, buf)
	if err != nil {
		return err
	}
	if b.size < p.desc.Len()*8 {
		return &device.Error{Op: op, Status: device.StatusInvalidBufferSize}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || p.bakedFor == nil {
		return &device.Error{Op: op, Status: device.StatusInvalidPlan}
	}
	if p.bakedFor != cq {
		return &device.Error{Op: op, Status: device.StatusDeviceMismatch}
	}

	qh := cq.handle
	return check(op, clfftEnqueueTransform(p.handle, int32(dir), 1, &qh, 0, 0, 0, &mem, 0, 0))
}

func (p *plan) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return &device.Error{Op: "clfftDestroyPlan", Status: device.StatusInvalidPlan}
	}
	p.released = true
	p.bakedFor = nil
	return check("clfftDestroyPlan", clfftDestroyPlan(&p.handle))
}
