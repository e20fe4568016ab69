//go:build !(linux || darwin)

package opencl

import "github.com/cwbudde/algo-caf/device"

// Backend is unavailable on this platform.
type Backend struct{}

// New returns an OpenCL backend that reports itself unavailable.
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
	return device.BackendInfo{
		Name:        "opencl",
		Description: "OpenCL devices with clFFT plans (unsupported on this platform)",
	}
}

func (b *Backend) Available() bool {
	return false
}

func (b *Backend) Devices() ([]device.DeviceInfo, error) {
	return nil, device.ErrBackendUnavailable
}

func (b *Backend) NewContext(int) (device.Context, error) {
	return nil, device.ErrBackendUnavailable
}

func (b *Backend) Setup() error {
	return device.ErrBackendUnavailable
}

func (b *Backend) Teardown() error {
	return device.ErrBackendUnavailable
}
