package opencl

import (
	"fmt"

	"github.com/cwbudde/algo-caf/device"
)

// OpenCL constants used by the bindings.
const (
	clTrue uint32 = 1

	clDeviceTypeAll uint64 = 0xFFFFFFFF

	clDeviceGlobalMemSize uint32 = 0x101F
	clDeviceName          uint32 = 0x102B
	clDeviceVendor        uint32 = 0x102C
	clDriverVersion       uint32 = 0x102D
	clDeviceVersion       uint32 = 0x102F

	clContextPlatform uintptr = 0x1084
)

// clFFT enumerations.
const (
	clfft1D uint32 = 1
	clfft2D uint32 = 2
	clfft3D uint32 = 3

	clfftSingle uint32 = 1
	clfftDouble uint32 = 2

	clfftComplexInterleaved uint32 = 1
	clfftComplexPlanar      uint32 = 2

	clfftInPlace    uint32 = 1
	clfftOutOfPlace uint32 = 2
)

// setupData mirrors clfftSetupData.
type setupData struct {
	major      uint32
	minor      uint32
	patch      uint32
	debugFlags uint64
}

// planParams is a PlanDescriptor translated to clFFT arguments.
type planParams struct {
	dim       uint32
	lengths   []uintptr
	precision uint32
	inLayout  uint32
	outLayout uint32
	placement uint32
}

// translate maps desc onto clFFT. Only descriptors that run on a single
// buffer are accepted; planar layouts and out-of-place plans need a second
// buffer per transform and are reported as not implemented.
func translate(desc device.PlanDescriptor) (planParams, error) {
	if err := desc.Validate(); err != nil {
		return planParams{}, err
	}

	p := planParams{lengths: make([]uintptr, len(desc.Lengths))}
	for i, n := range desc.Lengths {
		p.lengths[i] = uintptr(n)
	}

	switch desc.Dim {
	case device.Dim1D:
		p.dim = clfft1D
	case device.Dim2D:
		p.dim = clfft2D
	case device.Dim3D:
		p.dim = clfft3D
	}

	switch desc.Precision {
	case device.PrecisionSingle:
		p.precision = clfftSingle
	case device.PrecisionDouble:
		p.precision = clfftDouble
	default:
		return planParams{}, fmt.Errorf("%w: precision %d", device.ErrInvalidDescriptor, desc.Precision)
	}

	if desc.InputLayout != device.LayoutComplexInterleaved || desc.OutputLayout != device.LayoutComplexInterleaved {
		return planParams{}, &device.Error{Op: "clfftSetLayout", Status: device.StatusNotImplemented}
	}
	p.inLayout = clfftComplexInterleaved
	p.outLayout = clfftComplexInterleaved

	if desc.Placement != device.PlacementInPlace {
		return planParams{}, &device.Error{Op: "clfftSetResultLocation", Status: device.StatusNotImplemented}
	}
	p.placement = clfftInPlace

	return p, nil
}

// cString converts a NUL-terminated info buffer to a Go string.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
