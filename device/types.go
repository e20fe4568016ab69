package device

import (
	"fmt"
	"strconv"
)

// Status is a device API status code. Values follow OpenCL (negative) and
// clFFT (4096 and up) so that codes from real drivers pass through unchanged.
type Status int32

const (
	StatusSuccess                    Status = 0
	StatusDeviceNotFound             Status = -1
	StatusMemObjectAllocationFailure Status = -4
	StatusOutOfResources             Status = -5
	StatusOutOfHostMemory            Status = -6
	StatusInvalidValue               Status = -30
	StatusInvalidDevice              Status = -33
	StatusInvalidContext             Status = -34
	StatusInvalidCommandQueue        Status = -36
	StatusInvalidMemObject           Status = -38
	StatusInvalidOperation           Status = -59
	StatusInvalidBufferSize          Status = -61

	StatusBugCheck       Status = 4096
	StatusNotImplemented Status = 4097
	StatusInvalidPlan    Status = 4102
	StatusDeviceNoDouble Status = 4103
	StatusDeviceMismatch Status = 4104
)

var statusNames = map[Status]string{
	StatusSuccess:                    "CL_SUCCESS",
	StatusDeviceNotFound:             "CL_DEVICE_NOT_FOUND",
	StatusMemObjectAllocationFailure: "CL_MEM_OBJECT_ALLOCATION_FAILURE",
	StatusOutOfResources:             "CL_OUT_OF_RESOURCES",
	StatusOutOfHostMemory:            "CL_OUT_OF_HOST_MEMORY",
	StatusInvalidValue:               "CL_INVALID_VALUE",
	StatusInvalidDevice:              "CL_INVALID_DEVICE",
	StatusInvalidContext:             "CL_INVALID_CONTEXT",
	StatusInvalidCommandQueue:        "CL_INVALID_COMMAND_QUEUE",
	StatusInvalidMemObject:           "CL_INVALID_MEM_OBJECT",
	StatusInvalidOperation:           "CL_INVALID_OPERATION",
	StatusInvalidBufferSize:          "CL_INVALID_BUFFER_SIZE",
	StatusBugCheck:                   "CLFFT_BUGCHECK",
	StatusNotImplemented:             "CLFFT_NOTIMPLEMENTED",
	StatusInvalidPlan:                "CLFFT_INVALID_PLAN",
	StatusDeviceNoDouble:             "CLFFT_DEVICE_NO_DOUBLE",
	StatusDeviceMismatch:             "CLFFT_DEVICE_MISMATCH",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name + " (" + strconv.Itoa(int(s)) + ")"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// MemFlags mirrors cl_mem_flags.
type MemFlags uint64

const (
	MemReadWrite MemFlags = 1 << 0
	MemWriteOnly MemFlags = 1 << 1
	MemReadOnly  MemFlags = 1 << 2
)

// Direction selects the transform sign convention.
// Forward uses exp(-2πi·jk/N); Inverse uses exp(+2πi·jk/N) and scales by 1/N.
type Direction int8

const (
	Forward Direction = -1
	Inverse Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Inverse:
		return "inverse"
	default:
		return fmt.Sprintf("direction(%d)", int8(d))
	}
}

// Valid reports whether d is Forward or Inverse.
func (d Direction) Valid() bool {
	return d == Forward || d == Inverse
}

// Dim is the transform dimensionality.
type Dim uint8

const (
	Dim1D Dim = iota + 1
	Dim2D
	Dim3D
)

// Precision is the floating-point precision of a compiled plan.
type Precision uint8

const (
	PrecisionSingle Precision = iota + 1
	PrecisionDouble
)

// Layout describes how complex data is stored in device memory.
type Layout uint8

const (
	LayoutComplexInterleaved Layout = iota + 1
	LayoutComplexPlanar
)

// Placement selects in-place or out-of-place results.
type Placement uint8

const (
	PlacementInPlace Placement = iota + 1
	PlacementOutOfPlace
)

// PlanDescriptor fixes everything about a plan that is compiled in at bake time.
// Direction and the target buffer are runtime parameters and are not part of it.
type PlanDescriptor struct {
	Dim          Dim
	Lengths      []int
	Precision    Precision
	InputLayout  Layout
	OutputLayout Layout
	Placement    Placement
}

// Interleaved1D returns the descriptor for an in-place, single-precision,
// complex-interleaved 1-D transform of length n.
func Interleaved1D(n int) PlanDescriptor {
	return PlanDescriptor{
		Dim:          Dim1D,
		Lengths:      []int{n},
		Precision:    PrecisionSingle,
		InputLayout:  LayoutComplexInterleaved,
		OutputLayout: LayoutComplexInterleaved,
		Placement:    PlacementInPlace,
	}
}

// Validate checks internal consistency of the descriptor.
func (d PlanDescriptor) Validate() error {
	if d.Dim < Dim1D || d.Dim > Dim3D {
		return fmt.Errorf("%w: dimension %d", ErrInvalidDescriptor, d.Dim)
	}
	if len(d.Lengths) != int(d.Dim) {
		return fmt.Errorf("%w: %d lengths for %d dimensions", ErrInvalidDescriptor, len(d.Lengths), d.Dim)
	}
	for _, n := range d.Lengths {
		if n < 1 {
			return fmt.Errorf("%w: length %d", ErrInvalidDescriptor, n)
		}
	}
	if d.Precision == 0 || d.InputLayout == 0 || d.OutputLayout == 0 || d.Placement == 0 {
		return fmt.Errorf("%w: unset precision, layout or placement", ErrInvalidDescriptor)
	}
	return nil
}

// Len returns the total number of complex samples in one transform.
func (d PlanDescriptor) Len() int {
	n := 1
	for _, l := range d.Lengths {
		n *= l
	}
	return n
}

// DeviceInfo describes a compute device.
type DeviceInfo struct {
	Name       string
	Vendor     string
	Driver     string
	MemoryMB   int
	ComputeCap string
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
}
