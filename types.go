package algocaf

import (
	"strconv"

	"github.com/cwbudde/algo-caf/device"
)

// Slot selects one of the two device buffers of a PlanContext.
type Slot int

const (
	Slot0 Slot = 0
	Slot1 Slot = 1
)

// Valid reports whether s is Slot0 or Slot1.
func (s Slot) Valid() bool {
	return s == Slot0 || s == Slot1
}

func (s Slot) String() string {
	return "slot" + strconv.Itoa(int(s))
}

// Direction is the transform direction; see device.Direction.
type Direction = device.Direction

const (
	Forward = device.Forward
	Inverse = device.Inverse
)

const (
	// ScalarsPerSample is the float32 capacity each device buffer and the
	// staging buffer reserve per sample: one interleaved complex value plus
	// the same again as working space.
	ScalarsPerSample = 4

	// SignalScalarsPerSample is what a write moves per sample: real and imaginary.
	SignalScalarsPerSample = 2

	scalarSize = 4
)
