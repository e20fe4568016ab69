package algocaf

import "errors"

// Sentinel errors returned by plan context operations.
//
// Failures reported by the device are wrapped together with the
// *device.Error carrying the status code, so both
// errors.Is(err, ErrTransfer) and errors.As(err, &devErr) work.
var (
	// ErrInvalidSelector is returned for a slot outside {0, 1}. It is
	// detected before any device call.
	ErrInvalidSelector = errors.New("algocaf: invalid slot selector")

	// ErrAllocation is returned when device memory for the buffer pair
	// cannot be allocated.
	ErrAllocation = errors.New("algocaf: device allocation failed")

	// ErrCompile is returned when the transform plan cannot be created or baked.
	ErrCompile = errors.New("algocaf: plan compilation failed")

	// ErrTransfer is returned when a host/device copy fails.
	ErrTransfer = errors.New("algocaf: transfer failed")

	// ErrExecution is returned when enqueueing a transform fails.
	ErrExecution = errors.New("algocaf: transform execution failed")

	// ErrInvalidLength is returned for a sample count below 1.
	ErrInvalidLength = errors.New("algocaf: invalid sample count")

	// ErrLengthMismatch is returned when a host signal does not fit the plan.
	ErrLengthMismatch = errors.New("algocaf: signal length mismatch")

	// ErrNilDevice is returned when the context or queue is nil.
	ErrNilDevice = errors.New("algocaf: nil device context or queue")

	// ErrClosed is returned by operations on a closed PlanContext or Pipeline.
	ErrClosed = errors.New("algocaf: closed")
)
