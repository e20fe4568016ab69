package device

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBackend is returned when no device backend is registered.
	ErrNoBackend = errors.New("device: no backend registered")

	// ErrBackendUnavailable is returned when the backend is registered but not available
	// on the current system (e.g., no device, driver missing).
	ErrBackendUnavailable = errors.New("device: backend unavailable")

	// ErrInvalidBackend is returned when a backend cannot be reference-counted.
	ErrInvalidBackend = errors.New("device: invalid backend")

	// ErrInvalidDescriptor is returned for plan descriptors outside the supported set.
	ErrInvalidDescriptor = errors.New("device: invalid plan descriptor")
)

// Error carries the status code of a failed device API call.
type Error struct {
	Op     string
	Status Status
}

func (e *Error) Error() string {
	return fmt.Sprintf("device: %s: %s", e.Op, e.Status)
}

// Check returns nil for StatusSuccess and an *Error otherwise.
func Check(op string, status Status) error {
	if status == StatusSuccess {
		return nil
	}
	return &Error{Op: op, Status: status}
}

// StatusOf extracts the device status from err, if any.
func StatusOf(err error) (Status, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Status, true
	}
	return StatusSuccess, false
}
