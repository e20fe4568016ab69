package algocaf

import (
	"fmt"
	"unsafe"
)

// WriteSignal copies an interleaved (re, im) host signal into slot,
// starting at the first sample. len(signal) must be even and at most 2n;
// exactly len(signal) scalars (2 per sample) are transferred. Samples past
// the signal keep their previous device contents.
//
// The call blocks until the device holds the data.
func (pc *PlanContext) WriteSignal(slot Slot, signal []float32) error {
	buf, err := pc.Buffer(slot)
	if err != nil {
		return err
	}
	if len(signal) == 0 || len(signal)%SignalScalarsPerSample != 0 || len(signal) > pc.n*SignalScalarsPerSample {
		return fmt.Errorf("%w: %d scalars for %d samples", ErrLengthMismatch, len(signal), pc.n)
	}

	if err := pc.queue.EnqueueWrite(buf, true, 0, signal); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrTransfer, slot, err)
	}
	return nil
}

// WriteComplex is WriteSignal for complex64 samples.
func (pc *PlanContext) WriteComplex(slot Slot, signal []complex64) error {
	if len(signal) == 0 {
		return pc.WriteSignal(slot, nil)
	}
	scalars := unsafe.Slice((*float32)(unsafe.Pointer(&signal[0])), len(signal)*SignalScalarsPerSample)
	return pc.WriteSignal(slot, scalars)
}

// ExecuteTransform runs the baked plan in place on slot.
func (pc *PlanContext) ExecuteTransform(slot Slot, dir Direction) error {
	buf, err := pc.Buffer(slot)
	if err != nil {
		return err
	}
	return pc.plan.Execute(pc.queue, buf, dir)
}

// ReadResult copies the whole slot, 4n scalars including the working space,
// into the staging region and from there into the slice returned by
// Staging. The call blocks until the copy is complete.
func (pc *PlanContext) ReadResult(slot Slot) error {
	buf, err := pc.Buffer(slot)
	if err != nil {
		return err
	}

	staging := pc.staging.Float32s()
	if err := pc.queue.EnqueueRead(buf, true, 0, staging); err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrTransfer, slot, err)
	}
	copy(pc.result, staging)
	return nil
}

// Cycle writes signal into slot, applies each direction in order and reads
// the slot back into the staging buffer. A nil signal skips the write.
func (pc *PlanContext) Cycle(slot Slot, signal []float32, dirs ...Direction) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSelector, int(slot))
	}
	if signal != nil {
		if err := pc.WriteSignal(slot, signal); err != nil {
			return err
		}
	}
	for _, dir := range dirs {
		if err := pc.ExecuteTransform(slot, dir); err != nil {
			return err
		}
	}
	return pc.ReadResult(slot)
}
