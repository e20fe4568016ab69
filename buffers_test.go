package algocaf

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-caf/device/host"
)

func TestBufferPairSelectAndClose(t *testing.T) {
	t.Parallel()

	dev := newHostDevice(t, host.Options{})

	pair, err := allocateBufferPair(dev.ctx, 10)
	if err != nil {
		t.Fatalf("allocateBufferPair: %v", err)
	}
	if pair.Size() != 10*16 {
		t.Errorf("Size() = %d, want %d", pair.Size(), 10*16)
	}

	b0, err := pair.Select(Slot0)
	if err != nil || b0 == nil {
		t.Fatalf("Select(0) = %v, %v", b0, err)
	}
	b1, err := pair.Select(Slot1)
	if err != nil || b1 == nil {
		t.Fatalf("Select(1) = %v, %v", b1, err)
	}

	if err := pair.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := pair.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if st := dev.backend.Stats(); st.Releases != 2 {
		t.Errorf("Releases = %d, want 2", st.Releases)
	}

	if _, err := pair.Select(Slot0); !errors.Is(err, ErrClosed) {
		t.Errorf("Select after Close = %v, want ErrClosed", err)
	}
	if _, err := pair.Select(Slot(5)); !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("Select(5) after Close = %v, want ErrInvalidSelector", err)
	}
}

func TestTransformPlanClose(t *testing.T) {
	t.Parallel()

	dev := newHostDevice(t, host.Options{})

	plan, err := compileTransformPlan(dev.ctx, dev.queue, 16)
	if err != nil {
		t.Fatalf("compileTransformPlan: %v", err)
	}
	if plan.Bakes() != 1 {
		t.Errorf("Bakes() = %d, want 1", plan.Bakes())
	}
	if err := plan.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := plan.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if st := dev.backend.Stats(); st.PlansReleased != 1 {
		t.Errorf("PlansReleased = %d, want 1", st.PlansReleased)
	}
	if err := plan.Execute(dev.queue, nil, Forward); !errors.Is(err, ErrClosed) {
		t.Errorf("Execute after Close = %v, want ErrClosed", err)
	}
}

func TestSlotString(t *testing.T) {
	t.Parallel()

	if Slot1.String() != "slot1" {
		t.Errorf("Slot1.String() = %q", Slot1.String())
	}
	if Slot(2).Valid() || !Slot0.Valid() {
		t.Error("Valid() disagrees with {0, 1}")
	}
	if Forward.String() != "forward" || Inverse.String() != "inverse" {
		t.Errorf("direction names = %q, %q", Forward.String(), Inverse.String())
	}
}
