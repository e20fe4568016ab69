package algocaf

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-caf/device"
)

// recordingQueue logs Finish calls; every other method is unused.
type recordingQueue struct {
	device.Queue

	calls     []string
	finishErr error
}

func (q *recordingQueue) Finish() error {
	q.calls = append(q.calls, "finish")
	return q.finishErr
}

type recordingPlan struct {
	device.FFTPlan

	queue *recordingQueue
}

func (p *recordingPlan) Enqueue(_ device.Queue, _ device.Direction, _ device.Buffer) error {
	p.queue.calls = append(p.queue.calls, "enqueue")
	return nil
}

func TestExecuteWaitsForQueue(t *testing.T) {
	t.Parallel()

	q := &recordingQueue{}
	plan := &TransformPlan{n: 8, impl: &recordingPlan{queue: q}, bakes: 1}

	for _, dir := range []Direction{Forward, Inverse} {
		if err := plan.Execute(q, nil, dir); err != nil {
			t.Fatalf("Execute(%s): %v", dir, err)
		}
	}

	want := []string{"enqueue", "finish", "enqueue", "finish"}
	if len(q.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", q.calls, want)
	}
	for i := range want {
		if q.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", q.calls, want)
		}
	}
}

func TestExecuteReportsFinishFailure(t *testing.T) {
	t.Parallel()

	q := &recordingQueue{finishErr: &device.Error{Op: "clFinish", Status: device.StatusOutOfResources}}
	plan := &TransformPlan{n: 8, impl: &recordingPlan{queue: q}, bakes: 1}

	err := plan.Execute(q, nil, Forward)
	if !errors.Is(err, ErrExecution) {
		t.Fatalf("Execute error = %v, want ErrExecution", err)
	}
	if status, ok := device.StatusOf(err); !ok || status != device.StatusOutOfResources {
		t.Errorf("device status = %v, %v, want %v", status, ok, device.StatusOutOfResources)
	}
}
