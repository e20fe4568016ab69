package algocaf

import (
	"context"
	"fmt"
	"sync"
)

// Job is one unit of work for a Pipeline.
type Job struct {
	Slot Slot

	// Signal is written to Slot before the transforms. Nil skips the write.
	// Submit copies it, so the caller may reuse the slice immediately.
	Signal []float32

	// Directions are applied in order.
	Directions []Direction

	// SkipRead leaves the result on the device; the future then resolves
	// with a nil result.
	SkipRead bool
}

// Future resolves when its job has run.
type Future struct {
	done   chan struct{}
	result []float32
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(result []float32, err error) {
	f.result = result
	f.err = err
	close(f.done)
}

// Done is closed once the job has completed or failed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the job completes or ctx is done. On success it returns
// a private copy of the staging buffer taken right after the job's read.
// Cancelling ctx stops the wait, not the job.
func (f *Future) Wait(ctx context.Context) ([]float32, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type pendingJob struct {
	job    Job
	future *Future
}

// Pipeline serializes jobs against one PlanContext on a single worker
// goroutine. Jobs run in submission order, so alternating Job.Slot gives
// double-buffering: the next input is staged in one slot while the caller
// is still consuming the previous result.
//
// While the pipeline is open it is the only user of the PlanContext.
// Closing the pipeline does not close the PlanContext.
type Pipeline struct {
	pc   *PlanContext
	jobs chan pendingJob
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPipeline starts a worker for pc. depth bounds the number of queued
// jobs before Submit blocks; values below 1 mean 1.
func NewPipeline(pc *PlanContext, depth int) (*Pipeline, error) {
	if pc == nil || pc.closed {
		return nil, ErrClosed
	}
	if depth < 1 {
		depth = 1
	}

	p := &Pipeline{
		pc:   pc,
		jobs: make(chan pendingJob, depth),
	}
	p.wg.Add(1)
	go p.run()

	return p, nil
}

// Submit queues job and returns its future. It blocks only while the
// queue is full.
func (p *Pipeline) Submit(job Job) *Future {
	f := newFuture()
	if job.Signal != nil {
		job.Signal = append([]float32(nil), job.Signal...)
	}
	job.Directions = append([]Direction(nil), job.Directions...)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		f.resolve(nil, ErrClosed)
		return f
	}
	p.jobs <- pendingJob{job: job, future: f}
	return f
}

// Close stops accepting jobs, waits for queued jobs to finish and stops
// the worker. It is safe to call more than once.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

func (p *Pipeline) run() {
	defer p.wg.Done()
	for pj := range p.jobs {
		pj.future.resolve(p.execute(pj.job))
	}
}

func (p *Pipeline) execute(job Job) ([]float32, error) {
	if !job.Slot.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelector, int(job.Slot))
	}
	if job.Signal != nil {
		if err := p.pc.WriteSignal(job.Slot, job.Signal); err != nil {
			return nil, err
		}
	}
	for _, dir := range job.Directions {
		if err := p.pc.ExecuteTransform(job.Slot, dir); err != nil {
			return nil, err
		}
	}
	if job.SkipRead {
		return nil, nil
	}
	if err := p.pc.ReadResult(job.Slot); err != nil {
		return nil, err
	}
	return append([]float32(nil), p.pc.Staging()...), nil
}
