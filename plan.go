package algocaf

import (
	"fmt"

	"github.com/cwbudde/algo-caf/device"
)

// TransformPlan is a baked in-place 1-D complex transform of fixed length.
//
// The same plan serves both directions and both slots; only the compile
// step is expensive and it runs once, in compileTransformPlan.
type TransformPlan struct {
	n     int
	impl  device.FFTPlan
	bakes int
}

// compileTransformPlan creates a single-precision, complex-interleaved,
// in-place plan of length n and bakes it against queue.
func compileTransformPlan(ctx device.Context, queue device.Queue, n int) (*TransformPlan, error) {
	impl, err := ctx.NewFFTPlan(device.Interleaved1D(n))
	if err != nil {
		return nil, fmt.Errorf("%w: create length %d: %w", ErrCompile, n, err)
	}

	if err := impl.Bake(queue); err != nil {
		_ = impl.Close()
		return nil, fmt.Errorf("%w: bake length %d: %w", ErrCompile, n, err)
	}

	return &TransformPlan{n: n, impl: impl, bakes: 1}, nil
}

// Len returns the transform length in complex samples.
func (p *TransformPlan) Len() int {
	if p == nil {
		return 0
	}
	return p.n
}

// Bakes reports how many times the plan was compiled.
func (p *TransformPlan) Bakes() int {
	if p == nil {
		return 0
	}
	return p.bakes
}

// Execute runs an in-place transform of buf in direction dir and waits for
// queue to drain, so kernel failures surface here rather than on the next
// transfer.
func (p *TransformPlan) Execute(queue device.Queue, buf device.Buffer, dir Direction) error {
	if p == nil || p.impl == nil {
		return ErrClosed
	}
	if err := p.impl.Enqueue(queue, dir, buf); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExecution, dir, err)
	}
	if err := queue.Finish(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExecution, dir, err)
	}
	return nil
}

// Close releases the compiled plan. Repeated calls are no-ops.
func (p *TransformPlan) Close() error {
	if p == nil || p.impl == nil {
		return nil
	}
	err := p.impl.Close()
	p.impl = nil
	return err
}
