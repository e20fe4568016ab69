package algocaf

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-caf/device"
	"github.com/cwbudde/algo-caf/internal/hostmem"
)

// Option configures a PlanContext.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for lifecycle events (create, close).
// Events are logged at debug level. The default logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// PlanContext ties a buffer pair, a host staging buffer and a baked
// transform plan together for one sample count and one queue.
//
// It is not safe for concurrent use.
type PlanContext struct {
	n       int
	ctx     device.Context
	queue   device.Queue
	staging *hostmem.Region
	result  []float32
	pair    *BufferPair
	plan    *TransformPlan
	log     *slog.Logger
	closed  bool
}

// NewPlanContext allocates the staging buffer (4n scalars), both device
// slots (4n scalars each) and bakes an n-point plan against queue.
//
// On failure every resource acquired so far is released before the error
// is returned.
func NewPlanContext(ctx device.Context, queue device.Queue, n int, opts ...Option) (*PlanContext, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	if ctx == nil || queue == nil {
		return nil, ErrNilDevice
	}

	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	staging, err := hostmem.Alloc(n * ScalarsPerSample)
	if err != nil {
		return nil, fmt.Errorf("%w: host staging: %w", ErrAllocation, err)
	}

	pair, err := allocateBufferPair(ctx, n)
	if err != nil {
		_ = staging.Free()
		return nil, err
	}

	plan, err := compileTransformPlan(ctx, queue, n)
	if err != nil {
		_ = pair.Close()
		_ = staging.Free()
		return nil, err
	}

	o.logger.Debug("plan context created",
		"samples", n,
		"device", ctx.Device().Name,
		"buffer_bytes", pair.Size(),
	)

	return &PlanContext{
		n:       n,
		ctx:     ctx,
		queue:   queue,
		staging: staging,
		result:  make([]float32, n*ScalarsPerSample),
		pair:    pair,
		plan:    plan,
		log:     o.logger,
	}, nil
}

// Len returns the sample count the context was created for.
func (pc *PlanContext) Len() int {
	if pc == nil {
		return 0
	}
	return pc.n
}

// Context returns the device context the buffers were allocated in.
func (pc *PlanContext) Context() device.Context {
	if pc == nil {
		return nil
	}
	return pc.ctx
}

// Queue returns the queue the plan is baked against.
func (pc *PlanContext) Queue() device.Queue {
	if pc == nil {
		return nil
	}
	return pc.queue
}

// Plan returns the baked transform plan.
func (pc *PlanContext) Plan() *TransformPlan {
	if pc == nil {
		return nil
	}
	return pc.plan
}

// Buffer returns the device buffer behind slot. A nil or closed context
// yields ErrClosed.
func (pc *PlanContext) Buffer(slot Slot) (device.Buffer, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSelector, int(slot))
	}
	if pc == nil || pc.closed {
		return nil, ErrClosed
	}
	return pc.pair.Select(slot)
}

// Staging returns the result of the last ReadResult: 4n float32 scalars,
// of which the first 2n are the interleaved transform output. The slice is
// overwritten by the next ReadResult. It lives on the Go heap, so a slice
// kept past Close stays valid; Staging itself returns nil after Close.
func (pc *PlanContext) Staging() []float32 {
	if pc == nil || pc.closed {
		return nil
	}
	return pc.result
}

// Result returns a copy of the first n complex samples of the staging buffer.
func (pc *PlanContext) Result() []complex64 {
	staging := pc.Staging()
	if staging == nil {
		return nil
	}
	out := make([]complex64, pc.n)
	for i := range out {
		out[i] = complex(staging[2*i], staging[2*i+1])
	}
	return out
}

// Close releases the staging buffer, slot 0, slot 1 and the plan, each
// exactly once. Later calls return ErrClosed.
func (pc *PlanContext) Close() error {
	if pc == nil {
		return nil
	}
	if pc.closed {
		return ErrClosed
	}
	pc.closed = true

	err := errors.Join(
		pc.staging.Free(),
		pc.pair.Close(),
		pc.plan.Close(),
	)

	pc.log.Debug("plan context closed", "samples", pc.n, "error", err)
	return err
}
