package host

import (
	"sync"

	"github.com/cwbudde/algo-caf/device"
	"github.com/cwbudde/algo-caf/internal/fft"
)

type plan struct {
	ctx  *hostContext
	desc device.PlanDescriptor

	mu       sync.Mutex
	engine   *fft.Plan
	bakedFor *queue
	released bool
}

func (p *plan) Descriptor() device.PlanDescriptor {
	return p.desc
}

func (p *plan) Bake(q device.Queue) error {
	const op = "clfftBakePlan"

	hq, err := resolveQueue(p.ctx, q, op)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return &device.Error{Op: op, Status: device.StatusInvalidPlan}
	}

	engine, err := fft.NewPlan(p.desc.Len())
	if err != nil {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}
	p.engine = engine
	p.bakedFor = hq
	p.ctx.backend.record(func(s *Stats) { s.Bakes++ })
	return nil
}

func (p *plan) Enqueue(q device.Queue, dir device.Direction, buf device.Buffer) error {
	const op = "clfftEnqueueTransform"

	hq, err := resolveQueue(p.ctx, q, op)
	if err != nil {
		return err
	}
	if !dir.Valid() {
		return &device.Error{Op: op, Status: device.StatusInvalidValue}
	}
	hb, err := resolveBuffer(p.ctx, buf, op)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || p.engine == nil {
		return &device.Error{Op: op, Status: device.StatusInvalidPlan}
	}
	if hq != p.bakedFor {
		return &device.Error{Op: op, Status: device.StatusDeviceMismatch}
	}

	hb.mu.Lock()
	defer hb.mu.Unlock()
	if hb.released {
		return &device.Error{Op: op, Status: device.StatusInvalidMemObject}
	}
	n := p.engine.Len()
	if len(hb.data) < 2*n {
		return &device.Error{Op: op, Status: device.StatusInvalidBufferSize}
	}

	data := hb.complexView(n)
	if dir == device.Forward {
		err = p.engine.Forward(data)
	} else {
		err = p.engine.Inverse(data)
	}
	if err != nil {
		return &device.Error{Op: op, Status: device.StatusBugCheck}
	}

	p.ctx.backend.record(func(s *Stats) {
		s.Enqueues++
		if dir == device.Forward {
			s.Forward++
		} else {
			s.Inverse++
		}
	})
	return nil
}

func (p *plan) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return &device.Error{Op: "clfftDestroyPlan", Status: device.StatusInvalidPlan}
	}
	p.released = true
	p.engine = nil
	p.bakedFor = nil
	p.ctx.backend.record(func(s *Stats) { s.PlansReleased++ })
	return nil
}
