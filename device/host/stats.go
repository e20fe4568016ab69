package host

// Stats is a snapshot of everything the host backend has done.
type Stats struct {
	Contexts  int
	Setups    int
	Teardowns int

	Allocations       int
	FailedAllocations int
	Releases          int
	LiveBuffers       int
	LiveBytes         int

	LiveQueues int

	PlansCreated  int
	PlansReleased int
	Bakes         int
	Enqueues      int
	Forward       int
	Inverse       int

	Writes       int
	Reads        int
	BytesWritten int
	BytesRead    int
}

// Stats returns a snapshot of the backend counters.
func (b *Backend) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// LivePlans reports plans created but not yet released.
func (s Stats) LivePlans() int {
	return s.PlansCreated - s.PlansReleased
}
