package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-caf/device"
	"github.com/cwbudde/algo-caf/device/host"
)

func TestParseSizes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{16, 1024, 12}, parseSizes(" 16, ,abc,-4,1024,0,12"))
}

func TestResolveModes(t *testing.T) {
	t.Parallel()

	assert.Len(t, resolveModes("all"), 3)
	assert.Equal(t, []string{modeForward}, resolveModes("bogus"))
	assert.Len(t, modeDirections(modeRoundtrip), 2)
}

func TestBenchmarkSizeOnHost(t *testing.T) {
	t.Parallel()

	b := host.New(host.Options{})
	lib, err := device.Acquire(b)
	require.NoError(t, err)
	defer lib.Close()

	ctx, err := b.NewContext(0)
	require.NoError(t, err)
	defer ctx.Close()

	q, err := ctx.NewQueue()
	require.NoError(t, err)
	defer q.Close()

	res, err := benchmarkSize(ctx, q, rand.New(rand.NewSource(1)), 64, 3, 1, modeRoundtrip)
	require.NoError(t, err)
	assert.Equal(t, 64, res.size)
	assert.Equal(t, modeRoundtrip, res.mode)
	assert.GreaterOrEqual(t, res.nsPerOp, 0.0)

	st := b.Stats()
	assert.Equal(t, 8, st.Enqueues)
	assert.Zero(t, st.LiveBuffers)
	assert.Zero(t, st.LivePlans())
}
