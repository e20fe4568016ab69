package fft

import (
	"fmt"
	"math/cmplx"
	"testing"

	dspfft "github.com/mjibson/go-dsp/fft"
)

// TestPlanMatchesGoDSP cross-checks both kernels against an independent
// implementation at sizes where the naive DFT gets slow.
func TestPlanMatchesGoDSP(t *testing.T) {
	t.Parallel()

	for _, n := range []int{64, 1000, 2048, 3 * 5 * 7 * 11} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			t.Parallel()

			x := randomSignal(n, int64(n))
			in := make([]complex128, n)
			for i, v := range x {
				in[i] = complex128(v)
			}
			want := dspfft.FFT(in)

			p, err := NewPlan(n)
			if err != nil {
				t.Fatalf("NewPlan(%d): %v", n, err)
			}
			got := append([]complex64(nil), x...)
			if err := p.Forward(got); err != nil {
				t.Fatalf("Forward: %v", err)
			}

			tol := 1e-4 * float64(n)
			for k := range n {
				if d := cmplx.Abs(complex128(got[k]) - want[k]); d > tol {
					t.Fatalf("bin %d: got %v want %v (diff=%g)", k, got[k], want[k], d)
				}
			}
		})
	}
}
