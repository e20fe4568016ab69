package fft

import (
	"errors"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrInvalidLength is returned for non-positive transform lengths.
var ErrInvalidLength = errors.New("fft: invalid length")

// ErrLengthMismatch is returned when the data slice is shorter than the plan.
var ErrLengthMismatch = errors.New("fft: length mismatch")

// Plan is an in-place single-precision transform of a fixed length.
//
// Power-of-two lengths run an iterative radix-2 DIT over precomputed
// twiddles. Every other length goes through gonum's mixed-radix CmplxFFT
// in double precision and is rounded back on the way out.
//
// Forward is unnormalized. Inverse is scaled by 1/n, so Inverse(Forward(x)) == x.
type Plan struct {
	n       int
	twiddle []complex64
	bitrev  []int

	cmplx *fourier.CmplxFFT
	work  []complex128
	coeff []complex128
}

// NewPlan precomputes everything the transform of length n needs.
func NewPlan(n int) (*Plan, error) {
	if n < 1 {
		return nil, ErrInvalidLength
	}

	p := &Plan{n: n}
	if IsPowerOf2(n) {
		p.twiddle = ComputeTwiddleFactors[complex64](n)
		p.bitrev = ComputeBitReversalIndices(n)
		return p, nil
	}

	p.cmplx = fourier.NewCmplxFFT(n)
	p.work = make([]complex128, n)
	p.coeff = make([]complex128, n)
	return p, nil
}

// Len returns the transform length in complex samples.
func (p *Plan) Len() int {
	return p.n
}

// Radix2 reports whether the plan uses the radix-2 kernel.
func (p *Plan) Radix2() bool {
	return p.cmplx == nil
}

// Forward transforms data[:n] in place.
func (p *Plan) Forward(data []complex64) error {
	if len(data) < p.n {
		return ErrLengthMismatch
	}
	if p.cmplx != nil {
		p.mixedRadix(data[:p.n], false)
		return nil
	}
	ditInPlace(data[:p.n], p.twiddle, p.bitrev, false)
	return nil
}

// Inverse transforms data[:n] in place and scales the result by 1/n.
func (p *Plan) Inverse(data []complex64) error {
	if len(data) < p.n {
		return ErrLengthMismatch
	}
	if p.cmplx != nil {
		p.mixedRadix(data[:p.n], true)
		return nil
	}
	ditInPlace(data[:p.n], p.twiddle, p.bitrev, true)
	ScaleComplex64InPlace(data[:p.n], 1/float32(p.n))
	return nil
}

// ditInPlace is the iterative radix-2 decimation-in-time butterfly network.
// The inverse uses conjugated twiddles and leaves scaling to the caller.
func ditInPlace(data, twiddle []complex64, bitrev []int, inverse bool) {
	n := len(data)

	for i, j := range bitrev {
		if i < j {
			data[i], data[j] = data[j], data[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			for k := range half {
				w := twiddle[k*step]
				if inverse {
					w = complex(real(w), -imag(w))
				}
				a := data[start+k]
				b := w * data[start+k+half]
				data[start+k] = a + b
				data[start+k+half] = a - b
			}
		}
	}
}

// mixedRadix runs gonum's transform in double precision. The inverse is
// scaled by 1/n before rounding back to complex64.
func (p *Plan) mixedRadix(data []complex64, inverse bool) {
	for i, v := range data {
		p.work[i] = complex128(v)
	}

	if !inverse {
		p.coeff = p.cmplx.Coefficients(p.coeff, p.work)
		for i, c := range p.coeff {
			data[i] = complex64(c)
		}
		return
	}

	p.coeff = p.cmplx.Sequence(p.coeff, p.work)
	scale := 1 / float64(p.n)
	for i, c := range p.coeff {
		data[i] = complex64(complex(real(c)*scale, imag(c)*scale))
	}
}
