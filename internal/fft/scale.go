package fft

// ScaleComplex64InPlace scales each element in dst by scale.
func ScaleComplex64InPlace(dst []complex64, scale float32) {
	if scale == 1 {
		return
	}

	factor := complex(scale, 0)
	for i := range dst {
		dst[i] *= factor
	}
}
