package fft

import "testing"

func TestScaleComplex64InPlace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []complex64
		scale float32
		want  []complex64
	}{
		{
			name:  "scale by 2",
			input: []complex64{1 + 2i, 3 + 4i, 5 + 6i},
			scale: 2.0,
			want:  []complex64{2 + 4i, 6 + 8i, 10 + 12i},
		},
		{
			name:  "scale by 1/16",
			input: []complex64{16, 32i},
			scale: 1.0 / 16,
			want:  []complex64{1, 2i},
		},
		{
			name:  "identity",
			input: []complex64{1 + 2i},
			scale: 1.0,
			want:  []complex64{1 + 2i},
		},
		{
			name:  "empty",
			input: []complex64{},
			scale: 3.0,
			want:  []complex64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ScaleComplex64InPlace(tt.input, tt.scale)
			for i := range tt.want {
				if tt.input[i] != tt.want[i] {
					t.Errorf("[%d] = %v, want %v", i, tt.input[i], tt.want[i])
				}
			}
		})
	}
}
