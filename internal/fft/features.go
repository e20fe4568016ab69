package fft

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Features describes CPU capabilities of the host running the transforms.
type Features struct {
	HasAVX2      bool
	HasAVX512    bool
	HasSSE2      bool
	HasNEON      bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
func DetectFeatures() Features {
	return Features{
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasSSE2:      cpu.X86.HasSSE2,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// String renders the features as "arch+feat+feat", e.g. "amd64+sse2+avx2".
func (f Features) String() string {
	parts := []string{f.Architecture}
	if f.HasSSE2 {
		parts = append(parts, "sse2")
	}
	if f.HasAVX2 {
		parts = append(parts, "avx2")
	}
	if f.HasAVX512 {
		parts = append(parts, "avx512")
	}
	if f.HasNEON {
		parts = append(parts, "neon")
	}
	return strings.Join(parts, "+")
}
