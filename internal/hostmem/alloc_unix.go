//go:build unix

package hostmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

func allocFloats(n int) ([]float32, func() error, error) {
	mem, err := unix.Mmap(-1, 0, n*4, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("hostmem: mmap %d bytes: %w", n*4, err)
	}

	data := unsafe.Slice((*float32)(unsafe.Pointer(&mem[0])), n)
	release := func() error {
		if err := unix.Munmap(mem); err != nil {
			return fmt.Errorf("hostmem: munmap: %w", err)
		}
		return nil
	}

	return data, release, nil
}
