package device

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	libMu   sync.Mutex
	libRefs = map[Backend]int{}
)

// Library is one reference to a backend's initialized FFT library.
// The first Acquire for a backend calls Backend.Setup; closing the last
// Library for it calls Backend.Teardown.
type Library struct {
	backend Backend
	once    sync.Once
	err     error
}

// Setup acquires the FFT library of the registered backend.
func Setup() (*Library, error) {
	b, err := CurrentBackend()
	if err != nil {
		return nil, err
	}
	return Acquire(b)
}

// Acquire takes a reference on b's FFT library, initializing it if this is
// the first outstanding reference.
//
// References are counted per backend value, so b must be comparable.
// Backends should be pointer types; a struct value holding a slice, map or
// func is rejected with ErrInvalidBackend.
func Acquire(b Backend) (*Library, error) {
	if b == nil {
		return nil, ErrNoBackend
	}
	if !reflect.TypeOf(b).Comparable() {
		return nil, fmt.Errorf("%w: %T is not comparable", ErrInvalidBackend, b)
	}
	if !b.Available() {
		return nil, ErrBackendUnavailable
	}

	libMu.Lock()
	defer libMu.Unlock()

	if libRefs[b] == 0 {
		if err := b.Setup(); err != nil {
			return nil, err
		}
	}
	libRefs[b]++

	return &Library{backend: b}, nil
}

// Backend returns the backend this reference belongs to.
func (l *Library) Backend() Backend {
	return l.backend
}

// Close drops the reference. Only the first call has an effect.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	l.once.Do(func() {
		libMu.Lock()
		defer libMu.Unlock()

		refs := libRefs[l.backend]
		if refs <= 0 {
			l.err = errors.New("device: library closed more often than acquired")
			return
		}
		if refs == 1 {
			delete(libRefs, l.backend)
			l.err = l.backend.Teardown()
			return
		}
		libRefs[l.backend] = refs - 1
	})
	return l.err
}

// LibraryRefs reports the number of outstanding references for b.
func LibraryRefs(b Backend) int {
	if b == nil || !reflect.TypeOf(b).Comparable() {
		return 0
	}
	libMu.Lock()
	defer libMu.Unlock()
	return libRefs[b]
}
