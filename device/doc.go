// Package device defines the device API consumed by algocaf.
//
// A device exposes contexts, in-order command queues, read-write memory
// objects and compiled FFT plans, modelled on OpenCL and clFFT. Backends
// (the CPU host device, OpenCL via purego) implement these interfaces; the
// algocaf core only ever talks to the interfaces.
//
// Process-wide FFT library setup is reference counted through Setup and
// Acquire, so several plan contexts can share one initialization.
package device
