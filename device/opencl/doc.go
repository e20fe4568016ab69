// Package opencl implements the device API on OpenCL with clFFT.
//
// Both libraries are loaded at runtime with purego, so the package builds
// without cgo and without the OpenCL headers. When either library cannot
// be loaded, or no OpenCL device is present, the backend reports itself
// as unavailable and device.Acquire fails with device.ErrBackendUnavailable.
package opencl
