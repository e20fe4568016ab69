// Package algocaf manages device-resident buffers and a reusable FFT plan
// for repeated forward and inverse transforms of fixed-size complex signals,
// the building block of cross-ambiguity (CAF) correlation pipelines.
//
// A PlanContext owns two device buffers (slot 0 and slot 1), a host staging
// buffer and one baked, in-place, single-precision transform plan, all sized
// for one sample count. The pipeline per slot is
//
//	pc.WriteSignal(algocaf.Slot0, signal)          // 2 scalars per sample
//	pc.ExecuteTransform(algocaf.Slot0, algocaf.Forward)
//	pc.ReadResult(algocaf.Slot0)                   // 4 scalars per sample
//
// Every call blocks until the device has finished. A PlanContext is not
// safe for concurrent use; Pipeline provides an ordered asynchronous
// front-end with completion futures.
//
// Transforms follow the clFFT convention: Forward is unnormalized and
// Inverse is scaled by 1/N, so Forward followed by Inverse reproduces the
// input.
package algocaf
