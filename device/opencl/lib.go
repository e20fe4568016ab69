//go:build linux || darwin

package opencl

// OpenCL and clFFT bindings via purego. Only the calls needed for device
// discovery, buffers, in-order queues and single-buffer plans are bound.

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	loadOnce sync.Once
	loadErr  error

	// Platform / device
	clGetPlatformIDs func(numEntries uint32, platforms *uintptr, numPlatforms *uint32) int32
	clGetDeviceIDs   func(platform uintptr, deviceType uint64, numEntries uint32, devices *uintptr, numDevices *uint32) int32
	clGetDeviceInfo  func(dev uintptr, param uint32, size uintptr, value unsafe.Pointer, sizeRet *uintptr) int32

	// Context / queue
	clCreateContext       func(props *uintptr, numDevices uint32, devices *uintptr, notify uintptr, userData uintptr, errcode *int32) uintptr
	clReleaseContext      func(ctx uintptr) int32
	clCreateCommandQueue  func(ctx uintptr, dev uintptr, props uint64, errcode *int32) uintptr
	clReleaseCommandQueue func(q uintptr) int32
	clFinish              func(q uintptr) int32

	// Memory
	clCreateBuffer       func(ctx uintptr, flags uint64, size uintptr, hostPtr unsafe.Pointer, errcode *int32) uintptr
	clReleaseMemObject   func(mem uintptr) int32
	clEnqueueWriteBuffer func(q uintptr, mem uintptr, blocking uint32, offset uintptr, size uintptr, ptr unsafe.Pointer, numEvents uint32, waitList uintptr, event uintptr) int32
	clEnqueueReadBuffer  func(q uintptr, mem uintptr, blocking uint32, offset uintptr, size uintptr, ptr unsafe.Pointer, numEvents uint32, waitList uintptr, event uintptr) int32

	// clFFT
	clfftGetVersion        func(major, minor, patch *uint32) int32
	clfftSetup             func(data *setupData) int32
	clfftTeardown          func() int32
	clfftCreateDefaultPlan func(handle *uintptr, ctx uintptr, dim uint32, lengths *uintptr) int32
	clfftSetPlanPrecision  func(handle uintptr, precision uint32) int32
	clfftSetLayout         func(handle uintptr, in uint32, out uint32) int32
	clfftSetResultLocation func(handle uintptr, placement uint32) int32
	clfftBakePlan          func(handle uintptr, numQueues uint32, queues *uintptr, notify uintptr, userData uintptr) int32
	clfftEnqueueTransform  func(handle uintptr, dir int32, numQueues uint32, queues *uintptr, numWait uint32, waitEvents uintptr, outEvents uintptr, in *uintptr, out uintptr, tmp uintptr) int32
	clfftDestroyPlan       func(handle *uintptr) int32
)

func libraryNames() (openCL, clFFT []string) {
	if runtime.GOOS == "darwin" {
		return []string{"/System/Library/Frameworks/OpenCL.framework/OpenCL"},
			[]string{"libclFFT.2.dylib", "libclFFT.dylib"}
	}
	return []string{"libOpenCL.so.1", "libOpenCL.so"},
		[]string{"libclFFT.so.2", "libclFFT.so"}
}

func dlopenAny(names []string) (uintptr, error) {
	var errs []error
	for _, name := range names {
		lib, err := purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err == nil {
			return lib, nil
		}
		errs = append(errs, err)
	}
	return 0, errors.Join(errs...)
}

// load opens both libraries and registers all function pointers.
func load() error {
	loadOnce.Do(func() {
		openCLNames, clFFTNames := libraryNames()

		cl, err := dlopenAny(openCLNames)
		if err != nil {
			loadErr = fmt.Errorf("opencl: cannot load OpenCL: %w", err)
			return
		}
		fft, err := dlopenAny(clFFTNames)
		if err != nil {
			loadErr = fmt.Errorf("opencl: cannot load clFFT: %w", err)
			return
		}

		purego.RegisterLibFunc(&clGetPlatformIDs, cl, "clGetPlatformIDs")
		purego.RegisterLibFunc(&clGetDeviceIDs, cl, "clGetDeviceIDs")
		purego.RegisterLibFunc(&clGetDeviceInfo, cl, "clGetDeviceInfo")
		purego.RegisterLibFunc(&clCreateContext, cl, "clCreateContext")
		purego.RegisterLibFunc(&clReleaseContext, cl, "clReleaseContext")
		purego.RegisterLibFunc(&clCreateCommandQueue, cl, "clCreateCommandQueue")
		purego.RegisterLibFunc(&clReleaseCommandQueue, cl, "clReleaseCommandQueue")
		purego.RegisterLibFunc(&clFinish, cl, "clFinish")
		purego.RegisterLibFunc(&clCreateBuffer, cl, "clCreateBuffer")
		purego.RegisterLibFunc(&clReleaseMemObject, cl, "clReleaseMemObject")
		purego.RegisterLibFunc(&clEnqueueWriteBuffer, cl, "clEnqueueWriteBuffer")
		purego.RegisterLibFunc(&clEnqueueReadBuffer, cl, "clEnqueueReadBuffer")

		purego.RegisterLibFunc(&clfftGetVersion, fft, "clfftGetVersion")
		purego.RegisterLibFunc(&clfftSetup, fft, "clfftSetup")
		purego.RegisterLibFunc(&clfftTeardown, fft, "clfftTeardown")
		purego.RegisterLibFunc(&clfftCreateDefaultPlan, fft, "clfftCreateDefaultPlan")
		purego.RegisterLibFunc(&clfftSetPlanPrecision, fft, "clfftSetPlanPrecision")
		purego.RegisterLibFunc(&clfftSetLayout, fft, "clfftSetLayout")
		purego.RegisterLibFunc(&clfftSetResultLocation, fft, "clfftSetResultLocation")
		purego.RegisterLibFunc(&clfftBakePlan, fft, "clfftBakePlan")
		purego.RegisterLibFunc(&clfftEnqueueTransform, fft, "clfftEnqueueTransform")
		purego.RegisterLibFunc(&clfftDestroyPlan, fft, "clfftDestroyPlan")
	})
	return loadErr
}
