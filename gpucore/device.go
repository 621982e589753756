// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// ProgramLoader resolves compute programs and their kernels.
type ProgramLoader interface {
	// LoadProgram loads the named compute program.
	// Returns an error wrapping ErrResourceNotFound if it does not exist.
	LoadProgram(name string) (ProgramHandle, error)

	// FindKernel resolves a kernel entry point of a loaded program.
	// Returns an error wrapping ErrResourceNotFound if the program has no
	// kernel with that name.
	FindKernel(program ProgramHandle, name string) (KernelHandle, error)

	// WorkGroupSize returns the x and y work group dimensions of a kernel.
	// The z dimension is always 1.
	WorkGroupSize(kernel KernelHandle) (x, y uint32)
}

// ImageAllocator creates and destroys device images and raw buffers.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - IDs become invalid after destruction and must not be reused
type ImageAllocator interface {
	// CompatibleFormat returns the format the device actually allocates for
	// a requested format when random write is required.
	CompatibleFormat(f Format) Format

	// CreateImage allocates a width x height image.
	//
	// Parameters:
	//   - width, height: image size in pixels, both > 0
	//   - format: pixel format, already made compatible by the caller
	//   - randomWrite: whether kernels may bind the image as destination
	CreateImage(width, height int, format Format, randomWrite bool) (ImageID, error)

	// DestroyImage releases a device image.
	DestroyImage(id ImageID)

	// WriteImage uploads width*height pixels in row-major order.
	// Values are quantized to the image format.
	WriteImage(id ImageID, pixels []Vec4) error

	// CreateBuffer allocates a raw buffer of n uint32 counters.
	CreateBuffer(n int) (BufferID, error)

	// DestroyBuffer releases a raw buffer.
	DestroyBuffer(id BufferID)
}

// ParameterBinder sets the mutable parameter state of a program.
// Bindings persist until overwritten.
type ParameterBinder interface {
	// BindImage binds an image to a named slot of a kernel.
	BindImage(kernel KernelHandle, slot Slot, image ImageID)

	// BindBuffer binds a raw buffer to a named slot of a kernel.
	BindBuffer(kernel KernelHandle, slot Slot, buffer BufferID)

	// SetVector sets a program-wide vector parameter.
	SetVector(program ProgramHandle, param Param, v Vec4)
}

// Dispatcher issues kernel dispatches on the single compute queue.
type Dispatcher interface {
	// Dispatch runs gx*gy*gz work groups of a kernel. Dispatches execute in
	// submission order with a barrier between dependent dispatches.
	Dispatch(kernel KernelHandle, gx, gy, gz uint32) error
}

// Readback copies device data to host memory. Both calls block.
type Readback interface {
	// ReadImage reads a w x h region starting at (x, y) in row-major order.
	ReadImage(id ImageID, x, y, w, h int) ([]Vec4, error)

	// ReadBuffer reads the full contents of a raw buffer.
	ReadBuffer(id BufferID) ([]uint32, error)
}

// ReadbackRequest is a pending asynchronous image read.
type ReadbackRequest interface {
	// Done reports whether the read has completed.
	Done() bool

	// Result returns the pixels, or the error of the read.
	// Only valid once Done returns true.
	Result() ([]Vec4, error)
}

// AsyncReadback is implemented by devices that can read images without
// stalling the queue. Callers poll the request to completion.
type AsyncReadback interface {
	RequestImage(id ImageID, x, y, w, h int) ReadbackRequest
}

// Device is the complete set of host capabilities the operator library
// consumes. Hosts own the device; the library never creates one itself.
type Device interface {
	ProgramLoader
	ImageAllocator
	ParameterBinder
	Dispatcher
	Readback

	// Name returns a short identifier of the device implementation.
	Name() string

	// Close releases all device resources.
	Close() error
}
