// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore defines the host capabilities consumed by the texops
// operator library.
//
// The library owns no device. A host supplies a [Device], which combines
// five capabilities:
//
//   - [ProgramLoader]: load compute programs, resolve kernels, report
//     work group sizes
//   - [ImageAllocator]: create and destroy device images and raw buffers
//   - [ParameterBinder]: bind images and buffers to named slots and set
//     vector parameters
//   - [Dispatcher]: issue dispatches on one compute queue
//   - [Readback]: copy image regions and buffers to host memory
//
// Layering:
//
//	+-----------------------+
//	|  texops (algorithms)  |
//	+-----------+-----------+
//	            |
//	+-----------v-----------+
//	|  internal/compute     |
//	|  (programs, aliasing) |
//	+-----------+-----------+
//	            |
//	   +--------v--------+
//	   | gpucore.Device  |
//	   +--+-----------+--+
//	      |           |
//	+-----v----+  +---v------+
//	| software |  |  wgpu    |
//	|  (CPU)   |  |  (hal)   |
//	+----------+  +----------+
//
// # Resource Management
//
// Device resources are managed via opaque IDs ([ImageID], [BufferID],
// [KernelHandle], [ProgramHandle]). Hosts track the mapping between IDs and
// actual resources. The zero ID is never valid.
//
// # Errors
//
// All errors returned by hosts and by the library wrap one of
// [ErrResourceNotFound], [ErrInvalidOperation], [ErrResourceLifecycle] or
// [ErrDimensionMismatch].
package gpucore
