// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texops provides GPU-resident 2D image operators.
//
// # Overview
//
// texops runs image operations (arithmetic, color conversion, geometric
// transforms, morphology, blur, compositing, statistics and drawing) as
// compute kernel dispatches against images that stay on the device. The
// host application owns the device; texops only orchestrates programs,
// bindings and temporary images on top of the capabilities defined in
// package gpucore.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/texops"
//	    _ "github.com/gogpu/texops/backend/software"
//	)
//
//	ctx, err := texops.Open(texops.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	src, _ := ctx.Upload(photo, texops.FormatRGBA8Unorm)
//	dst, _ := ctx.NewImage(src.Width(), src.Height(), texops.FormatRGBA8Unorm)
//	if err := ctx.BlurGaussian(src, dst, 9, 0); err != nil {
//	    return err
//	}
//	out, _ := ctx.Download(dst)
//
// A Context can also be created over a device the host already owns:
//
//	ctx, err := texops.New(dev, texops.WithPoolCapacity(8))
//
// # In-Place Operations
//
// Passing the same image as source and destination selects the in-place
// variant of a kernel. Operations without one fail with ErrInvalidOperation.
// A destination is never allowed to alias the second source.
//
// # Devices
//
// Two devices ship with the module:
//   - backend/software: CPU reference device, executes every kernel
//   - backend/wgpu: WebGPU device over gogpu/wgpu, runs host WGSL programs
//
// # Concurrency
//
// A Context is not safe for concurrent use. Dispatches execute in program
// order on a single queue; readback blocks until the data is available.
package texops
