// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu provides a gpucore.Device on the Pure Go WebGPU HAL
// (gogpu/wgpu).
//
// The device does not ship kernels. The host supplies WGSL programs in an
// fs.FS, one file per program named "<program>.wgsl", and the device
// compiles each file once with naga. Kernels are the @compute entry points
// of a file; their @workgroup_size must be integer literals.
//
// Kernels see the bind group
//
//	struct Params {
//	    scalar_a: vec4<f32>, scalar_b: vec4<f32>,
//	    scalar_c: vec4<f32>, scalar_d: vec4<f32>,
//	    texture_size: vec4<f32>, texel_size: vec4<f32>,
//	}
//	@group(0) @binding(0) var<uniform> params: Params;
//	@group(0) @binding(1) var<storage, read> src_a: array<vec4<f32>>;
//	@group(0) @binding(2) var<storage, read> src_b: array<vec4<f32>>;
//	@group(0) @binding(3) var<storage, read_write> dst: array<vec4<f32>>;
//	@group(0) @binding(4) var<storage, read_write> histogram: array<atomic<u32>>;
//
// Images are row-major arrays of vec4<f32> regardless of their format.
// Host writes and reads are quantized to the format. Kernels must quantize
// their stores to dst the same way so that multi-pass chains through
// normalized images match the software device. The device fills
// texture_size.z with the unorm step count of the destination (255 for
// 8-bit formats, -1 for half floats, 0 for 32-bit floats) and
// texture_size.w with its channel count:
//
//	fn quantize(v: vec4<f32>) -> vec4<f32> {
//	    let steps = params.texture_size.z;
//	    var q = v;
//	    if (steps > 0.0) {
//	        q = floor(clamp(q, vec4(0.0), vec4(1.0)) * steps + 0.5) / steps;
//	    } else if (steps < 0.0) {
//	        q = vec4(unpack2x16float(pack2x16float(q.xy)), unpack2x16float(pack2x16float(q.zw)));
//	    }
//	    let keep = vec4<f32>(vec4(0.0, 1.0, 2.0, 3.0) < vec4(params.texture_size.w));
//	    return q * keep + vec4(0.0, 0.0, 0.0, 1.0) * (1.0 - keep);
//	}
//
// Import the package to register the "wgpu" backend. The registry factory
// requires backend.Options.Programs:
//
//	import _ "github.com/gogpu/texops/backend/wgpu"
//
//	dev, err := backend.Open(backend.BackendWGPU, backend.Options{
//	    Programs: os.DirFS("shaders"),
//	})
//
// To run on the device of a host application, use NewFromProvider.
package wgpu
