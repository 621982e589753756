// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a CPU implementation of gpucore.Device.
//
// The device executes every texops kernel on the CPU, one goroutine per
// work group row, and doubles as the executable reference of the kernel
// contracts that GPU hosts must implement in their own programs.
//
// The software device is automatically registered on import:
//
//	import _ "github.com/gogpu/texops/backend/software"
//
// # Programs
//
// Three programs are built in, named with a prefix ("texops" by default):
//
//	texops/math  SetC Copy SetCMaskedC[I] SetCMasked[I] AddC[I] Add[I]
//	             AddWeighted[I] MultiplyC[I] Multiply[I] MultiplyCAddC[I]
//	             MultiplyCAddCSat[I] Clamp[I] Saturate[I]
//	texops/ip    Grayscale[I] GrayscaleGamma[I] Threshold[I]
//	             ConvertRGB2HSV[I] ConvertHSV2RGB[I] Swizzle[I] Lookup[I]
//	             FlipHorizontal[I] FlipVertical[I] Rotate180[I]
//	             DistanceTransformInit/Step/Sqrt Erode Dilate Skeletonize
//	             Sobel Scharr Median3x3 Median5x5 Bilateral BlurGaussian
//	             RecursiveConvolveFwd[I] RecursiveConvolveBak
//	             HistogramEqClear/Gather/Accumulate/Map
//	             MaxReduce MinReduce SumReduce Premultiply[I]
//	             ComposeOver/In/Out/Atop/Xor/Plus
//	texops/draw  Circle[I] Line[I] Border[I]
//
// # Kernel Contract
//
// Kernels read SrcA (and SrcB) and write Dst at the thread coordinate.
// Variants suffixed I read and write Dst and never bind SrcA. Threads
// outside TextureSize return without writing. Pixel kernels use 8x8 work
// groups, the recursive convolution kernels 64x1 with one thread per row.
//
// Every store to Dst is quantized to the Dst format, so a later pass reads
// the value the format holds. Hosts keeping wider intermediates must
// quantize kernel stores the same way; the wgpu host passes the Dst format
// to its WGSL programs for this.
//
// Parameters are four vectors ScalarA..ScalarD, TextureSize (width,
// height) and TexelSize (1/width, 1/height). The histogram kernels bind a
// buffer of 256x4 uint32 counters to the Histogram slot; HistogramEqClear
// runs one 256 thread group and HistogramEqAccumulate one 4 thread group,
// each thread summing one channel sequentially.
//
// The reduction kernels bind only Dst. A pass over TextureSize (w, h)
// folds pixel (x, y) with (x+hw, y), (x, y+hh) and (x+hw, y+hh), where
// hw = ceil(w/2) and hh = ceil(h/2), into (x, y).
//
// The in-place flip and rotate kernels are dispatched over half the image
// and swap pixel pairs.
package software
