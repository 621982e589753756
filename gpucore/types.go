// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "golang.org/x/image/math/f32"

// Resource IDs
//
// These opaque IDs represent device resources. Each host implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// ProgramHandle is an opaque handle to a loaded compute program.
type ProgramHandle uint64

// KernelHandle is an opaque handle to one kernel entry point of a program.
type KernelHandle uint64

// ImageID is an opaque handle to a device image.
type ImageID uint64

// BufferID is an opaque handle to a raw device buffer.
type BufferID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// Vec4 is a 4-component float vector. It is used both for pixels and for
// scalar parameter registers.
type Vec4 = f32.Vec4

// Splat returns a Vec4 with all four components set to v.
func Splat(v float32) Vec4 {
	return Vec4{v, v, v, v}
}

// Slot names an image or buffer binding point of a kernel.
type Slot uint8

// Binding slots.
const (
	// SlotSrcA is the first (or only) readable source image.
	SlotSrcA Slot = iota

	// SlotSrcB is the second readable source image.
	SlotSrcB

	// SlotDst is the writable destination image.
	SlotDst

	// SlotHistogram is the raw counter buffer of the histogram kernels.
	SlotHistogram

	slotCount
)

var slotNames = [slotCount]string{
	SlotSrcA:      "SrcA",
	SlotSrcB:      "SrcB",
	SlotDst:       "Dst",
	SlotHistogram: "Histogram",
}

// String returns the shader-side name of the slot.
func (s Slot) String() string {
	if s >= slotCount {
		return "Unknown"
	}
	return slotNames[s]
}

// Param names a program-wide vector parameter.
type Param uint8

// Vector parameters.
const (
	// ParamScalarA..ParamScalarD are the four general purpose registers.
	ParamScalarA Param = iota
	ParamScalarB
	ParamScalarC
	ParamScalarD

	// ParamTextureSize holds (width, height, 0, 0) of the pipeline state.
	ParamTextureSize

	// ParamTexelSize holds (1/width, 1/height, 0, 0) of the pipeline state.
	ParamTexelSize

	// ParamCount is the number of parameters.
	ParamCount
)

var paramNames = [ParamCount]string{
	ParamScalarA:     "ScalarA",
	ParamScalarB:     "ScalarB",
	ParamScalarC:     "ScalarC",
	ParamScalarD:     "ScalarD",
	ParamTextureSize: "TextureSize",
	ParamTexelSize:   "TexelSize",
}

// String returns the shader-side name of the parameter.
func (p Param) String() string {
	if p >= ParamCount {
		return "Unknown"
	}
	return paramNames[p]
}

// HistogramBuckets is the number of buckets per channel of a histogram buffer.
const HistogramBuckets = 256

// HistogramChannels is the number of counters per bucket.
const HistogramChannels = 4
