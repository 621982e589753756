// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/texops/gpucore"
)

// texelSize is the size of one image pixel on the device: vec4<f32>.
const texelSize = 16

// encodeVec4s packs vectors as little-endian f32 quadruples.
func encodeVec4s(vs []gpucore.Vec4) []byte {
	out := make([]byte, len(vs)*texelSize)
	for i, v := range vs {
		for c := range 4 {
			binary.LittleEndian.PutUint32(out[i*texelSize+c*4:], math.Float32bits(v[c]))
		}
	}
	return out
}

// decodeVec4s unpacks little-endian f32 quadruples.
func decodeVec4s(b []byte) []gpucore.Vec4 {
	out := make([]gpucore.Vec4, len(b)/texelSize)
	for i := range out {
		for c := range 4 {
			out[i][c] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*texelSize+c*4:]))
		}
	}
	return out
}

// decodeUint32s unpacks little-endian u32 words.
func decodeUint32s(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}
