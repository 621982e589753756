// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/texops/gpucore"
)

type vec4 = gpucore.Vec4

func vadd(a, b vec4) vec4 { return vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]} }

func vsub(a, b vec4) vec4 { return vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]} }

func vmul(a, b vec4) vec4 { return vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]} }

func vscale(a vec4, s float32) vec4 { return vec4{a[0] * s, a[1] * s, a[2] * s, a[3] * s} }

// vlerp returns a + (b-a)*t per component.
func vlerp(a, b, t vec4) vec4 { return vadd(a, vmul(vsub(b, a), t)) }

func vmin(a, b vec4) vec4 {
	return vec4{math32.Min(a[0], b[0]), math32.Min(a[1], b[1]), math32.Min(a[2], b[2]), math32.Min(a[3], b[3])}
}

func vmax(a, b vec4) vec4 {
	return vec4{math32.Max(a[0], b[0]), math32.Max(a[1], b[1]), math32.Max(a[2], b[2]), math32.Max(a[3], b[3])}
}

func vclamp(v, lo, hi vec4) vec4 { return vmin(vmax(v, lo), hi) }

func saturate(x float32) float32 { return math32.Max(0, math32.Min(1, x)) }

func vsaturate(v vec4) vec4 {
	return vec4{saturate(v[0]), saturate(v[1]), saturate(v[2]), saturate(v[3])}
}
