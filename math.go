// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/compute"
)

// Copy copies src into dst. Copying an image onto itself does nothing.
func (c *Context) Copy(src, dst *Image) error {
	if src.Same(dst) {
		return wrap("copy", src.Check())
	}
	return wrap("copy", c.math.Unary(compute.Copy, src, dst, compute.Scalars{}))
}

// Clear sets every pixel of dst to zero.
func (c *Context) Clear(dst *Image) error {
	return wrap("clear", c.math.Unary(compute.SetC, nil, dst, compute.Scalars{}.A(Vec4{})))
}

// Set sets every pixel of dst to v.
func (c *Context) Set(dst *Image, v Vec4) error {
	return wrap("set", c.math.Unary(compute.SetC, nil, dst, compute.Scalars{}.A(v)))
}

// SetMaskedChannels sets the channels of src where mask is 1 to v and
// copies the others: dst = src + (v - src) * mask.
func (c *Context) SetMaskedChannels(src, dst *Image, v, mask Vec4) error {
	return wrap("set masked channels", c.math.Unary(compute.SetCMaskedC, src, dst, compute.Scalars{}.A(v).B(mask)))
}

// SetMasked blends v over src weighted by the red channel of mask.
func (c *Context) SetMasked(src, mask, dst *Image, v Vec4) error {
	return wrap("set masked", c.math.Binary(compute.SetCMasked, compute.Args{
		SrcA: src, SrcB: mask, Dst: dst, Scalars: compute.Scalars{}.A(v),
	}))
}

// AddScalar computes dst = src + v.
func (c *Context) AddScalar(src, dst *Image, v Vec4) error {
	return wrap("add scalar", c.math.Unary(compute.AddC, src, dst, compute.Scalars{}.A(v)))
}

// Add computes dst = a + b.
func (c *Context) Add(a, b, dst *Image) error {
	return wrap("add", c.math.Binary(compute.Add, compute.Args{SrcA: a, SrcB: b, Dst: dst}))
}

// AddWeighted computes dst = a*wa + b*wb per channel.
func (c *Context) AddWeighted(a, b, dst *Image, wa, wb Vec4) error {
	return wrap("add weighted", c.math.Binary(compute.AddWeighted, compute.Args{
		SrcA: a, SrcB: b, Dst: dst, Scalars: compute.Scalars{}.A(wa).B(wb),
	}))
}

// Lerp computes dst = a + (b - a) * t.
func (c *Context) Lerp(a, b, dst *Image, t float32) error {
	return wrap("lerp", c.math.Binary(compute.AddWeighted, compute.Args{
		SrcA: a, SrcB: b, Dst: dst,
		Scalars: compute.Scalars{}.A(gpucore.Splat(1 - t)).B(gpucore.Splat(t)),
	}))
}

// MultiplyScalar computes dst = src * v.
func (c *Context) MultiplyScalar(src, dst *Image, v Vec4) error {
	return wrap("multiply scalar", c.math.Unary(compute.MultiplyC, src, dst, compute.Scalars{}.A(v)))
}

// Multiply computes dst = a * b.
func (c *Context) Multiply(a, b, dst *Image) error {
	return wrap("multiply", c.math.Binary(compute.Multiply, compute.Args{SrcA: a, SrcB: b, Dst: dst}))
}

// MultiplyAdd computes dst = src*scale + offset, saturated to [0, 1] when
// saturate is set.
func (c *Context) MultiplyAdd(src, dst *Image, scale, offset Vec4, saturate bool) error {
	k := compute.MultiplyCAddC
	if saturate {
		k = compute.MultiplyCAddCSat
	}
	return wrap("multiply add", c.math.Unary(k, src, dst, compute.Scalars{}.A(scale).B(offset)))
}

// Clamp clamps every channel of src to [lo, hi].
func (c *Context) Clamp(src, dst *Image, lo, hi Vec4) error {
	return wrap("clamp", c.math.Unary(compute.Clamp, src, dst, compute.Scalars{}.A(lo).B(hi)))
}

// Saturate clamps every channel of src to [0, 1].
func (c *Context) Saturate(src, dst *Image) error {
	return wrap("saturate", c.math.Unary(compute.Saturate, src, dst, compute.Scalars{}))
}

// Remap maps [fromMin, fromMax] linearly onto [toMin, toMax] per channel.
// A channel with an empty source range maps to toMin.
func (c *Context) Remap(src, dst *Image, fromMin, fromMax, toMin, toMax Vec4) error {
	scale, offset := remapCoeffs(fromMin, fromMax, toMin, toMax)
	return wrap("remap", c.math.Unary(compute.MultiplyCAddC, src, dst, compute.Scalars{}.A(scale).B(offset)))
}

// remapCoeffs returns the scale and offset of a linear range mapping.
func remapCoeffs(fromMin, fromMax, toMin, toMax Vec4) (scale, offset Vec4) {
	for i := range 4 {
		if r := fromMax[i] - fromMin[i]; r != 0 {
			scale[i] = (toMax[i] - toMin[i]) / r
		}
		offset[i] = toMin[i] - fromMin[i]*scale[i]
	}
	return scale, offset
}
