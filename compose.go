// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import "github.com/gogpu/texops/internal/compute"

// Compositing takes straight alpha inputs A and B and writes premultiplied
// color. With aA and aB the source alphas:
//
//	Op    Color                     Alpha
//	Over  aA*A + (1-aA)*aB*B        aA + (1-aA)*aB
//	In    aA*A*aB                   aA*aB
//	Out   aA*A*(1-aB)               aA*(1-aB)
//	Atop  aA*A*aB + (1-aA)*aB*B     aA*aB + (1-aA)*aB
//	Xor   aA*A*(1-aB) + (1-aA)*aB*B aA*(1-aB) + (1-aA)*aB
//	Plus  aA*A + aB*B               aA + aB
//
// None of the compositing operations run in place.

// Premultiply multiplies color by alpha.
func (c *Context) Premultiply(src, dst *Image) error {
	return wrap("premultiply", c.ip.Unary(compute.Premultiply, src, dst, compute.Scalars{}))
}

// ComposeOver places a over b; a occludes b.
func (c *Context) ComposeOver(a, b, dst *Image) error {
	return c.compose("compose over", compute.ComposeOver, a, b, dst)
}

// ComposeIn shows a only where b is visible.
func (c *Context) ComposeIn(a, b, dst *Image) error {
	return c.compose("compose in", compute.ComposeIn, a, b, dst)
}

// ComposeOut shows a only where b is not visible.
func (c *Context) ComposeOut(a, b, dst *Image) error {
	return c.compose("compose out", compute.ComposeOut, a, b, dst)
}

// ComposeAtop shows a over b, only where b is visible.
func (c *Context) ComposeAtop(a, b, dst *Image) error {
	return c.compose("compose atop", compute.ComposeAtop, a, b, dst)
}

// ComposeXor shows a and b where they do not overlap.
func (c *Context) ComposeXor(a, b, dst *Image) error {
	return c.compose("compose xor", compute.ComposeXor, a, b, dst)
}

// ComposePlus adds a and b without precedence.
func (c *Context) ComposePlus(a, b, dst *Image) error {
	return c.compose("compose plus", compute.ComposePlus, a, b, dst)
}

func (c *Context) compose(op string, k compute.Kernel, a, b, dst *Image) error {
	return wrap(op, c.ip.Binary(k, compute.Args{SrcA: a, SrcB: b, Dst: dst}))
}
