// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/compute"
)

// FlipHorizontal mirrors src left to right.
func (c *Context) FlipHorizontal(src, dst *Image) error {
	return wrap("flip horizontal", c.mirror(compute.FlipHorizontal, compute.FlipHorizontalI, src, dst, true, false))
}

// FlipVertical mirrors src top to bottom.
func (c *Context) FlipVertical(src, dst *Image) error {
	return wrap("flip vertical", c.mirror(compute.FlipVertical, compute.FlipVerticalI, src, dst, false, true))
}

// Rotate180 rotates src by half a turn.
func (c *Context) Rotate180(src, dst *Image) error {
	return wrap("rotate 180", c.mirror(compute.Rotate180, compute.Rotate180I, src, dst, false, true))
}

// mirror dispatches a geometric kernel. In place, the swap kernel runs
// over the half of the image selected by halfX or halfY.
func (c *Context) mirror(k, in compute.Kernel, src, dst *Image, halfX, halfY bool) error {
	if !src.Same(dst) {
		return c.ip.Unary(k, src, dst, compute.Scalars{})
	}
	if err := dst.Check(); err != nil {
		return err
	}
	w, h := dst.Width(), dst.Height()
	c.ip.SetSize(w, h)
	if err := c.ip.BindImage(in, gpucore.SlotDst, dst); err != nil {
		return err
	}
	if halfX {
		w = (w + 1) / 2
	}
	if halfY {
		h = (h + 1) / 2
	}
	return c.ip.DispatchDomain(in, w, h)
}
