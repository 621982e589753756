// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import "github.com/gogpu/texops/internal/compute"

// Shapes are blended over the source by their coverage of each pixel.
// Coordinates are pixel indices with the origin at the top left. Pixels
// inside the shape take color; with a falloff the coverage fades to zero
// over falloff pixels outside it.

// Circle draws a filled circle.
func (c *Context) Circle(src, dst *Image, color Vec4, cx, cy, radius, falloff float32) error {
	s := compute.Scalars{}.A(color).B(Vec4{cx, cy, radius, falloff})
	return wrap("circle", c.draw.Unary(compute.Circle, src, dst, s))
}

// Line draws a segment from (x0, y0) to (x1, y1) of the given width.
func (c *Context) Line(src, dst *Image, color Vec4, x0, y0, x1, y1, width, falloff float32) error {
	s := compute.Scalars{}.A(color).B(Vec4{x0, y0, x1, y1}).C(Vec4{width, falloff, 0, 0})
	return wrap("line", c.draw.Unary(compute.Line, src, dst, s))
}

// Border draws a frame covering the outermost width pixels of the image.
func (c *Context) Border(src, dst *Image, color Vec4, width, falloff float32) error {
	s := compute.Scalars{}.A(color).B(Vec4{width, falloff, 0, 0})
	return wrap("border", c.draw.Unary(compute.Border, src, dst, s))
}
