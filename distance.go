// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"math/bits"

	"github.com/gogpu/texops/internal/compute"
)

// jumpFloodPasses returns ceil(log2(n)), the number of jump flood passes
// needed to propagate seeds across n pixels.
func jumpFloodPasses(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// DistanceTransform computes, for every pixel, the Euclidean distance to
// the nearest seed with the jump flood algorithm. A seed is a pixel with
// any non-zero color channel.
//
// The result is (distance, seedX, seedY, seedValue); pixels of an image
// without seeds get a very large distance and seed (-1, -1). With squared
// set the squared distance is stored. dst should have a float format to
// hold distances above 1.
func (c *Context) DistanceTransform(src, dst *Image, squared bool) (err error) {
	if err := src.Check(); err != nil {
		return wrap("distance transform", err)
	}
	s := c.pool.Scope()
	defer func() { err = errors.Join(err, wrap("distance transform", s.Close())) }()

	a, err := s.Acquire(src.Width(), src.Height(), FormatRGBA32Float)
	if err != nil {
		return wrap("distance transform", err)
	}
	b, err := s.Acquire(src.Width(), src.Height(), FormatRGBA32Float)
	if err != nil {
		return wrap("distance transform", err)
	}

	if err := c.ip.Unary(compute.DistanceTransformInit, src, a, compute.Scalars{}); err != nil {
		return wrap("distance transform", err)
	}

	passes := jumpFloodPasses(max(src.Width(), src.Height()))
	for i := range passes {
		step := 1 << (passes - 1 - i)
		if err := c.ip.Unary(compute.DistanceTransformStep, a, b, compute.Scalars{}.A(Vec4{float32(step), 0, 0, 0})); err != nil {
			return wrap("distance transform", err)
		}
		a, b = b, a
	}

	if !squared {
		if err := c.ip.Unary(compute.DistanceTransformSqrt, a, b, compute.Scalars{}); err != nil {
			return wrap("distance transform", err)
		}
		a, b = b, a
	}
	return wrap("distance transform", c.Copy(a, dst))
}
