// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"fmt"

	"github.com/gogpu/texops/internal/compute"
)

// Erode replaces each pixel with the per channel minimum of its 3x3
// neighborhood, clamping at the edges. It cannot run in place.
func (c *Context) Erode(src, dst *Image) error {
	return wrap("erode", c.ip.Unary(compute.Erode, src, dst, compute.Scalars{}))
}

// Dilate replaces each pixel with the per channel maximum of its 3x3
// neighborhood, clamping at the edges. It cannot run in place.
func (c *Context) Dilate(src, dst *Image) error {
	return wrap("dilate", c.ip.Unary(compute.Dilate, src, dst, compute.Scalars{}))
}

// Skeletonize thins the foreground of src (red above 0.5) to a one pixel
// wide skeleton with the Zhang-Suen algorithm. Each iteration runs both
// sub-iterations; removed pixels become transparent black with their
// alpha kept. With clearBorder the outermost pixel ring of dst is cleared
// afterwards. src and dst may be the same image.
func (c *Context) Skeletonize(src, dst *Image, iterations int, clearBorder bool) (err error) {
	if iterations < 0 {
		return fmt.Errorf("texops: skeletonize: %d iterations: %w", iterations, ErrInvalidOperation)
	}
	if err := src.Check(); err != nil {
		return wrap("skeletonize", err)
	}
	s := c.pool.Scope()
	defer func() { err = errors.Join(err, wrap("skeletonize", s.Close())) }()

	if iterations == 0 {
		if err := c.Copy(src, dst); err != nil {
			return wrap("skeletonize", err)
		}
	} else {
		tmp, err := s.AcquireMatching(src, false)
		if err != nil {
			return wrap("skeletonize", err)
		}
		for i := range iterations {
			in := dst
			if i == 0 {
				in = src
			}
			if err := c.ip.Unary(compute.Skeletonize, in, tmp, compute.Scalars{}.A(Vec4{0, 0, 0, 0})); err != nil {
				return wrap("skeletonize", err)
			}
			if err := c.ip.Unary(compute.Skeletonize, tmp, dst, compute.Scalars{}.A(Vec4{1, 0, 0, 0})); err != nil {
				return wrap("skeletonize", err)
			}
		}
	}

	if clearBorder {
		return c.Border(dst, dst, Vec4{}, 1, 0)
	}
	return nil
}
