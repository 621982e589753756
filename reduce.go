// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/compute"
)

// MaxValue returns the per channel maximum over all pixels of src.
func (c *Context) MaxValue(src *Image) (Vec4, error) {
	return c.reduce("max value", compute.MaxReduce, src)
}

// MinValue returns the per channel minimum over all pixels of src.
func (c *Context) MinValue(src *Image) (Vec4, error) {
	return c.reduce("min value", compute.MinReduce, src)
}

// SumValue returns the per channel sum over all pixels of src.
func (c *Context) SumValue(src *Image) (Vec4, error) {
	return c.reduce("sum value", compute.SumReduce, src)
}

// AverageValue returns the per channel mean over all pixels of src.
func (c *Context) AverageValue(src *Image) (Vec4, error) {
	sum, err := c.reduce("average value", compute.SumReduce, src)
	if err != nil {
		return Vec4{}, err
	}
	n := float32(src.Width() * src.Height())
	return Vec4{sum[0] / n, sum[1] / n, sum[2] / n, sum[3] / n}, nil
}

// reduce copies src into a float temporary and folds it in place, halving
// each dimension per pass until a single pixel is left.
func (c *Context) reduce(op string, k compute.Kernel, src *Image) (v Vec4, err error) {
	if err := src.Check(); err != nil {
		return v, wrap(op, err)
	}
	s := c.pool.Scope()
	defer func() { err = errors.Join(err, wrap(op, s.Close())) }()

	tmp, err := s.AcquireMatching(src, true)
	if err != nil {
		return v, wrap(op, err)
	}
	if err := c.Copy(src, tmp); err != nil {
		return v, wrap(op, err)
	}

	w, h := src.Width(), src.Height()
	for w > 1 || h > 1 {
		hw, hh := (w+1)/2, (h+1)/2
		c.ip.SetSize(w, h)
		if err := c.ip.BindImage(k, gpucore.SlotDst, tmp); err != nil {
			return v, wrap(op, err)
		}
		if err := c.ip.DispatchDomain(k, hw, hh); err != nil {
			return v, wrap(op, err)
		}
		w, h = hw, hh
	}

	px, err := c.readPixel(tmp)
	if err != nil {
		return v, wrap(op, err)
	}
	return px, nil
}

// readPixel reads pixel (0, 0), polling an asynchronous request to
// completion when the device supports one.
func (c *Context) readPixel(img *Image) (Vec4, error) {
	var (
		px  []Vec4
		err error
	)
	if async, ok := c.dev.(gpucore.AsyncReadback); ok {
		req := async.RequestImage(img.ID(), 0, 0, 1, 1)
		for !req.Done() {
			runtime.Gosched()
		}
		px, err = req.Result()
	} else {
		px, err = c.dev.ReadImage(img.ID(), 0, 0, 1, 1)
	}
	if err != nil {
		return Vec4{}, err
	}
	if len(px) != 1 {
		return Vec4{}, fmt.Errorf("readback returned %d pixels: %w", len(px), ErrDimensionMismatch)
	}
	return px[0], nil
}
