// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"fmt"

	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/compute"
)

// HistogramBuckets is the number of buckets per channel.
const HistogramBuckets = gpucore.HistogramBuckets

// HistogramBuffer is a device buffer of per channel histogram counters,
// 256 buckets of 4 channels. Release it when done.
type HistogramBuffer struct {
	dev      gpucore.Device
	id       gpucore.BufferID
	released bool
}

// ID returns the device buffer handle.
func (h *HistogramBuffer) ID() gpucore.BufferID { return h.id }

// Counts reads the counters back. Entry i holds the count of bucket i for
// each channel.
func (h *HistogramBuffer) Counts() ([HistogramBuckets]Vec4, error) {
	var out [HistogramBuckets]Vec4
	if h.released {
		return out, fmt.Errorf("texops: histogram buffer used after release: %w", ErrResourceLifecycle)
	}
	raw, err := h.dev.ReadBuffer(h.id)
	if err != nil {
		return out, fmt.Errorf("texops: read histogram: %w", err)
	}
	if len(raw) < HistogramBuckets*gpucore.HistogramChannels {
		return out, fmt.Errorf("texops: histogram buffer holds %d counters: %w", len(raw), ErrDimensionMismatch)
	}
	for i := range out {
		for ch := range gpucore.HistogramChannels {
			out[i][ch] = float32(raw[i*gpucore.HistogramChannels+ch])
		}
	}
	return out, nil
}

// Release destroys the buffer. A second release fails with
// ErrResourceLifecycle.
func (h *HistogramBuffer) Release() error {
	if h.released {
		return fmt.Errorf("texops: histogram buffer released twice: %w", ErrResourceLifecycle)
	}
	h.released = true
	h.dev.DestroyBuffer(h.id)
	return nil
}

// HistogramBuffer gathers the histogram of src into a new device buffer.
// Channel values are bucketed as floor(saturate(v)*255 + 0.5).
func (c *Context) HistogramBuffer(src *Image) (*HistogramBuffer, error) {
	if err := src.Check(); err != nil {
		return nil, wrap("histogram", err)
	}
	id, err := c.dev.CreateBuffer(HistogramBuckets * gpucore.HistogramChannels)
	if err != nil {
		return nil, wrap("histogram", err)
	}
	h := &HistogramBuffer{dev: c.dev, id: id}
	if err := c.gatherHistogram(src, h); err != nil {
		return nil, errors.Join(wrap("histogram", err), h.Release())
	}
	return h, nil
}

// Histogram returns the histogram of src.
func (c *Context) Histogram(src *Image) (counts [HistogramBuckets]Vec4, err error) {
	h, err := c.HistogramBuffer(src)
	if err != nil {
		return counts, err
	}
	defer func() { err = errors.Join(err, h.Release()) }()
	return h.Counts()
}

func (c *Context) gatherHistogram(src *Image, h *HistogramBuffer) error {
	c.ip.SetSize(src.Width(), src.Height())

	if err := c.ip.BindBuffer(compute.HistogramEqClear, gpucore.SlotHistogram, h.id); err != nil {
		return err
	}
	if err := c.ip.DispatchGroups(compute.HistogramEqClear, 1, 1); err != nil {
		return err
	}

	if err := c.ip.BindBuffer(compute.HistogramEqGather, gpucore.SlotHistogram, h.id); err != nil {
		return err
	}
	if err := c.ip.BindImage(compute.HistogramEqGather, gpucore.SlotSrcA, src); err != nil {
		return err
	}
	return c.ip.Dispatch(compute.HistogramEqGather)
}

// EqualizeHistogram maps every channel of src through its cumulative
// distribution, spreading values over [0, 1]. src and dst may be the same
// image.
func (c *Context) EqualizeHistogram(src, dst *Image) (err error) {
	if err := dst.Check(); err != nil {
		return wrap("equalize histogram", err)
	}
	if err := src.Check(); err != nil {
		return wrap("equalize histogram", err)
	}
	if !src.SameSize(dst) {
		return fmt.Errorf("texops: equalize histogram: source %s, destination %s: %w",
			src.Descriptor(), dst.Descriptor(), ErrDimensionMismatch)
	}

	h, err := c.HistogramBuffer(src)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, h.Release()) }()

	s := c.pool.Scope()
	defer func() { err = errors.Join(err, wrap("equalize histogram", s.Close())) }()

	if err := c.ip.BindBuffer(compute.HistogramEqAccumulate, gpucore.SlotHistogram, h.id); err != nil {
		return wrap("equalize histogram", err)
	}
	if err := c.ip.DispatchGroups(compute.HistogramEqAccumulate, 1, 1); err != nil {
		return wrap("equalize histogram", err)
	}

	// The map kernel has no in-place variant.
	out := dst
	if src.Same(dst) {
		if out, err = s.AcquireMatching(dst, false); err != nil {
			return wrap("equalize histogram", err)
		}
	}
	c.ip.SetSize(src.Width(), src.Height())
	if err := c.ip.BindBuffer(compute.HistogramEqMap, gpucore.SlotHistogram, h.id); err != nil {
		return wrap("equalize histogram", err)
	}
	if err := c.ip.BindImage(compute.HistogramEqMap, gpucore.SlotSrcA, src); err != nil {
		return wrap("equalize histogram", err)
	}
	if err := c.ip.BindImage(compute.HistogramEqMap, gpucore.SlotDst, out); err != nil {
		return wrap("equalize histogram", err)
	}
	if err := c.ip.Dispatch(compute.HistogramEqMap); err != nil {
		return wrap("equalize histogram", err)
	}
	if out != dst {
		return wrap("equalize histogram", c.Copy(out, dst))
	}
	return nil
}
