// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/compute"
)

// GaussianCoeffs returns the incremental Gaussian of a blur kernel of the
// given size: (1/(sqrt(2*pi)*sigma), exp(-0.5/sigma^2), its square, size).
// A sigma <= 0 is derived from the size as 0.15*size + 0.35.
func GaussianCoeffs(size int, sigma float32) Vec4 {
	if sigma <= 0 {
		sigma = 0.15*float32(size) + 0.35
	}
	decay := math32.Exp(-0.5 / (sigma * sigma))
	return Vec4{
		1 / (math32.Sqrt(2*math32.Pi) * sigma),
		decay,
		decay * decay,
		float32(size),
	}
}

// RecursiveGaussianCoeffs returns the (B, b1, b2, b3) coefficients of the
// Young and van Vliet recursive Gaussian. Sigmas below 0.5 give the
// identity filter.
func RecursiveGaussianCoeffs(sigma float32) Vec4 {
	s := float64(sigma)
	var q float64
	switch {
	case s >= 2.5:
		q = 0.98711*s - 0.96330
	case s >= 0.5:
		q = 3.97156 - 4.14554*math.Sqrt(1-0.26891*s)
	}
	q2 := q * q
	q3 := q * q2

	b0 := 1.57825 + 2.44413*q + 1.4281*q2 + 0.422205*q3
	b1 := (2.44413*q + 2.85619*q2 + 1.26661*q3) / b0
	b2 := (-1.4281*q2 - 1.26661*q3) / b0
	b3 := (0.422205 * q3) / b0
	return Vec4{float32(1 - b1 - b2 - b3), float32(b1), float32(b2), float32(b3)}
}

func checkKernelSize(op string, size int) error {
	if size < 1 {
		return fmt.Errorf("texops: %s: kernel size %d: %w", op, size, ErrInvalidOperation)
	}
	return nil
}

// BlurGaussian applies a separable Gaussian blur of the given kernel size.
// A sigma <= 0 is derived from the size. src and dst may be the same image.
func (c *Context) BlurGaussian(src, dst *Image, size int, sigma float32) (err error) {
	if err := checkKernelSize("blur gaussian", size); err != nil {
		return err
	}
	s := c.pool.Scope()
	defer func() { err = errors.Join(err, wrap("blur gaussian", s.Close())) }()

	tmp, err := s.AcquireMatching(dst, false)
	if err != nil {
		return wrap("blur gaussian", err)
	}
	g := GaussianCoeffs(size, sigma)
	if err := c.ip.Unary(compute.BlurGaussian, src, tmp, compute.Scalars{}.A(g).B(Vec4{1, 0, 0, 0})); err != nil {
		return wrap("blur gaussian", err)
	}
	return wrap("blur gaussian", c.ip.Unary(compute.BlurGaussian, tmp, dst, compute.Scalars{}.A(g).B(Vec4{0, 1, 0, 0})))
}

// BlurGaussianRecursive applies a recursive Gaussian blur whose cost does
// not depend on sigma.
func (c *Context) BlurGaussianRecursive(src, dst *Image, sigma float32) error {
	return c.RecursiveConvolve(src, dst, RecursiveGaussianCoeffs(sigma))
}

// RecursiveConvolve runs the third order recursive filter with
// coefficients (B, b1, b2, b3) forwards and backwards along rows and then
// along columns. Rows are processed in parallel, one thread each; the
// backward passes transpose their output so that columns are filtered as
// rows. src and dst may be the same image.
func (c *Context) RecursiveConvolve(src, dst *Image, coeffs Vec4) (err error) {
	if err := src.Check(); err != nil {
		return wrap("recursive convolve", err)
	}
	if err := dst.Check(); err != nil {
		return wrap("recursive convolve", err)
	}
	if !src.SameSize(dst) {
		return fmt.Errorf("texops: recursive convolve: source %s, destination %s: %w",
			src.Descriptor(), dst.Descriptor(), ErrDimensionMismatch)
	}

	s := c.pool.Scope()
	defer func() { err = errors.Join(err, wrap("recursive convolve", s.Close())) }()

	tmp, err := s.AcquireTransposed(dst)
	if err != nil {
		return wrap("recursive convolve", err)
	}
	scalars := compute.Scalars{}.A(coeffs)
	w, h := dst.Width(), dst.Height()

	// Rows forward src -> dst.
	fwd := compute.RecursiveConvolveFwd
	if src.Same(dst) {
		fwd = compute.RecursiveConvolveFwdI
	}
	if err := c.convolveRows(fwd, src, dst, w, h, scalars); err != nil {
		return wrap("recursive convolve", err)
	}
	// Rows backward, transposed dst -> tmp.
	if err := c.convolveRows(compute.RecursiveConvolveBak, dst, tmp, w, h, scalars); err != nil {
		return wrap("recursive convolve", err)
	}
	// Columns forward in place on tmp.
	if err := c.convolveRows(compute.RecursiveConvolveFwdI, tmp, tmp, h, w, scalars); err != nil {
		return wrap("recursive convolve", err)
	}
	// Columns backward, transposed tmp -> dst.
	return wrap("recursive convolve", c.convolveRows(compute.RecursiveConvolveBak, tmp, dst, h, w, scalars))
}

// convolveRows dispatches one row kernel over a width x height pipeline
// with one thread per row. In-place kernels bind only Dst.
func (c *Context) convolveRows(k compute.Kernel, src, dst *Image, width, height int, s compute.Scalars) error {
	c.ip.SetSize(width, height)
	c.ip.SetScalars(s)
	if !k.IsInPlace() {
		if err := c.ip.BindImage(k, gpucore.SlotSrcA, src); err != nil {
			return err
		}
	}
	if err := c.ip.BindImage(k, gpucore.SlotDst, dst); err != nil {
		return err
	}
	return c.ip.DispatchDomain(k, height, 1)
}

// Bilateral applies an edge preserving blur. Spatial weights follow a
// Gaussian of the kernel size and sigma, color weights a Gaussian of
// colorSigma. It cannot run in place.
func (c *Context) Bilateral(src, dst *Image, size int, sigma, colorSigma float32) error {
	if err := checkKernelSize("bilateral", size); err != nil {
		return err
	}
	if colorSigma <= 0 {
		return fmt.Errorf("texops: bilateral: color sigma %g: %w", colorSigma, ErrInvalidOperation)
	}
	s := compute.Scalars{}.A(GaussianCoeffs(size, sigma)).B(Vec4{-0.5 / (colorSigma * colorSigma), 0, 0, 0})
	return wrap("bilateral", c.ip.Unary(compute.Bilateral, src, dst, s))
}

// Median3x3 replaces each channel with the median of its 3x3
// neighborhood. It cannot run in place.
func (c *Context) Median3x3(src, dst *Image) error {
	return wrap("median 3x3", c.ip.Unary(compute.Median3x3, src, dst, compute.Scalars{}))
}

// Median5x5 replaces each channel with the median of its 5x5
// neighborhood. It cannot run in place.
func (c *Context) Median5x5(src, dst *Image) error {
	return wrap("median 5x5", c.ip.Unary(compute.Median5x5, src, dst, compute.Scalars{}))
}

// Sobel computes the gradient magnitude of the color channels with the
// Sobel operator. Alpha is copied. It cannot run in place.
func (c *Context) Sobel(src, dst *Image) error {
	return wrap("sobel", c.ip.Unary(compute.Sobel, src, dst, compute.Scalars{}))
}

// Scharr is Sobel with the Scharr weights.
func (c *Context) Scharr(src, dst *Image) error {
	return wrap("scharr", c.ip.Unary(compute.Scharr, src, dst, compute.Scalars{}))
}
