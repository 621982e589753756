// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/gogpu/texops/gpucore"

// surface is the storage of one device image.
// Pixels are kept as float vectors already quantized to the format.
type surface struct {
	width       int
	height      int
	format      gpucore.Format
	randomWrite bool
	pix         []gpucore.Vec4
}

func newSurface(width, height int, format gpucore.Format, randomWrite bool) *surface {
	s := &surface{
		width:       width,
		height:      height,
		format:      format,
		randomWrite: randomWrite,
		pix:         make([]gpucore.Vec4, width*height),
	}
	zero := format.Quantize(gpucore.Vec4{})
	for i := range s.pix {
		s.pix[i] = zero
	}
	return s
}

func (s *surface) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.width && y < s.height
}

// load returns the pixel at (x, y), or zero outside the image.
func (s *surface) load(x, y int) gpucore.Vec4 {
	if !s.inBounds(x, y) {
		return gpucore.Vec4{}
	}
	return s.pix[y*s.width+x]
}

// loadClamped returns the pixel at (x, y) with coordinates clamped to the edge.
func (s *surface) loadClamped(x, y int) gpucore.Vec4 {
	x = min(max(x, 0), s.width-1)
	y = min(max(y, 0), s.height-1)
	return s.pix[y*s.width+x]
}

// store writes a pixel quantized to the format. Writes outside the image
// are dropped.
func (s *surface) store(x, y int, v gpucore.Vec4) {
	if !s.inBounds(x, y) {
		return
	}
	s.pix[y*s.width+x] = s.format.Quantize(v)
}
