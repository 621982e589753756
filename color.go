// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"fmt"

	"github.com/gogpu/texops/internal/compute"
)

// Grayscale converts linear RGB to luminance (Rec. 709 weights). Alpha is
// kept.
func (c *Context) Grayscale(src, dst *Image) error {
	return wrap("grayscale", c.ip.Unary(compute.Grayscale, src, dst, compute.Scalars{}))
}

// GrayscaleGamma converts gamma encoded RGB to luma (Rec. 601 weights).
func (c *Context) GrayscaleGamma(src, dst *Image) error {
	return wrap("grayscale gamma", c.ip.Unary(compute.GrayscaleGamma, src, dst, compute.Scalars{}))
}

// Threshold sets every channel at or above t to 1 and the rest to 0.
func (c *Context) Threshold(src, dst *Image, t Vec4) error {
	return wrap("threshold", c.ip.Unary(compute.Threshold, src, dst, compute.Scalars{}.A(t)))
}

// RGBToHSV converts RGB to hue, saturation and value, each in [0, 1].
func (c *Context) RGBToHSV(src, dst *Image) error {
	return wrap("rgb to hsv", c.ip.Unary(compute.ConvertRGB2HSV, src, dst, compute.Scalars{}))
}

// HSVToRGB converts hue, saturation and value back to RGB.
func (c *Context) HSVToRGB(src, dst *Image) error {
	return wrap("hsv to rgb", c.ip.Unary(compute.ConvertHSV2RGB, src, dst, compute.Scalars{}))
}

// Swizzle reorders channels: output channel i takes input channel
// channels[i]. Indices are 0 (red) to 3 (alpha).
func (c *Context) Swizzle(src, dst *Image, channels [4]int) error {
	var v Vec4
	for i, ch := range channels {
		if ch < 0 || ch > 3 {
			return fmt.Errorf("texops: swizzle: channel index %d out of range: %w", ch, ErrInvalidOperation)
		}
		v[i] = float32(ch)
	}
	return wrap("swizzle", c.ip.Unary(compute.Swizzle, src, dst, compute.Scalars{}.A(v)))
}

// SwizzlePattern reorders channels by a four letter pattern of "rgba" or
// "xyzw" letters, e.g. "bgra".
func (c *Context) SwizzlePattern(src, dst *Image, pattern string) error {
	channels, err := parseSwizzle(pattern)
	if err != nil {
		return err
	}
	return c.Swizzle(src, dst, channels)
}

func parseSwizzle(pattern string) ([4]int, error) {
	var channels [4]int
	if len(pattern) != 4 {
		return channels, fmt.Errorf("texops: swizzle pattern %q: want 4 channels: %w", pattern, ErrInvalidOperation)
	}
	for i := range 4 {
		switch pattern[i] {
		case 'r', 'x':
			channels[i] = 0
		case 'g', 'y':
			channels[i] = 1
		case 'b', 'z':
			channels[i] = 2
		case 'a', 'w':
			channels[i] = 3
		default:
			return channels, fmt.Errorf("texops: swizzle pattern %q: unknown channel %q: %w",
				pattern, pattern[i], ErrInvalidOperation)
		}
	}
	return channels, nil
}

// Lookup maps the red channel of src through the first row of palette.
// The palette may have any size.
func (c *Context) Lookup(src, palette, dst *Image) error {
	return wrap("lookup", c.ip.Binary(compute.Lookup, compute.Args{SrcA: src, SrcB: palette, Dst: dst}))
}

// Contrast scales color around 0.5. Positive amounts increase contrast by
// 1+amount, negative amounts reduce it by 1/(1-amount). Alpha is kept.
func (c *Context) Contrast(src, dst *Image, amount float32) error {
	s := contrastScale(amount)
	o := 0.5 * (1 - s)
	return c.MultiplyAdd(src, dst, Vec4{s, s, s, 1}, Vec4{o, o, o, 0}, false)
}

func contrastScale(amount float32) float32 {
	if amount < 0 {
		return 1 / (1 - amount)
	}
	return 1 + amount
}
