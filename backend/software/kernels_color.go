// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/chewxy/math32"

// Luminance weights.
var (
	lumaLinear = vec4{0.2126, 0.7152, 0.0722, 0} // Rec. 709, linear input
	lumaGamma  = vec4{0.299, 0.587, 0.114, 0}    // Rec. 601, gamma encoded input
)

func luma(v, w vec4) vec4 {
	l := v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
	return vec4{l, l, l, v[3]}
}

// rgbToHSV converts with hue, saturation and value in [0, 1].
func rgbToHSV(v vec4) vec4 {
	r, g, b := v[0], v[1], v[2]
	hi := math32.Max(r, math32.Max(g, b))
	lo := math32.Min(r, math32.Min(g, b))
	d := hi - lo

	var h float32
	switch {
	case d == 0:
		h = 0
	case hi == r:
		h = (g - b) / d
		if h < 0 {
			h += 6
		}
	case hi == g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	var s float32
	if hi > 0 {
		s = d / hi
	}
	return vec4{h / 6, s, hi, v[3]}
}

func hsvToRGB(v vec4) vec4 {
	h, s, val := v[0], v[1], v[2]
	h = (h - math32.Floor(h)) * 6
	c := val * s
	x := c * (1 - math32.Abs(math32.Mod(h, 2)-1))
	m := val - c

	var r, g, b float32
	switch int(h) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return vec4{r + m, g + m, b + m, v[3]}
}

func channelIndex(f float32) int {
	return min(max(int(f), 0), 3)
}

// lookup maps the red channel through the first row of the palette in SrcB.
func lookup(inv *invocation, v vec4) vec4 {
	pal := inv.srcB
	i := int(math32.Floor(saturate(v[0])*float32(pal.width-1) + 0.5))
	return pal.load(i, 0)
}

// ipColorKernels adds the color conversion and geometric kernels.
func ipColorKernels(p programSpec) {
	addUnary(p, "Grayscale", func(_ *invocation, v vec4) vec4 { return luma(v, lumaLinear) })
	addUnary(p, "GrayscaleGamma", func(_ *invocation, v vec4) vec4 { return luma(v, lumaGamma) })

	// Channels at or above ScalarA become 1, others 0.
	addUnary(p, "Threshold", func(inv *invocation, v vec4) vec4 {
		t := inv.scalar(regA)
		var out vec4
		for c := range 4 {
			if v[c] >= t[c] {
				out[c] = 1
			}
		}
		return out
	})

	addUnary(p, "ConvertRGB2HSV", func(_ *invocation, v vec4) vec4 { return rgbToHSV(v) })
	addUnary(p, "ConvertHSV2RGB", func(_ *invocation, v vec4) vec4 { return hsvToRGB(v) })

	// Output channel i takes input channel ScalarA[i].
	addUnary(p, "Swizzle", func(inv *invocation, v vec4) vec4 {
		ch := inv.scalar(regA)
		return vec4{v[channelIndex(ch[0])], v[channelIndex(ch[1])], v[channelIndex(ch[2])], v[channelIndex(ch[3])]}
	})

	p["Lookup"] = pixel(srcSrcDst, unary(lookup))
	p["LookupI"] = pixel(dstSrcB, unaryInPlace(lookup))

	p["FlipHorizontal"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, inv.srcA.load(inv.width-1-x, y))
		}
	})
	p["FlipVertical"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, inv.srcA.load(x, inv.height-1-y))
		}
	})
	p["Rotate180"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, inv.srcA.load(inv.width-1-x, inv.height-1-y))
		}
	})

	// In-place variants run over half the image and swap pixel pairs.
	p["FlipHorizontalI"] = pixel(dstOnly, func(inv *invocation, x, y int) {
		if x < (inv.width+1)/2 && y < inv.height {
			swap(inv.dst, x, y, inv.width-1-x, y)
		}
	})
	p["FlipVerticalI"] = pixel(dstOnly, func(inv *invocation, x, y int) {
		if x < inv.width && y < (inv.height+1)/2 {
			swap(inv.dst, x, y, x, inv.height-1-y)
		}
	})
	p["Rotate180I"] = pixel(dstOnly, func(inv *invocation, x, y int) {
		if x >= inv.width || y >= (inv.height+1)/2 {
			return
		}
		ox, oy := inv.width-1-x, inv.height-1-y
		// The middle row of an odd height image pairs with itself.
		if oy == y && x >= ox {
			return
		}
		swap(inv.dst, x, y, ox, oy)
	})
}

func swap(s *surface, x0, y0, x1, y1 int) {
	a, b := s.load(x0, y0), s.load(x1, y1)
	s.store(x0, y0, b)
	s.store(x1, y1, a)
}

// premultiply scales color by alpha.
func premultiply(_ *invocation, v vec4) vec4 {
	return vec4{v[0] * v[3], v[1] * v[3], v[2] * v[3], v[3]}
}
