// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/chewxy/math32"

// coverage maps the distance outside a shape to [0, 1]. Inside the shape
// coverage is 1; with a falloff it fades linearly over falloff pixels.
func coverage(excess, falloff float32) float32 {
	if excess <= 0 {
		return 1
	}
	if falloff <= 0 {
		return 0
	}
	return saturate(1 - excess/falloff)
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(px, py, ax, ay, bx, by float32) float32 {
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	var t float32
	if l2 > 0 {
		t = saturate(((px-ax)*dx + (py-ay)*dy) / l2)
	}
	ex, ey := px-(ax+t*dx), py-(ay+t*dy)
	return math32.Sqrt(ex*ex + ey*ey)
}

// drawShape registers a shape kernel pair. The shape blends ScalarA over
// the source by its coverage of each pixel.
func drawShape(p programSpec, name string, cov func(inv *invocation, x, y int) float32) {
	p[name] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			t := cov(inv, x, y)
			inv.dst.store(x, y, vlerp(inv.srcA.load(x, y), inv.scalar(regA), vec4{t, t, t, t}))
		}
	})
	p[name+"I"] = pixel(dstOnly, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		if t := cov(inv, x, y); t > 0 {
			inv.dst.store(x, y, vlerp(inv.dst.load(x, y), inv.scalar(regA), vec4{t, t, t, t}))
		}
	})
}

// drawProgram builds the drawing program. Coordinates are pixel indices.
func drawProgram() programSpec {
	p := programSpec{}

	// ScalarB is (centerX, centerY, radius, falloff).
	drawShape(p, "Circle", func(inv *invocation, x, y int) float32 {
		g := inv.scalar(regB)
		dx, dy := float32(x)-g[0], float32(y)-g[1]
		return coverage(math32.Sqrt(dx*dx+dy*dy)-g[2], g[3])
	})

	// ScalarB is (x0, y0, x1, y1), ScalarC is (width, falloff).
	drawShape(p, "Line", func(inv *invocation, x, y int) float32 {
		g, w := inv.scalar(regB), inv.scalar(regC)
		d := segmentDistance(float32(x), float32(y), g[0], g[1], g[2], g[3])
		return coverage(d-w[0]/2, w[1])
	})

	// ScalarB is (width, falloff); the border covers the outer width pixels.
	drawShape(p, "Border", func(inv *invocation, x, y int) float32 {
		g := inv.scalar(regB)
		d := min(x, y, inv.width-1-x, inv.height-1-y)
		return coverage(float32(d)-g[0]+1, g[1])
	})

	return p
}
