// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"slices"

	"github.com/chewxy/math32"
)

// noSeed marks a distance transform pixel without a known nearest seed.
const noSeed = math32.MaxFloat32

// neighborhood reduces the 3x3 neighborhood of (x, y) with clamp-to-edge.
func neighborhood(s *surface, x, y int, f func(a, b vec4) vec4) vec4 {
	acc := s.loadClamped(x, y)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			acc = f(acc, s.loadClamped(x+dx, y+dy))
		}
	}
	return acc
}

func median(s *surface, x, y, r int) vec4 {
	n := (2*r + 1) * (2*r + 1)
	vals := make([]float32, n)
	var out vec4
	for c := range 4 {
		i := 0
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				vals[i] = s.loadClamped(x+dx, y+dy)[c]
				i++
			}
		}
		slices.Sort(vals)
		out[c] = vals[n/2]
	}
	return out
}

// gradient returns the per channel magnitude of a 3x3 derivative filter
// with side weight ws and center weight wc. Alpha is copied.
func gradient(s *surface, x, y int, ws, wc float32) vec4 {
	p := func(dx, dy int) vec4 { return s.loadClamped(x+dx, y+dy) }
	var out vec4
	for c := range 3 {
		gx := ws*(p(1, -1)[c]-p(-1, -1)[c]) + wc*(p(1, 0)[c]-p(-1, 0)[c]) + ws*(p(1, 1)[c]-p(-1, 1)[c])
		gy := ws*(p(-1, 1)[c]-p(-1, -1)[c]) + wc*(p(0, 1)[c]-p(0, -1)[c]) + ws*(p(1, 1)[c]-p(1, -1)[c])
		out[c] = math32.Sqrt(gx*gx + gy*gy)
	}
	out[3] = p(0, 0)[3]
	return out
}

// thinningRemoves reports whether one Zhang-Suen half-step removes (x, y).
// parity selects the first (0) or second (1) sub-iteration.
func thinningRemoves(s *surface, x, y, parity int) bool {
	on := func(dx, dy int) int {
		if s.load(x+dx, y+dy)[0] > 0.5 {
			return 1
		}
		return 0
	}
	if on(0, 0) == 0 {
		return false
	}
	// P2..P9 clockwise from north.
	n := [8]int{on(0, -1), on(1, -1), on(1, 0), on(1, 1), on(0, 1), on(-1, 1), on(-1, 0), on(-1, -1)}
	count, transitions := 0, 0
	for i := range 8 {
		count += n[i]
		if n[i] == 0 && n[(i+1)%8] == 1 {
			transitions++
		}
	}
	if count < 2 || count > 6 || transitions != 1 {
		return false
	}
	p2, p4, p6, p8 := n[0], n[2], n[4], n[6]
	if parity == 0 {
		return p2*p4*p6 == 0 && p4*p6*p8 == 0
	}
	return p2*p4*p8 == 0 && p2*p6*p8 == 0
}

// ipFilterKernels adds the neighborhood, blur and distance kernels.
func ipFilterKernels(p programSpec) {
	p["Erode"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, neighborhood(inv.srcA, x, y, vmin))
		}
	})
	p["Dilate"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, neighborhood(inv.srcA, x, y, vmax))
		}
	})

	// ScalarA.x is the sub-iteration parity.
	p["Skeletonize"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		v := inv.srcA.load(x, y)
		if thinningRemoves(inv.srcA, x, y, int(inv.scalar(regA)[0])) {
			v = vec4{0, 0, 0, v[3]}
		}
		inv.dst.store(x, y, v)
	})

	p["Sobel"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, gradient(inv.srcA, x, y, 1, 2))
		}
	})
	p["Scharr"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, gradient(inv.srcA, x, y, 3, 10))
		}
	})

	p["Median3x3"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, median(inv.srcA, x, y, 1))
		}
	})
	p["Median5x5"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, median(inv.srcA, x, y, 2))
		}
	})

	// ScalarA holds the incremental Gaussian (norm, decay, decay^2, size),
	// ScalarB.x is -0.5/colorSigma^2.
	p["Bilateral"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		g := inv.scalar(regA)
		colorK := inv.scalar(regB)[0]
		r := int(g[3]) / 2
		center := inv.srcA.loadClamped(x, y)
		var sum vec4
		var wsum float32
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				v := inv.srcA.loadClamped(x+dx, y+dy)
				d := vsub(v, center)
				w := math32.Pow(g[1], float32(dx*dx+dy*dy)) *
					math32.Exp(colorK*(d[0]*d[0]+d[1]*d[1]+d[2]*d[2]))
				sum = vadd(sum, vscale(v, w))
				wsum += w
			}
		}
		inv.dst.store(x, y, vscale(sum, 1/wsum))
	})

	// ScalarA holds the incremental Gaussian, ScalarB.xy the direction.
	p["BlurGaussian"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		g := inv.scalar(regA)
		dir := inv.scalar(regB)
		dx, dy := int(dir[0]), int(dir[1])
		r := int(g[3]) / 2

		weight, decay := g[0], g[1]
		sum := vscale(inv.srcA.loadClamped(x, y), weight)
		wsum := weight
		for i := 1; i <= r; i++ {
			weight *= decay
			decay *= g[2]
			a := inv.srcA.loadClamped(x-i*dx, y-i*dy)
			b := inv.srcA.loadClamped(x+i*dx, y+i*dy)
			sum = vadd(sum, vscale(vadd(a, b), weight))
			wsum += 2 * weight
		}
		inv.dst.store(x, y, vscale(sum, 1/wsum))
	})

	// Recursive convolution, one thread per row. ScalarA holds (B, b1, b2, b3).
	p["RecursiveConvolveFwd"] = row(srcDst, func(inv *invocation, x, _ int) {
		if x < inv.height {
			convolveForward(inv.srcA, inv.dst, x, inv.width, inv.scalar(regA))
		}
	})
	p["RecursiveConvolveFwdI"] = row(dstOnly, func(inv *invocation, x, _ int) {
		if x < inv.height {
			convolveForward(inv.dst, inv.dst, x, inv.width, inv.scalar(regA))
		}
	})
	// The backward pass writes row y of SrcA to column y of the transposed Dst.
	p["RecursiveConvolveBak"] = row(srcDst, func(inv *invocation, x, _ int) {
		if x < inv.height {
			convolveBackward(inv.srcA, inv.dst, x, inv.width, inv.scalar(regA))
		}
	})

	// A pixel seeds itself when any color channel is non-zero.
	// Output is (d^2, seedX, seedY, seedValue).
	p["DistanceTransformInit"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		v := inv.srcA.load(x, y)
		if v[0] != 0 || v[1] != 0 || v[2] != 0 {
			inv.dst.store(x, y, vec4{0, float32(x), float32(y), v[0]})
			return
		}
		inv.dst.store(x, y, vec4{noSeed, -1, -1, 0})
	})
	// ScalarA.x is the jump step.
	p["DistanceTransformStep"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		step := int(inv.scalar(regA)[0])
		best := inv.srcA.load(x, y)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				qx, qy := x+dx*step, y+dy*step
				if (dx == 0 && dy == 0) || !inv.inDomain(qx, qy) {
					continue
				}
				q := inv.srcA.load(qx, qy)
				if q[1] < 0 {
					continue
				}
				ex, ey := float32(x)-q[1], float32(y)-q[2]
				if d := ex*ex + ey*ey; d < best[0] {
					best = vec4{d, q[1], q[2], q[3]}
				}
			}
		}
		inv.dst.store(x, y, best)
	})
	p["DistanceTransformSqrt"] = pixel(srcDst, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			v := inv.srcA.load(x, y)
			inv.dst.store(x, y, vec4{math32.Sqrt(v[0]), v[1], v[2], v[3]})
		}
	})
}

// convolveForward runs w[i] = B*x[i] + b1*w[i-1] + b2*w[i-2] + b3*w[i-3]
// along row y, starting from the steady state of x[0].
func convolveForward(src, dst *surface, y, width int, c vec4) {
	x0 := src.load(0, y)
	w1, w2, w3 := x0, x0, x0
	for i := range width {
		v := src.load(i, y)
		w := vadd(vadd(vscale(v, c[0]), vscale(w1, c[1])), vadd(vscale(w2, c[2]), vscale(w3, c[3])))
		dst.store(i, y, w)
		w1, w2, w3 = w, w1, w2
	}
}

// convolveBackward runs the recursion from the end of row y and stores the
// result transposed.
func convolveBackward(src, dst *surface, y, width int, c vec4) {
	xn := src.load(width-1, y)
	w1, w2, w3 := xn, xn, xn
	for i := width - 1; i >= 0; i-- {
		v := src.load(i, y)
		w := vadd(vadd(vscale(v, c[0]), vscale(w1, c[1])), vadd(vscale(w2, c[2]), vscale(w3, c[3])))
		dst.store(y, i, w)
		w1, w2, w3 = w, w1, w2
	}
}
