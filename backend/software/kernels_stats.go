// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/gogpu/texops/gpucore"
)

const (
	buckets  = gpucore.HistogramBuckets
	channels = gpucore.HistogramChannels
)

// bucket quantizes a channel value to one of 256 histogram buckets.
func bucket(v float32) int {
	return int(math32.Floor(saturate(v)*(buckets-1) + 0.5))
}

// reduceKernel folds the four quadrants of a TextureSize domain into the
// top-left quadrant of Dst. Each thread writes only its own pixel and reads
// pixels no thread writes, so the pass is race free in place.
func reduceKernel(f func(a, b vec4) vec4) kernelFunc {
	return func(inv *invocation, x, y int) {
		hw, hh := (inv.width+1)/2, (inv.height+1)/2
		if x >= hw || y >= hh {
			return
		}
		d := inv.dst
		v := d.load(x, y)
		right := x+hw < inv.width
		below := y+hh < inv.height
		if right {
			v = f(v, d.load(x+hw, y))
		}
		if below {
			v = f(v, d.load(x, y+hh))
		}
		if right && below {
			v = f(v, d.load(x+hw, y+hh))
		}
		d.store(x, y, v)
	}
}

// ipStatsKernels adds the histogram, reduction and compositing kernels.
func ipStatsKernels(p programSpec) {
	// One group of 256 threads, one bucket each.
	p["HistogramEqClear"] = &kernelSpec{wgX: buckets, wgY: 1, requires: histOnly, run: func(inv *invocation, x, _ int) {
		if x >= buckets {
			return
		}
		for c := range channels {
			atomic.StoreUint32(&inv.hist[x*channels+c], 0)
		}
	}}
	p["HistogramEqGather"] = pixel(histSrc, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		v := inv.srcA.load(x, y)
		for c := range channels {
			atomic.AddUint32(&inv.hist[bucket(v[c])*channels+c], 1)
		}
	})
	// One group, one thread per channel. Each thread turns its channel into
	// a cumulative distribution sequentially.
	p["HistogramEqAccumulate"] = &kernelSpec{wgX: channels, wgY: 1, requires: histOnly, run: func(inv *invocation, x, _ int) {
		if x >= channels {
			return
		}
		for b := 1; b < buckets; b++ {
			inv.hist[b*channels+x] += inv.hist[(b-1)*channels+x]
		}
	}}
	p["HistogramEqMap"] = pixel(histSrcDst, func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		v := inv.srcA.load(x, y)
		var out vec4
		for c := range channels {
			total := inv.hist[(buckets-1)*channels+c]
			if total == 0 {
				continue
			}
			out[c] = float32(inv.hist[bucket(v[c])*channels+c]) / float32(total)
		}
		inv.dst.store(x, y, out)
	})

	p["MaxReduce"] = pixel(dstOnly, reduceKernel(vmax))
	p["MinReduce"] = pixel(dstOnly, reduceKernel(vmin))
	p["SumReduce"] = pixel(dstOnly, reduceKernel(vadd))

	addUnary(p, "Premultiply", premultiply)
	for name, f := range composeModes {
		p[name] = pixel(srcSrcDst, binary(func(_ *invocation, a, b vec4) vec4 { return f(a, b) }))
	}
}

// ipProgram builds the image processing program.
func ipProgram() programSpec {
	p := programSpec{}
	ipColorKernels(p)
	ipFilterKernels(p)
	ipStatsKernels(p)
	return p
}
