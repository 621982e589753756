// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/gogpu/texops/gpucore"

// DefaultProgramPrefix is the prefix under which the built-in programs are
// registered: "texops/math", "texops/ip" and "texops/draw".
const DefaultProgramPrefix = "texops"

// slotMask is a set of binding slots.
type slotMask uint8

func slots(s ...gpucore.Slot) slotMask {
	var m slotMask
	for _, v := range s {
		m |= 1 << v
	}
	return m
}

func (m slotMask) has(s gpucore.Slot) bool { return m&(1<<s) != 0 }

// invocation is the state one dispatch exposes to its threads.
type invocation struct {
	params *[gpucore.ParamCount]gpucore.Vec4
	srcA   *surface
	srcB   *surface
	dst    *surface
	hist   []uint32

	// width and height are TextureSize.
	width  int
	height int
}

func (inv *invocation) scalar(p gpucore.Param) gpucore.Vec4 { return inv.params[p] }

// inDomain reports whether the thread lies inside TextureSize.
func (inv *invocation) inDomain(x, y int) bool {
	return x >= 0 && y >= 0 && x < inv.width && y < inv.height
}

// kernelFunc runs one thread of a kernel.
type kernelFunc func(inv *invocation, x, y int)

// kernelSpec describes one kernel entry point.
type kernelSpec struct {
	wgX, wgY uint32
	// requires lists the slots that must be bound before dispatch.
	requires slotMask
	run      kernelFunc
}

// programSpec maps kernel names to their specs.
type programSpec map[string]*kernelSpec

var (
	srcDst     = slots(gpucore.SlotSrcA, gpucore.SlotDst)
	srcSrcDst  = slots(gpucore.SlotSrcA, gpucore.SlotSrcB, gpucore.SlotDst)
	dstOnly    = slots(gpucore.SlotDst)
	dstSrcB    = slots(gpucore.SlotSrcB, gpucore.SlotDst)
	histOnly   = slots(gpucore.SlotHistogram)
	histSrc    = slots(gpucore.SlotHistogram, gpucore.SlotSrcA)
	histSrcDst = slots(gpucore.SlotHistogram, gpucore.SlotSrcA, gpucore.SlotDst)
)

// pixel kernels use 8x8 work groups.
func pixel(requires slotMask, run kernelFunc) *kernelSpec {
	return &kernelSpec{wgX: 8, wgY: 8, requires: requires, run: run}
}

// row kernels run one thread per image row.
func row(requires slotMask, run kernelFunc) *kernelSpec {
	return &kernelSpec{wgX: 64, wgY: 1, requires: requires, run: run}
}

// builtinPrograms returns the program table keyed by program suffix.
func builtinPrograms() map[string]programSpec {
	return map[string]programSpec{
		"math": mathProgram(),
		"ip":   ipProgram(),
		"draw": drawProgram(),
	}
}

// unary adapts a per-pixel function of SrcA.
func unary(f func(inv *invocation, v gpucore.Vec4) gpucore.Vec4) kernelFunc {
	return func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		inv.dst.store(x, y, f(inv, inv.srcA.load(x, y)))
	}
}

// unaryInPlace adapts a per-pixel function of Dst.
func unaryInPlace(f func(inv *invocation, v gpucore.Vec4) gpucore.Vec4) kernelFunc {
	return func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		inv.dst.store(x, y, f(inv, inv.dst.load(x, y)))
	}
}

// binary adapts a per-pixel function of SrcA and SrcB.
func binary(f func(inv *invocation, a, b gpucore.Vec4) gpucore.Vec4) kernelFunc {
	return func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		inv.dst.store(x, y, f(inv, inv.srcA.load(x, y), inv.srcB.load(x, y)))
	}
}

// binaryInPlace adapts a per-pixel function of Dst and SrcB.
func binaryInPlace(f func(inv *invocation, a, b gpucore.Vec4) gpucore.Vec4) kernelFunc {
	return func(inv *invocation, x, y int) {
		if !inv.inDomain(x, y) {
			return
		}
		inv.dst.store(x, y, f(inv, inv.dst.load(x, y), inv.srcB.load(x, y)))
	}
}

// addUnary registers a kernel and its in-place variant under name and name+"I".
func addUnary(p programSpec, name string, f func(inv *invocation, v gpucore.Vec4) gpucore.Vec4) {
	p[name] = pixel(srcDst, unary(f))
	p[name+"I"] = pixel(dstOnly, unaryInPlace(f))
}

// addBinary registers a two-source kernel and its in-place variant.
func addBinary(p programSpec, name string, f func(inv *invocation, a, b gpucore.Vec4) gpucore.Vec4) {
	p[name] = pixel(srcSrcDst, binary(f))
	p[name+"I"] = pixel(dstSrcB, binaryInPlace(f))
}
