// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "github.com/gogpu/texops/gpucore"

const (
	regA = gpucore.ParamScalarA
	regB = gpucore.ParamScalarB
	regC = gpucore.ParamScalarC
)

// mathProgram builds the arithmetic program.
func mathProgram() programSpec {
	p := programSpec{}

	p["SetC"] = pixel(dstOnly, func(inv *invocation, x, y int) {
		if inv.inDomain(x, y) {
			inv.dst.store(x, y, inv.scalar(regA))
		}
	})
	p["Copy"] = pixel(srcDst, unary(func(_ *invocation, v vec4) vec4 { return v }))

	// Channels where ScalarB is 1 take ScalarA.
	addUnary(p, "SetCMaskedC", func(inv *invocation, v vec4) vec4 {
		return vlerp(v, inv.scalar(regA), inv.scalar(regB))
	})
	// Pixels take ScalarA weighted by the red channel of the mask in SrcB.
	addBinary(p, "SetCMasked", func(inv *invocation, v, mask vec4) vec4 {
		return vlerp(v, inv.scalar(regA), gpucore.Splat(mask[0]))
	})

	addUnary(p, "AddC", func(inv *invocation, v vec4) vec4 { return vadd(v, inv.scalar(regA)) })
	addBinary(p, "Add", func(_ *invocation, a, b vec4) vec4 { return vadd(a, b) })
	addBinary(p, "AddWeighted", func(inv *invocation, a, b vec4) vec4 {
		return vadd(vmul(a, inv.scalar(regA)), vmul(b, inv.scalar(regB)))
	})

	addUnary(p, "MultiplyC", func(inv *invocation, v vec4) vec4 { return vmul(v, inv.scalar(regA)) })
	addBinary(p, "Multiply", func(_ *invocation, a, b vec4) vec4 { return vmul(a, b) })
	addUnary(p, "MultiplyCAddC", func(inv *invocation, v vec4) vec4 {
		return vadd(vmul(v, inv.scalar(regA)), inv.scalar(regB))
	})
	addUnary(p, "MultiplyCAddCSat", func(inv *invocation, v vec4) vec4 {
		return vsaturate(vadd(vmul(v, inv.scalar(regA)), inv.scalar(regB)))
	})

	addUnary(p, "Clamp", func(inv *invocation, v vec4) vec4 {
		return vclamp(v, inv.scalar(regA), inv.scalar(regB))
	})
	addUnary(p, "Saturate", func(_ *invocation, v vec4) vec4 { return vsaturate(v) })

	return p
}
