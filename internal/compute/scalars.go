// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import "github.com/gogpu/texops/gpucore"

// Scalars carries the optional scalar registers of one dispatch.
// Registers that are not set keep their previous program state.
//
//	s := compute.Scalars{}.A(color).B(geometry)
type Scalars struct {
	set  uint8
	regs [4]gpucore.Vec4
}

// A returns a copy with ScalarA set.
func (s Scalars) A(v gpucore.Vec4) Scalars { return s.with(gpucore.ParamScalarA, v) }

// B returns a copy with ScalarB set.
func (s Scalars) B(v gpucore.Vec4) Scalars { return s.with(gpucore.ParamScalarB, v) }

// C returns a copy with ScalarC set.
func (s Scalars) C(v gpucore.Vec4) Scalars { return s.with(gpucore.ParamScalarC, v) }

// D returns a copy with ScalarD set.
func (s Scalars) D(v gpucore.Vec4) Scalars { return s.with(gpucore.ParamScalarD, v) }

func (s Scalars) with(p gpucore.Param, v gpucore.Vec4) Scalars {
	s.set |= 1 << p
	s.regs[p] = v
	return s
}

// Get returns the register value and whether it is set.
func (s Scalars) Get(p gpucore.Param) (gpucore.Vec4, bool) {
	if p > gpucore.ParamScalarD {
		return gpucore.Vec4{}, false
	}
	return s.regs[p], s.set&(1<<p) != 0
}

// Empty reports whether no register is set.
func (s Scalars) Empty() bool { return s.set == 0 }
