// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"fmt"

	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/image"
)

// Args are the operands of one Unary or Binary dispatch.
// SrcA and SrcB are optional; Dst is required.
type Args struct {
	SrcA    *image.Image
	SrcB    *image.Image
	Dst     *image.Image
	Scalars Scalars
}

// Unary is Binary without a second source.
func (p *Program) Unary(k Kernel, src, dst *image.Image, s Scalars) error {
	return p.Binary(k, Args{SrcA: src, Dst: dst, Scalars: s})
}

// Binary binds the operands of a and dispatches k over the destination.
//
// When Dst and SrcA are the same image the in-place variant of k is
// dispatched instead and SrcA is not bound. Kernels without an in-place
// variant fail with gpucore.ErrInvalidOperation, as does any Dst that
// aliases SrcB. Sources must match the destination size, except an
// auxiliary SrcB.
func (p *Program) Binary(k Kernel, a Args) error {
	if _, err := p.resolve(k); err != nil {
		return err
	}
	if a.Dst == nil {
		return fmt.Errorf("compute: %s: nil destination: %w", k, gpucore.ErrInvalidOperation)
	}
	if err := a.Dst.Check(); err != nil {
		return fmt.Errorf("compute: %s destination: %w", k, err)
	}
	if !a.Dst.RandomWrite() {
		return fmt.Errorf("compute: %s: destination %s lacks random write: %w", k, a.Dst.Descriptor(), gpucore.ErrInvalidOperation)
	}

	k, srcA, err := resolveAliasing(k, a)
	if err != nil {
		return err
	}

	for _, src := range []struct {
		img  *image.Image
		slot gpucore.Slot
	}{{srcA, gpucore.SlotSrcA}, {a.SrcB, gpucore.SlotSrcB}} {
		if src.img == nil {
			continue
		}
		if err := src.img.Check(); err != nil {
			return fmt.Errorf("compute: %s %s: %w", k, src.slot, err)
		}
		if src.slot == gpucore.SlotSrcB && k.AuxSrcB() {
			continue
		}
		if !src.img.SameSize(a.Dst) {
			return fmt.Errorf("compute: %s: %s is %dx%d, destination is %dx%d: %w",
				k, src.slot, src.img.Width(), src.img.Height(), a.Dst.Width(), a.Dst.Height(),
				gpucore.ErrDimensionMismatch)
		}
	}

	p.SetSize(a.Dst.Width(), a.Dst.Height())

	if srcA != nil {
		if err := p.BindImage(k, gpucore.SlotSrcA, srcA); err != nil {
			return err
		}
	}
	if a.SrcB != nil {
		if err := p.BindImage(k, gpucore.SlotSrcB, a.SrcB); err != nil {
			return err
		}
	}
	p.SetScalars(a.Scalars)
	if err := p.BindImage(k, gpucore.SlotDst, a.Dst); err != nil {
		return err
	}
	return p.Dispatch(k)
}

// resolveAliasing applies the aliasing rule and returns the kernel to
// dispatch and the SrcA to bind.
func resolveAliasing(k Kernel, a Args) (Kernel, *image.Image, error) {
	if a.Dst.Same(a.SrcB) {
		return None, nil, fmt.Errorf("compute: %s: destination aliases SrcB: %w", k, gpucore.ErrInvalidOperation)
	}
	if k.IsInPlace() {
		if a.SrcA != nil && !a.Dst.Same(a.SrcA) {
			return None, nil, fmt.Errorf("compute: in-place %s bound to a separate SrcA: %w", k, gpucore.ErrInvalidOperation)
		}
		return k, nil, nil
	}
	if !a.Dst.Same(a.SrcA) {
		return k, a.SrcA, nil
	}
	in, ok := k.InPlace()
	if !ok {
		return None, nil, fmt.Errorf("compute: %s cannot run in place: %w", k, gpucore.ErrInvalidOperation)
	}
	return in, nil, nil
}
