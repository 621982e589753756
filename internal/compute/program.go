// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compute loads kernel programs and dispatches kernels against
// device images.
//
// A Program resolves every kernel of its family once, at load time, and
// afterwards addresses kernels by the enumerated Kernel id only. Unary and
// Binary bind images and scalar registers, resolve source/destination
// aliasing by selecting in-place kernel variants and size the dispatch from
// the destination.
package compute

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/image"
)

type resolvedKernel struct {
	handle gpucore.KernelHandle
	wgX    int
	wgY    int
}

// Program is a loaded compute program.
//
// The bound parameter state (slots and registers) belongs to the program
// instance. A Program is not safe for concurrent use.
type Program struct {
	dev     gpucore.Device
	family  Family
	name    string
	handle  gpucore.ProgramHandle
	kernels [kernelCount]resolvedKernel
	logger  *slog.Logger

	width  int
	height int
	sized  bool
}

// Load loads the program of a family and resolves all of its kernels.
// A missing program or kernel fails with gpucore.ErrResourceNotFound.
// An in-place kernel whose work group differs from its out-of-place
// counterpart fails with gpucore.ErrInvalidOperation.
func Load(dev gpucore.Device, family Family, prefix string, logger *slog.Logger) (*Program, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	name := family.ProgramName(prefix)
	handle, err := dev.LoadProgram(name)
	if err != nil {
		return nil, fmt.Errorf("compute: load program %q: %w", name, err)
	}

	p := &Program{
		dev:    dev,
		family: family,
		name:   name,
		handle: handle,
		logger: logger,
	}

	for _, k := range family.Kernels() {
		h, err := dev.FindKernel(handle, k.String())
		if err != nil {
			return nil, fmt.Errorf("compute: program %q: kernel %q: %w", name, k, err)
		}
		x, y := dev.WorkGroupSize(h)
		if x == 0 || y == 0 {
			return nil, fmt.Errorf("compute: program %q: kernel %q has empty work group %dx%d: %w",
				name, k, x, y, gpucore.ErrInvalidOperation)
		}
		p.kernels[k] = resolvedKernel{handle: h, wgX: int(x), wgY: int(y)}
	}

	for _, k := range family.Kernels() {
		in, ok := k.InPlace()
		if !ok || in == k {
			continue
		}
		a, b := p.kernels[k], p.kernels[in]
		if a.wgX != b.wgX || a.wgY != b.wgY {
			return nil, fmt.Errorf("compute: program %q: %s work group %dx%d differs from %s %dx%d: %w",
				name, k, a.wgX, a.wgY, in, b.wgX, b.wgY, gpucore.ErrInvalidOperation)
		}
	}

	logger.Debug("texops: program loaded", "program", name, "kernels", len(family.Kernels()))
	return p, nil
}

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// Family returns the program family.
func (p *Program) Family() Family { return p.family }

// Handle returns the device handle of the program.
func (p *Program) Handle() gpucore.ProgramHandle { return p.handle }

func (p *Program) resolve(k Kernel) (resolvedKernel, error) {
	if !k.Valid() || k.Family() != p.family {
		return resolvedKernel{}, fmt.Errorf("compute: program %q has no kernel %s: %w", p.name, k, gpucore.ErrResourceNotFound)
	}
	return p.kernels[k], nil
}

// KernelHandle returns the device handle of a kernel.
func (p *Program) KernelHandle(k Kernel) (gpucore.KernelHandle, error) {
	rk, err := p.resolve(k)
	return rk.handle, err
}

// WorkGroupSize returns the x and y work group dimensions of a kernel.
// It returns zero for kernels of other families.
func (p *Program) WorkGroupSize(k Kernel) (x, y int) {
	rk, err := p.resolve(k)
	if err != nil {
		return 0, 0
	}
	return rk.wgX, rk.wgY
}

// GroupCount returns the number of work groups covering width x height
// threads, rounding up.
func (p *Program) GroupCount(k Kernel, width, height int) (gx, gy int) {
	xs, ys := p.WorkGroupSize(k)
	if xs == 0 || ys == 0 {
		return 0, 0
	}
	return ceilDiv(width, xs), ceilDiv(height, ys)
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// SetSize sets the pipeline size and pushes TextureSize and TexelSize.
func (p *Program) SetSize(width, height int) {
	p.width, p.height, p.sized = width, height, true
	p.dev.SetVector(p.handle, gpucore.ParamTextureSize, gpucore.Vec4{float32(width), float32(height), 0, 0})
	p.dev.SetVector(p.handle, gpucore.ParamTexelSize, gpucore.Vec4{1 / float32(width), 1 / float32(height), 0, 0})
}

// Size returns the current pipeline size and whether one has been set.
func (p *Program) Size() (width, height int, ok bool) {
	return p.width, p.height, p.sized
}

// SetScalars pushes every register that is set in s.
func (p *Program) SetScalars(s Scalars) {
	for r := gpucore.ParamScalarA; r <= gpucore.ParamScalarD; r++ {
		if v, ok := s.Get(r); ok {
			p.dev.SetVector(p.handle, r, v)
		}
	}
}

// BindImage binds an image to a slot of a kernel.
func (p *Program) BindImage(k Kernel, slot gpucore.Slot, img *image.Image) error {
	rk, err := p.resolve(k)
	if err != nil {
		return err
	}
	if err := img.Check(); err != nil {
		return fmt.Errorf("compute: %s %s: %w", k, slot, err)
	}
	if slot == gpucore.SlotDst && !img.RandomWrite() {
		return fmt.Errorf("compute: %s: destination %s lacks random write: %w", k, img.Descriptor(), gpucore.ErrInvalidOperation)
	}
	p.dev.BindImage(rk.handle, slot, img.ID())
	return nil
}

// BindBuffer binds a raw buffer to a slot of a kernel.
func (p *Program) BindBuffer(k Kernel, slot gpucore.Slot, buf gpucore.BufferID) error {
	rk, err := p.resolve(k)
	if err != nil {
		return err
	}
	p.dev.BindBuffer(rk.handle, slot, buf)
	return nil
}

// DispatchGroups dispatches gx x gy work groups of a kernel.
func (p *Program) DispatchGroups(k Kernel, gx, gy int) error {
	rk, err := p.resolve(k)
	if err != nil {
		return err
	}
	if gx <= 0 || gy <= 0 {
		return nil
	}
	p.logger.Debug("texops: dispatch", "kernel", k.String(), "groups_x", gx, "groups_y", gy)
	if err := p.dev.Dispatch(rk.handle, uint32(gx), uint32(gy), 1); err != nil {
		return fmt.Errorf("compute: dispatch %s: %w", k, err)
	}
	return nil
}

// Dispatch dispatches a kernel over the current pipeline size.
func (p *Program) Dispatch(k Kernel) error {
	if !p.sized {
		return fmt.Errorf("compute: dispatch %s before SetSize: %w", k, gpucore.ErrInvalidOperation)
	}
	return p.DispatchDomain(k, p.width, p.height)
}

// DispatchDomain dispatches a kernel over a width x height thread domain,
// which may be smaller than the pipeline size.
func (p *Program) DispatchDomain(k Kernel, width, height int) error {
	gx, gy := p.GroupCount(k, width, height)
	return p.DispatchGroups(k, gx, gy)
}
