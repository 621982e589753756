// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"errors"
	"testing"

	"github.com/gogpu/texops/backend/software"
	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/image"
)

func newDevice(t *testing.T) *software.Device {
	t.Helper()
	dev := software.New(software.WithWorkers(2))
	t.Cleanup(func() { _ = dev.Close() })
	return dev
}

func loadFamily(t *testing.T, dev gpucore.Device, f Family) *Program {
	t.Helper()
	p, err := Load(dev, f, software.DefaultProgramPrefix, nil)
	if err != nil {
		t.Fatalf("Load(%s): %v", f, err)
	}
	return p
}

func newImage(t *testing.T, dev gpucore.Device, w, h int, px []gpucore.Vec4) *image.Image {
	t.Helper()
	img, err := image.New(dev, w, h, gpucore.FormatRGBA32Float, true)
	if err != nil {
		t.Fatalf("image.New: %v", err)
	}
	if px != nil {
		if err := dev.WriteImage(img.ID(), px); err != nil {
			t.Fatalf("WriteImage: %v", err)
		}
	}
	return img
}

func fill(n int, v gpucore.Vec4) []gpucore.Vec4 {
	px := make([]gpucore.Vec4, n)
	for i := range px {
		px[i] = v
	}
	return px
}

func readAll(t *testing.T, dev gpucore.Device, img *image.Image) []gpucore.Vec4 {
	t.Helper()
	px, err := dev.ReadImage(img.ID(), 0, 0, img.Width(), img.Height())
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	return px
}

// skewedDevice reports a different work group for one kernel.
type skewedDevice struct {
	*software.Device
	skew gpucore.KernelHandle
}

func (d *skewedDevice) FindKernel(p gpucore.ProgramHandle, name string) (gpucore.KernelHandle, error) {
	h, err := d.Device.FindKernel(p, name)
	if name == "AddCI" {
		d.skew = h
	}
	return h, err
}

func (d *skewedDevice) WorkGroupSize(k gpucore.KernelHandle) (x, y uint32) {
	if k == d.skew {
		return 16, 4
	}
	return d.Device.WorkGroupSize(k)
}

func TestLoad(t *testing.T) {
	dev := newDevice(t)

	for _, f := range Families() {
		p := loadFamily(t, dev, f)
		if p.Family() != f || p.Name() != f.ProgramName(software.DefaultProgramPrefix) {
			t.Errorf("loaded %s as %q", f, p.Name())
		}
	}

	if _, err := Load(dev, FamilyMath, "missing", nil); !errors.Is(err, gpucore.ErrResourceNotFound) {
		t.Errorf("Load(missing) = %v, want ErrResourceNotFound", err)
	}

	skewed := &skewedDevice{Device: dev}
	if _, err := Load(skewed, FamilyMath, software.DefaultProgramPrefix, nil); !errors.Is(err, gpucore.ErrInvalidOperation) {
		t.Errorf("Load with mismatched in-place work group = %v, want ErrInvalidOperation", err)
	}
}

func TestGroupCount(t *testing.T) {
	dev := newDevice(t)
	p := loadFamily(t, dev, FamilyIP)

	tests := []struct {
		name   string
		k      Kernel
		w, h   int
		gx, gy int
	}{
		{"other family", Copy, 16, 8, 0, 0},
		{"pixel exact", Grayscale, 16, 8, 2, 1},
		{"pixel partial", Grayscale, 17, 9, 3, 2},
		{"empty", Grayscale, 0, 9, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gx, gy := p.GroupCount(tt.k, tt.w, tt.h)
			if gx != tt.gx || gy != tt.gy {
				t.Errorf("GroupCount(%s, %d, %d) = (%d,%d), want (%d,%d)", tt.k, tt.w, tt.h, gx, gy, tt.gx, tt.gy)
			}
		})
	}
}

func TestBinaryAliasing(t *testing.T) {
	dev := newDevice(t)
	p := loadFamily(t, dev, FamilyMath)

	a := newImage(t, dev, 4, 4, fill(16, gpucore.Vec4{1, 2, 3, 4}))
	b := newImage(t, dev, 4, 4, fill(16, gpucore.Vec4{10, 20, 30, 40}))

	// Dst aliasing SrcA selects the in-place variant.
	if err := p.Binary(Add, Args{SrcA: a, SrcB: b, Dst: a}); err != nil {
		t.Fatalf("Add in place: %v", err)
	}
	for i, v := range readAll(t, dev, a) {
		if want := (gpucore.Vec4{11, 22, 33, 44}); v != want {
			t.Fatalf("pixel %d = %v, want %v", i, v, want)
		}
	}

	if err := p.Binary(Add, Args{SrcA: a, SrcB: b, Dst: b}); !errors.Is(err, gpucore.ErrInvalidOperation) {
		t.Errorf("Dst aliasing SrcB = %v, want ErrInvalidOperation", err)
	}
	if err := p.Unary(Copy, a, a, Scalars{}); !errors.Is(err, gpucore.ErrInvalidOperation) {
		t.Errorf("Copy in place = %v, want ErrInvalidOperation", err)
	}
	if err := p.Unary(AddCI, b, a, Scalars{}); !errors.Is(err, gpucore.ErrInvalidOperation) {
		t.Errorf("in-place kernel with separate source = %v, want ErrInvalidOperation", err)
	}
}

func TestBinaryValidation(t *testing.T) {
	dev := newDevice(t)
	p := loadFamily(t, dev, FamilyMath)

	a := newImage(t, dev, 4, 4, nil)
	small := newImage(t, dev, 2, 2, nil)
	readOnly, err := image.New(dev, 4, 4, gpucore.FormatRGBA8Unorm, false)
	if err != nil {
		t.Fatalf("image.New: %v", err)
	}

	tests := []struct {
		name string
		args Args
		want error
	}{
		{"nil destination", Args{SrcA: a}, gpucore.ErrInvalidOperation},
		{"size mismatch", Args{SrcA: small, Dst: a}, gpucore.ErrDimensionMismatch},
		{"read-only destination", Args{SrcA: a, Dst: readOnly}, gpucore.ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Binary(Copy, tt.args); !errors.Is(err, tt.want) {
				t.Errorf("Binary = %v, want %v", err, tt.want)
			}
		})
	}

	if err := p.Unary(Grayscale, a, a, Scalars{}); !errors.Is(err, gpucore.ErrResourceNotFound) {
		t.Errorf("kernel of another family = %v, want ErrResourceNotFound", err)
	}

	released := newImage(t, dev, 4, 4, nil)
	if err := released.Destroy(dev); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := p.Unary(Copy, released, a, Scalars{}); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("released source = %v, want ErrResourceLifecycle", err)
	}
}

func TestAuxiliarySource(t *testing.T) {
	dev := newDevice(t)
	p := loadFamily(t, dev, FamilyIP)

	src := newImage(t, dev, 4, 1, []gpucore.Vec4{{0, 0, 0, 1}, {1, 1, 1, 1}, {0, 0, 0, 1}, {1, 1, 1, 1}})
	palette := newImage(t, dev, 2, 1, []gpucore.Vec4{{1, 0, 0, 1}, {0, 0, 1, 1}})
	dst := newImage(t, dev, 4, 1, nil)

	if err := p.Binary(Lookup, Args{SrcA: src, SrcB: palette, Dst: dst}); err != nil {
		t.Fatalf("Lookup with a palette of another size: %v", err)
	}
}

func TestDispatchBeforeSetSize(t *testing.T) {
	dev := newDevice(t)
	p := loadFamily(t, dev, FamilyMath)
	if err := p.Dispatch(SetC); !errors.Is(err, gpucore.ErrInvalidOperation) {
		t.Errorf("Dispatch before SetSize = %v, want ErrInvalidOperation", err)
	}
	if _, _, ok := p.Size(); ok {
		t.Error("Size reported set")
	}
}
