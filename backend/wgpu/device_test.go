// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gogpu/texops/backend"
	"github.com/gogpu/texops/gpucore"
)

const fillProgram = `
struct Params {
    scalar_a: vec4<f32>,
    scalar_b: vec4<f32>,
    scalar_c: vec4<f32>,
    scalar_d: vec4<f32>,
    texture_size: vec4<f32>,
    texel_size: vec4<f32>,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(3) var<storage, read_write> dst: array<vec4<f32>>;

@compute @workgroup_size(8, 8)
fn SetC(@builtin(global_invocation_id) id: vec3<u32>) {
    let w = u32(params.texture_size.x);
    let h = u32(params.texture_size.y);
    if (id.x >= w || id.y >= h) {
        return;
    }
    dst[id.y * w + id.x] = params.scalar_a;
}
`

func testPrograms() fstest.MapFS {
	return fstest.MapFS{
		"texops/math.wgsl": &fstest.MapFile{Data: []byte(fillProgram)},
	}
}

// openDevice returns a device on the first GPU, or skips the test.
func openDevice(t *testing.T) *Device {
	t.Helper()
	d, err := New(testPrograms())
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestRegistryRequiresPrograms(t *testing.T) {
	_, err := backend.Open(backend.BackendWGPU, backend.Options{})
	if !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("Open without programs: err = %v, want ErrBackendNotAvailable", err)
	}
}

func TestNewFromProviderRejectsNil(t *testing.T) {
	if _, err := NewFromProvider(nil, testPrograms()); err == nil {
		t.Error("NewFromProvider(nil) succeeded, want error")
	}
}

func TestDeviceDispatch(t *testing.T) {
	d := openDevice(t)

	ph, err := d.LoadProgram("texops/math")
	if err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
	kh, err := d.FindKernel(ph, "SetC")
	if err != nil {
		t.Fatalf("FindKernel: %v", err)
	}
	if x, y := d.WorkGroupSize(kh); x != 8 || y != 8 {
		t.Errorf("WorkGroupSize = (%d,%d), want (8,8)", x, y)
	}
	if _, err := d.FindKernel(ph, "Missing"); !errors.Is(err, gpucore.ErrResourceNotFound) {
		t.Errorf("FindKernel(Missing): err = %v, want ErrResourceNotFound", err)
	}

	const w, h = 10, 3
	img, err := d.CreateImage(w, h, gpucore.FormatRGBA32Float, true)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	want := gpucore.Vec4{0.25, 0.5, 0.75, 1}
	d.SetVector(ph, gpucore.ParamScalarA, want)
	d.SetVector(ph, gpucore.ParamTextureSize, gpucore.Vec4{w, h, 0, 0})
	d.BindImage(kh, gpucore.SlotDst, img)
	if err := d.Dispatch(kh, 2, 1, 1); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	px, err := d.ReadImage(img, 1, 1, 4, 2)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if len(px) != 8 {
		t.Fatalf("len(px) = %d, want 8", len(px))
	}
	for i, p := range px {
		if p != want {
			t.Errorf("pixel %d = %v, want %v", i, p, want)
		}
	}
}

func TestDeviceErrors(t *testing.T) {
	d := openDevice(t)

	if _, err := d.LoadProgram("texops/missing"); !errors.Is(err, gpucore.ErrResourceNotFound) {
		t.Errorf("LoadProgram(missing): err = %v, want ErrResourceNotFound", err)
	}
	if _, err := d.CreateImage(4, 4, gpucore.FormatRGB8Unorm, true); !errors.Is(err, gpucore.ErrInvalidOperation) {
		t.Errorf("CreateImage(RGB8, randomWrite): err = %v, want ErrInvalidOperation", err)
	}
	img, err := d.CreateImage(4, 4, gpucore.FormatRGBA8Unorm, false)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if err := d.WriteImage(img, make([]gpucore.Vec4, 3)); !errors.Is(err, gpucore.ErrDimensionMismatch) {
		t.Errorf("WriteImage(short): err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := d.ReadImage(img, 2, 2, 4, 4); !errors.Is(err, gpucore.ErrDimensionMismatch) {
		t.Errorf("ReadImage(out of range): err = %v, want ErrDimensionMismatch", err)
	}
}

func TestStoreQuantization(t *testing.T) {
	tests := []struct {
		format          gpucore.Format
		steps, channels float32
	}{
		{gpucore.FormatR8Unorm, 255, 1},
		{gpucore.FormatRGBA8Unorm, 255, 4},
		{gpucore.FormatRGBA16Float, -1, 4},
		{gpucore.FormatR32Float, 0, 1},
		{gpucore.FormatRGBA32Float, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			steps, channels := storeQuantization(tt.format)
			if steps != tt.steps || channels != tt.channels {
				t.Errorf("storeQuantization = (%v, %v), want (%v, %v)", steps, channels, tt.steps, tt.channels)
			}
		})
	}
}
