// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"testing"

	"github.com/gogpu/naga"

	"github.com/gogpu/texops/gpucore"
)

const testProgram = `
@group(0) @binding(3) var<storage, read_write> dst: array<vec4<f32>>;

fn helper(x: f32) -> f32 { return x; }

@compute @workgroup_size(8, 8)
fn SetC(@builtin(global_invocation_id) id: vec3<u32>) {
    dst[id.x] = vec4<f32>(helper(1.0));
}

@compute
@workgroup_size(64)
fn MaxReduce(@builtin(global_invocation_id) id: vec3<u32>) {}

// @compute @workgroup_size(4) fn SetC(@builtin(global_invocation_id) id: vec3<u32>) {}
/* @compute @workgroup_size(4) fn Ghost() {} */
`

// entryPointsOf lowers src and returns its compute entry points.
func entryPointsOf(src string) (map[string]entryPoint, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, err
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, err
	}
	return computeEntryPoints(mod)
}

func TestComputeEntryPoints(t *testing.T) {
	eps, err := entryPointsOf(testProgram)
	if err != nil {
		t.Fatalf("entryPointsOf: %v", err)
	}
	if len(eps) != 2 {
		t.Fatalf("entry points = %v, want SetC and MaxReduce", eps)
	}
	for _, name := range []string{"helper", "Ghost"} {
		if _, ok := eps[name]; ok {
			t.Errorf("%s reported as an entry point", name)
		}
	}

	tests := []struct {
		name    string
		x, y, z uint32
	}{
		{"SetC", 8, 8, 1},
		{"MaxReduce", 64, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, ok := eps[tt.name]
			if !ok {
				t.Fatalf("entry point %q not found", tt.name)
			}
			if ep.wgX != tt.x || ep.wgY != tt.y || ep.wgZ != tt.z {
				t.Errorf("workgroup = (%d,%d,%d), want (%d,%d,%d)", ep.wgX, ep.wgY, ep.wgZ, tt.x, tt.y, tt.z)
			}
		})
	}
}

func TestComputeEntryPointsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing size", "@compute fn K() {}"},
		{"zero size", "@compute @workgroup_size(0, 1) fn K() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := entryPointsOf(tt.src); err == nil {
				t.Error("entryPointsOf succeeded, want error")
			}
		})
	}
}

func TestCodec(t *testing.T) {
	in := []gpucore.Vec4{{0, 0.5, -1, 1}, {3.25, 1e-3, 0, 255}}
	b := encodeVec4s(in)
	if len(b) != len(in)*texelSize {
		t.Fatalf("len = %d, want %d", len(b), len(in)*texelSize)
	}
	out := decodeVec4s(b)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("pixel %d = %v, want %v", i, out[i], in[i])
		}
	}

	words := decodeUint32s([]byte{1, 0, 0, 0, 0, 1, 0, 0})
	if len(words) != 2 || words[0] != 1 || words[1] != 256 {
		t.Errorf("decodeUint32s = %v, want [1 256]", words)
	}
}
