// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"testing"

	"github.com/gogpu/texops/gpucore"
)

func TestKernelTable(t *testing.T) {
	seen := make(map[string]Kernel)
	for k := None + 1; k < kernelCount; k++ {
		if !k.Valid() {
			t.Fatalf("kernel %d not valid", k)
		}
		name := k.String()
		if name == "" {
			t.Errorf("kernel %d has no name", k)
		}
		if prev, ok := seen[name]; ok {
			t.Errorf("kernel name %q used by %d and %d", name, prev, k)
		}
		seen[name] = k

		in, ok := k.InPlace()
		if !ok {
			continue
		}
		if !in.IsInPlace() {
			t.Errorf("%s: in-place variant %s does not run in place", k, in)
		}
		if in.Family() != k.Family() {
			t.Errorf("%s: in-place variant %s in family %s, want %s", k, in, in.Family(), k.Family())
		}
		if in != k && in.String() != k.String()+"I" {
			t.Errorf("%s: in-place variant named %q", k, in)
		}
	}
}

func TestKernelInPlace(t *testing.T) {
	tests := []struct {
		k      Kernel
		want   Kernel
		wantOK bool
	}{
		{Add, AddI, true},
		{AddI, AddI, true},
		{Copy, None, false},
		{SetC, None, false},
		{FlipHorizontal, None, false},
		{MaxReduce, MaxReduce, true},
		{Lookup, LookupI, true},
		{None, None, false},
	}
	for _, tt := range tests {
		t.Run(tt.k.String(), func(t *testing.T) {
			got, ok := tt.k.InPlace()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("InPlace() = %s, %v, want %s, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFamilyKernels(t *testing.T) {
	total := 0
	for _, f := range Families() {
		ks := f.Kernels()
		if len(ks) == 0 {
			t.Errorf("family %s has no kernels", f)
		}
		for _, k := range ks {
			if k.Family() != f {
				t.Errorf("%s listed in %s, belongs to %s", k, f, k.Family())
			}
		}
		total += len(ks)
	}
	if total != int(kernelCount)-1 {
		t.Errorf("families cover %d kernels, want %d", total, kernelCount-1)
	}
	if got := FamilyIP.ProgramName("texops"); got != "texops/ip" {
		t.Errorf("ProgramName = %q, want texops/ip", got)
	}
	if !Lookup.AuxSrcB() || Add.AuxSrcB() {
		t.Error("only the lookup palette is auxiliary")
	}
}

func TestScalars(t *testing.T) {
	var s Scalars
	if !s.Empty() {
		t.Error("zero Scalars not empty")
	}
	s = s.A(gpucore.Splat(1)).C(gpucore.Splat(3))
	if v, ok := s.Get(gpucore.ParamScalarA); !ok || v != gpucore.Splat(1) {
		t.Errorf("A = %v, %v", v, ok)
	}
	if _, ok := s.Get(gpucore.ParamScalarB); ok {
		t.Error("B reported set")
	}
	if v, ok := s.Get(gpucore.ParamScalarC); !ok || v != gpucore.Splat(3) {
		t.Errorf("C = %v, %v", v, ok)
	}
	if _, ok := s.Get(gpucore.ParamTextureSize); ok {
		t.Error("TextureSize is not a scalar register")
	}
}
