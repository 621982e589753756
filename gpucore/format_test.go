// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "testing"

func TestFormat_Channels(t *testing.T) {
	tests := []struct {
		format   Format
		expected int
	}{
		{FormatR8Unorm, 1},
		{FormatRG8Unorm, 2},
		{FormatRGB8Unorm, 3},
		{FormatRGBA8Unorm, 4},
		{FormatR16Float, 1},
		{FormatRGBA16Float, 4},
		{FormatR32Float, 1},
		{FormatRG32Float, 2},
		{FormatRGB32Float, 3},
		{FormatRGBA32Float, 4},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.Channels(); got != tt.expected {
				t.Errorf("Channels() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFormat_Compatible(t *testing.T) {
	tests := []struct {
		format Format
		want   Format
	}{
		{FormatRGB8Unorm, FormatRGBA8Unorm},
		{FormatRGB32Float, FormatRGBA32Float},
		{FormatRGBA8Unorm, FormatRGBA8Unorm},
		{FormatR16Float, FormatR16Float},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got := tt.format.Compatible()
			if got != tt.want {
				t.Errorf("Compatible() = %v, want %v", got, tt.want)
			}
			if !got.SupportsRandomWrite() {
				t.Errorf("%v does not support random write", got)
			}
		})
	}
}

func TestFormat_FloatVersion(t *testing.T) {
	tests := []struct {
		format Format
		want   Format
	}{
		{FormatR8Unorm, FormatR32Float},
		{FormatRG8Unorm, FormatRG32Float},
		{FormatRGBA8Unorm, FormatRGBA32Float},
		{FormatRGB8Unorm, FormatRGBA32Float},
		{FormatR16Float, FormatR32Float},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.FloatVersion(); got != tt.want {
				t.Errorf("FloatVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormat_Invalid(t *testing.T) {
	f := Format(200)
	if f.IsValid() {
		t.Error("IsValid() = true for unknown format")
	}
	if f.String() != "Unknown" {
		t.Errorf("String() = %q, want Unknown", f.String())
	}
	if f.Channels() != 0 {
		t.Errorf("Channels() = %d, want 0", f.Channels())
	}
}

func TestFormat_Quantize(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		in     Vec4
		want   Vec4
	}{
		{"unorm clamps", FormatRGBA8Unorm, Vec4{-1, 2, 0.5, 1}, Vec4{0, 1, 128.0 / 255, 1}},
		{"unorm rounds", FormatRGBA8Unorm, Vec4{1.0 / 255, 0.1 / 255, 0, 0}, Vec4{1.0 / 255, 0, 0, 0}},
		{"single channel", FormatR8Unorm, Vec4{1, 1, 1, 0}, Vec4{1, 0, 0, 1}},
		{"rgb alpha", FormatRGB32Float, Vec4{1, 2, 3, 0}, Vec4{1, 2, 3, 1}},
		{"float keeps range", FormatRGBA32Float, Vec4{-3, 7.5, 0.1, 2}, Vec4{-3, 7.5, 0.1, 2}},
		{"two channels", FormatRG32Float, Vec4{4, 5, 6, 7}, Vec4{4, 5, 0, 1}},
		{"half exact", FormatR16Float, Vec4{0.5, 0, 0, 0}, Vec4{0.5, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.Quantize(tt.in); got != tt.want {
				t.Errorf("Quantize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlotAndParamNames(t *testing.T) {
	if SlotDst.String() != "Dst" {
		t.Errorf("SlotDst = %q, want Dst", SlotDst.String())
	}
	if Slot(99).String() != "Unknown" {
		t.Errorf("Slot(99) = %q, want Unknown", Slot(99).String())
	}
	if ParamTexelSize.String() != "TexelSize" {
		t.Errorf("ParamTexelSize = %q, want TexelSize", ParamTexelSize.String())
	}
	if Splat(2) != (Vec4{2, 2, 2, 2}) {
		t.Errorf("Splat(2) = %v", Splat(2))
	}
}
