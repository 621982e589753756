// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "github.com/chewxy/math32"

// Format represents a device pixel format.
type Format uint8

const (
	// FormatR8Unorm is one 8-bit normalized channel.
	FormatR8Unorm Format = iota

	// FormatRG8Unorm is two 8-bit normalized channels.
	FormatRG8Unorm

	// FormatRGB8Unorm is three 8-bit normalized channels. Devices cannot
	// write it randomly; it is promoted to FormatRGBA8Unorm.
	FormatRGB8Unorm

	// FormatRGBA8Unorm is four 8-bit normalized channels.
	// This is the default format for most operations.
	FormatRGBA8Unorm

	// FormatR16Float is one 16-bit float channel.
	FormatR16Float

	// FormatRGBA16Float is four 16-bit float channels.
	FormatRGBA16Float

	// FormatR32Float is one 32-bit float channel.
	FormatR32Float

	// FormatRG32Float is two 32-bit float channels.
	FormatRG32Float

	// FormatRGB32Float is three 32-bit float channels, promoted to
	// FormatRGBA32Float for random write.
	FormatRGB32Float

	// FormatRGBA32Float is four 32-bit float channels.
	FormatRGBA32Float

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Name is the human readable name.
	Name string

	// Channels is the number of color channels.
	Channels int

	// BitsPerChannel is the number of bits per channel.
	BitsPerChannel int

	// IsFloat is true for float formats, false for normalized ones.
	IsFloat bool

	// RandomWrite indicates the format can be bound as a writable destination.
	RandomWrite bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatR8Unorm:     {Name: "R8Unorm", Channels: 1, BitsPerChannel: 8, RandomWrite: true},
	FormatRG8Unorm:    {Name: "RG8Unorm", Channels: 2, BitsPerChannel: 8, RandomWrite: true},
	FormatRGB8Unorm:   {Name: "RGB8Unorm", Channels: 3, BitsPerChannel: 8},
	FormatRGBA8Unorm:  {Name: "RGBA8Unorm", Channels: 4, BitsPerChannel: 8, RandomWrite: true},
	FormatR16Float:    {Name: "R16Float", Channels: 1, BitsPerChannel: 16, IsFloat: true, RandomWrite: true},
	FormatRGBA16Float: {Name: "RGBA16Float", Channels: 4, BitsPerChannel: 16, IsFloat: true, RandomWrite: true},
	FormatR32Float:    {Name: "R32Float", Channels: 1, BitsPerChannel: 32, IsFloat: true, RandomWrite: true},
	FormatRG32Float:   {Name: "RG32Float", Channels: 2, BitsPerChannel: 32, IsFloat: true, RandomWrite: true},
	FormatRGB32Float:  {Name: "RGB32Float", Channels: 3, BitsPerChannel: 32, IsFloat: true},
	FormatRGBA32Float: {Name: "RGBA32Float", Channels: 4, BitsPerChannel: 32, IsFloat: true, RandomWrite: true},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// Channels returns the number of color channels.
func (f Format) Channels() int {
	return f.Info().Channels
}

// IsFloat returns true for float formats.
func (f Format) IsFloat() bool {
	return f.Info().IsFloat
}

// SupportsRandomWrite reports whether the format can be written by kernels.
func (f Format) SupportsRandomWrite() bool {
	return f.Info().RandomWrite
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns a string representation of the format.
func (f Format) String() string {
	if !f.IsValid() {
		return "Unknown"
	}
	return formatInfoTable[f].Name
}

// Compatible returns the closest format that supports random write.
// Three channel formats are promoted to their four channel equivalents.
func (f Format) Compatible() Format {
	switch f {
	case FormatRGB8Unorm:
		return FormatRGBA8Unorm
	case FormatRGB32Float:
		return FormatRGBA32Float
	default:
		return f
	}
}

// FloatVersion returns the 32-bit float format with the same channel count,
// used when accumulation would overflow or lose precision.
func (f Format) FloatVersion() Format {
	switch f.Channels() {
	case 1:
		return FormatR32Float
	case 2:
		return FormatRG32Float
	default:
		return FormatRGBA32Float
	}
}

// Quantize converts a pixel to the precision the format can store.
// Missing channels read back as 0 for color and 1 for alpha, normalized
// formats are clamped to [0, 1] and rounded to 1/255 steps.
func (f Format) Quantize(v Vec4) Vec4 {
	info := f.Info()
	out := Vec4{0, 0, 0, 1}
	for c := 0; c < info.Channels && c < 4; c++ {
		out[c] = v[c]
	}
	if info.Channels == 3 {
		out[3] = 1
	}
	if info.IsFloat {
		if info.BitsPerChannel == 16 {
			for c := 0; c < info.Channels; c++ {
				out[c] = roundHalf(out[c])
			}
		}
		return out
	}
	for c := 0; c < info.Channels; c++ {
		x := out[c]
		if x != x { // NaN
			x = 0
		}
		x = math32.Max(0, math32.Min(1, x))
		out[c] = math32.Floor(x*255+0.5) / 255
	}
	return out
}

// roundHalf rounds a float32 to the 11-bit mantissa of a half float.
func roundHalf(x float32) float32 {
	if x == 0 || math32.IsInf(x, 0) || x != x {
		return x
	}
	frac, exp := math32.Frexp(x)
	frac = math32.Round(frac*2048) / 2048
	return math32.Ldexp(frac, exp)
}
