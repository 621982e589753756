// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

// Family identifies a compute program and the kernels it provides.
type Family uint8

const (
	// FamilyMath is the arithmetic program.
	FamilyMath Family = iota

	// FamilyIP is the image processing program.
	FamilyIP

	// FamilyDraw is the drawing program.
	FamilyDraw

	familyCount
)

var familyNames = [familyCount]string{
	FamilyMath: "math",
	FamilyIP:   "ip",
	FamilyDraw: "draw",
}

// String returns the program suffix of the family.
func (f Family) String() string {
	if f >= familyCount {
		return "unknown"
	}
	return familyNames[f]
}

// Families returns every program family.
func Families() []Family {
	return []Family{FamilyMath, FamilyIP, FamilyDraw}
}

// ProgramName returns the name under which the family is loaded.
func (f Family) ProgramName(prefix string) string {
	return prefix + "/" + f.String()
}

// Kernel enumerates every kernel entry point of every family.
// Names are resolved to device handles once, when a Program is loaded.
type Kernel uint16

// None is the zero Kernel.
const None Kernel = 0

const (
	// Math kernels.
	SetC Kernel = iota + 1
	Copy
	SetCMaskedC
	SetCMaskedCI
	SetCMasked
	SetCMaskedI
	AddC
	AddCI
	Add
	AddI
	AddWeighted
	AddWeightedI
	MultiplyC
	MultiplyCI
	Multiply
	MultiplyI
	MultiplyCAddC
	MultiplyCAddCI
	MultiplyCAddCSat
	MultiplyCAddCSatI
	Clamp
	ClampI
	Saturate
	SaturateI

	// Image processing kernels.
	Grayscale
	GrayscaleI
	GrayscaleGamma
	GrayscaleGammaI
	Threshold
	ThresholdI
	ConvertRGB2HSV
	ConvertRGB2HSVI
	ConvertHSV2RGB
	ConvertHSV2RGBI
	Swizzle
	SwizzleI
	Lookup
	LookupI
	FlipHorizontal
	FlipHorizontalI
	FlipVertical
	FlipVerticalI
	Rotate180
	Rotate180I
	DistanceTransformInit
	DistanceTransformStep
	DistanceTransformSqrt
	Erode
	Dilate
	Skeletonize
	Sobel
	Scharr
	Median3x3
	Median5x5
	Bilateral
	BlurGaussian
	RecursiveConvolveFwd
	RecursiveConvolveFwdI
	RecursiveConvolveBak
	HistogramEqClear
	HistogramEqGather
	HistogramEqAccumulate
	HistogramEqMap
	MaxReduce
	MinReduce
	SumReduce
	Premultiply
	PremultiplyI
	ComposeOver
	ComposeIn
	ComposeOut
	ComposeAtop
	ComposeXor
	ComposePlus

	// Drawing kernels.
	Circle
	CircleI
	Line
	LineI
	Border
	BorderI

	kernelCount
)

// kernelKind describes how a kernel treats its destination.
type kernelKind uint8

const (
	// kindOutOfPlace kernels read SrcA and must not alias it with Dst.
	kindOutOfPlace kernelKind = iota

	// kindInPlace kernels read and write Dst; SrcA is never bound.
	kindInPlace

	// kindGenerator kernels bind only Dst.
	kindGenerator
)

type kernelInfo struct {
	name    string
	family  Family
	kind    kernelKind
	inPlace Kernel // in-place variant of an out-of-place kernel
	auxSrcB bool   // SrcB may differ in size from Dst
}

// op builds a table entry for an out-of-place kernel with an in-place variant.
func op(name string, f Family, inPlace Kernel) kernelInfo {
	return kernelInfo{name: name, family: f, kind: kindOutOfPlace, inPlace: inPlace}
}

func ip(name string, f Family) kernelInfo {
	return kernelInfo{name: name, family: f, kind: kindInPlace}
}

func oop(name string, f Family) kernelInfo {
	return kernelInfo{name: name, family: f, kind: kindOutOfPlace}
}

func gen(name string, f Family) kernelInfo {
	return kernelInfo{name: name, family: f, kind: kindGenerator}
}

var kernelTable = [kernelCount]kernelInfo{
	SetC:              gen("SetC", FamilyMath),
	Copy:              oop("Copy", FamilyMath),
	SetCMaskedC:       op("SetCMaskedC", FamilyMath, SetCMaskedCI),
	SetCMaskedCI:      ip("SetCMaskedCI", FamilyMath),
	SetCMasked:        op("SetCMasked", FamilyMath, SetCMaskedI),
	SetCMaskedI:       ip("SetCMaskedI", FamilyMath),
	AddC:              op("AddC", FamilyMath, AddCI),
	AddCI:             ip("AddCI", FamilyMath),
	Add:               op("Add", FamilyMath, AddI),
	AddI:              ip("AddI", FamilyMath),
	AddWeighted:       op("AddWeighted", FamilyMath, AddWeightedI),
	AddWeightedI:      ip("AddWeightedI", FamilyMath),
	MultiplyC:         op("MultiplyC", FamilyMath, MultiplyCI),
	MultiplyCI:        ip("MultiplyCI", FamilyMath),
	Multiply:          op("Multiply", FamilyMath, MultiplyI),
	MultiplyI:         ip("MultiplyI", FamilyMath),
	MultiplyCAddC:     op("MultiplyCAddC", FamilyMath, MultiplyCAddCI),
	MultiplyCAddCI:    ip("MultiplyCAddCI", FamilyMath),
	MultiplyCAddCSat:  op("MultiplyCAddCSat", FamilyMath, MultiplyCAddCSatI),
	MultiplyCAddCSatI: ip("MultiplyCAddCSatI", FamilyMath),
	Clamp:             op("Clamp", FamilyMath, ClampI),
	ClampI:            ip("ClampI", FamilyMath),
	Saturate:          op("Saturate", FamilyMath, SaturateI),
	SaturateI:         ip("SaturateI", FamilyMath),

	Grayscale:             op("Grayscale", FamilyIP, GrayscaleI),
	GrayscaleI:            ip("GrayscaleI", FamilyIP),
	GrayscaleGamma:        op("GrayscaleGamma", FamilyIP, GrayscaleGammaI),
	GrayscaleGammaI:       ip("GrayscaleGammaI", FamilyIP),
	Threshold:             op("Threshold", FamilyIP, ThresholdI),
	ThresholdI:            ip("ThresholdI", FamilyIP),
	ConvertRGB2HSV:        op("ConvertRGB2HSV", FamilyIP, ConvertRGB2HSVI),
	ConvertRGB2HSVI:       ip("ConvertRGB2HSVI", FamilyIP),
	ConvertHSV2RGB:        op("ConvertHSV2RGB", FamilyIP, ConvertHSV2RGBI),
	ConvertHSV2RGBI:       ip("ConvertHSV2RGBI", FamilyIP),
	Swizzle:               op("Swizzle", FamilyIP, SwizzleI),
	SwizzleI:              ip("SwizzleI", FamilyIP),
	Lookup:                withAux(op("Lookup", FamilyIP, LookupI)),
	LookupI:               withAux(ip("LookupI", FamilyIP)),
	FlipHorizontal:        oop("FlipHorizontal", FamilyIP),
	FlipHorizontalI:       ip("FlipHorizontalI", FamilyIP),
	FlipVertical:          oop("FlipVertical", FamilyIP),
	FlipVerticalI:         ip("FlipVerticalI", FamilyIP),
	Rotate180:             oop("Rotate180", FamilyIP),
	Rotate180I:            ip("Rotate180I", FamilyIP),
	DistanceTransformInit: oop("DistanceTransformInit", FamilyIP),
	DistanceTransformStep: oop("DistanceTransformStep", FamilyIP),
	DistanceTransformSqrt: oop("DistanceTransformSqrt", FamilyIP),
	Erode:                 oop("Erode", FamilyIP),
	Dilate:                oop("Dilate", FamilyIP),
	Skeletonize:           oop("Skeletonize", FamilyIP),
	Sobel:                 oop("Sobel", FamilyIP),
	Scharr:                oop("Scharr", FamilyIP),
	Median3x3:             oop("Median3x3", FamilyIP),
	Median5x5:             oop("Median5x5", FamilyIP),
	Bilateral:             oop("Bilateral", FamilyIP),
	BlurGaussian:          oop("BlurGaussian", FamilyIP),
	RecursiveConvolveFwd:  op("RecursiveConvolveFwd", FamilyIP, RecursiveConvolveFwdI),
	RecursiveConvolveFwdI: ip("RecursiveConvolveFwdI", FamilyIP),
	RecursiveConvolveBak:  oop("RecursiveConvolveBak", FamilyIP),
	HistogramEqClear:      gen("HistogramEqClear", FamilyIP),
	HistogramEqGather:     oop("HistogramEqGather", FamilyIP),
	HistogramEqAccumulate: gen("HistogramEqAccumulate", FamilyIP),
	HistogramEqMap:        oop("HistogramEqMap", FamilyIP),
	MaxReduce:             ip("MaxReduce", FamilyIP),
	MinReduce:             ip("MinReduce", FamilyIP),
	SumReduce:             ip("SumReduce", FamilyIP),
	Premultiply:           op("Premultiply", FamilyIP, PremultiplyI),
	PremultiplyI:          ip("PremultiplyI", FamilyIP),
	ComposeOver:           oop("ComposeOver", FamilyIP),
	ComposeIn:             oop("ComposeIn", FamilyIP),
	ComposeOut:            oop("ComposeOut", FamilyIP),
	ComposeAtop:           oop("ComposeAtop", FamilyIP),
	ComposeXor:            oop("ComposeXor", FamilyIP),
	ComposePlus:           oop("ComposePlus", FamilyIP),

	Circle:  op("Circle", FamilyDraw, CircleI),
	CircleI: ip("CircleI", FamilyDraw),
	Line:    op("Line", FamilyDraw, LineI),
	LineI:   ip("LineI", FamilyDraw),
	Border:  op("Border", FamilyDraw, BorderI),
	BorderI: ip("BorderI", FamilyDraw),
}

func withAux(k kernelInfo) kernelInfo {
	k.auxSrcB = true
	return k
}

// Valid reports whether k names a kernel.
func (k Kernel) Valid() bool {
	return k > None && k < kernelCount
}

// String returns the entry point name of the kernel.
func (k Kernel) String() string {
	if !k.Valid() {
		return "None"
	}
	return kernelTable[k].name
}

// Family returns the program family that provides the kernel.
func (k Kernel) Family() Family {
	return kernelTable[k].family
}

// InPlace returns the in-place variant of an out-of-place kernel.
// Kernels that already operate in place return themselves.
func (k Kernel) InPlace() (Kernel, bool) {
	if !k.Valid() {
		return None, false
	}
	info := kernelTable[k]
	switch info.kind {
	case kindInPlace:
		return k, true
	case kindOutOfPlace:
		return info.inPlace, info.inPlace != None
	default:
		return None, false
	}
}

// IsInPlace reports whether the kernel reads and writes Dst.
func (k Kernel) IsInPlace() bool {
	return k.Valid() && kernelTable[k].kind == kindInPlace
}

// AuxSrcB reports whether the SrcB binding is an auxiliary image whose size
// is independent of Dst.
func (k Kernel) AuxSrcB() bool {
	return k.Valid() && kernelTable[k].auxSrcB
}

// Kernels returns every kernel of the family in declaration order.
func (f Family) Kernels() []Kernel {
	var ks []Kernel
	for k := None + 1; k < kernelCount; k++ {
		if kernelTable[k].family == f {
			ks = append(ks, k)
		}
	}
	return ks
}
