// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

// Porter-Duff compositing.
//
// Inputs are straight alpha colors A and B with alphas aA and aB.
// Outputs carry premultiplied color.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)

// composeFunc combines the SrcA and SrcB pixels.
type composeFunc func(a, b vec4) vec4

// composeModes maps kernel names to compositing operators.
var composeModes = map[string]composeFunc{
	"ComposeOver": composeOver,
	"ComposeIn":   composeIn,
	"ComposeOut":  composeOut,
	"ComposeAtop": composeAtop,
	"ComposeXor":  composeXor,
	"ComposePlus": composePlus,
}

// composeWeighted returns wa*aA*A + wb*aB*B for color and wa*aA + wb*aB
// for alpha.
func composeWeighted(a, b vec4, wa, wb float32) vec4 {
	fa := a[3] * wa
	fb := b[3] * wb
	return vec4{
		a[0]*fa + b[0]*fb,
		a[1]*fa + b[1]*fb,
		a[2]*fa + b[2]*fb,
		fa + fb,
	}
}

// composeOver: A occludes B.
// Formula: aA*A + (1-aA)*aB*B
func composeOver(a, b vec4) vec4 {
	return composeWeighted(a, b, 1, 1-a[3])
}

// composeIn: A shows only where B is visible.
// Formula: aA*A*aB
func composeIn(a, b vec4) vec4 {
	return composeWeighted(a, b, b[3], 0)
}

// composeOut: A shows only where B is not visible.
// Formula: aA*A*(1-aB)
func composeOut(a, b vec4) vec4 {
	return composeWeighted(a, b, 1-b[3], 0)
}

// composeAtop: A over B, restricted to B.
// Formula: aA*A*aB + (1-aA)*aB*B
func composeAtop(a, b vec4) vec4 {
	return composeWeighted(a, b, b[3], 1-a[3])
}

// composeXor: A and B mutually exclude each other.
// Formula: aA*A*(1-aB) + (1-aA)*aB*B
func composeXor(a, b vec4) vec4 {
	return composeWeighted(a, b, 1-b[3], 1-a[3])
}

// composePlus: blend without precedence.
// Formula: aA*A + aB*B
func composePlus(a, b vec4) vec4 {
	return composeWeighted(a, b, 1, 1)
}
