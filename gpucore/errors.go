// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "errors"

// Error classes shared by hosts, the operator library and the algorithms.
// Callers test for them with errors.Is; every returned error wraps one of
// these with the offending program, kernel or image named.
var (
	// ErrResourceNotFound is returned when a program or kernel name does not
	// resolve. It is fatal to the call and never retried.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidOperation is returned when an operation is called in a way
	// the kernels cannot honor: an aliased source and destination without an
	// in-place variant, or a destination without random write support.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrResourceLifecycle is returned on double release or use after
	// release of a pooled image. It indicates a caller bug.
	ErrResourceLifecycle = errors.New("resource lifecycle violation")

	// ErrDimensionMismatch is returned when images of inconsistent size are
	// bound into one pipeline operation. No implicit resizing is performed.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
