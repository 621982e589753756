// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import "github.com/gogpu/texops/gpucore"

// Errors returned by texops operations. They are the gpucore sentinels, so
// errors.Is matches regardless of the layer that produced the error.
var (
	// ErrResourceNotFound reports a program or kernel missing on the device.
	ErrResourceNotFound = gpucore.ErrResourceNotFound

	// ErrInvalidOperation reports an illegal call, such as an aliased
	// destination without an in-place kernel or a destination without
	// random write support.
	ErrInvalidOperation = gpucore.ErrInvalidOperation

	// ErrResourceLifecycle reports use of a released or destroyed image.
	ErrResourceLifecycle = gpucore.ErrResourceLifecycle

	// ErrDimensionMismatch reports images of different sizes bound to one
	// operation.
	ErrDimensionMismatch = gpucore.ErrDimensionMismatch
)
