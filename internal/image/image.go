// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package image provides device image leases and the temporary image pool
// used by the texops algorithms.
package image

import (
	"fmt"

	"github.com/gogpu/texops/gpucore"
)

// Descriptor describes the shape of a device image.
// Channel count and numeric representation derive from the format.
type Descriptor struct {
	Width  int
	Height int
	Format gpucore.Format
}

// Channels returns the channel count implied by the format.
func (d Descriptor) Channels() int { return d.Format.Channels() }

// IsFloat reports whether the format stores floats.
func (d Descriptor) IsFloat() bool { return d.Format.IsFloat() }

// Transposed returns the descriptor with width and height swapped.
func (d Descriptor) Transposed() Descriptor {
	return Descriptor{Width: d.Height, Height: d.Width, Format: d.Format}
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%dx%d %s", d.Width, d.Height, d.Format)
}

func (d Descriptor) validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("image: invalid size %dx%d: %w", d.Width, d.Height, gpucore.ErrInvalidOperation)
	}
	if !d.Format.IsValid() {
		return fmt.Errorf("image: invalid format %d: %w", d.Format, gpucore.ErrInvalidOperation)
	}
	return nil
}

// allocation is one device image. Pooled allocations outlive their leases.
type allocation struct {
	id          gpucore.ImageID
	desc        Descriptor
	randomWrite bool
}

// Image is a lease on a device image.
//
// Two leases refer to the same image when they share the device image ID;
// this identity, not pixel content, decides source/destination aliasing. A lease
// becomes invalid once released or destroyed and every later use fails with
// gpucore.ErrResourceLifecycle.
type Image struct {
	alloc    *allocation
	pool     *Pool
	owned    bool
	released bool
}

// New allocates an image owned by the caller. When randomWrite is set the
// format is first made compatible by the allocator.
func New(a gpucore.ImageAllocator, width, height int, format gpucore.Format, randomWrite bool) (*Image, error) {
	if randomWrite {
		format = a.CompatibleFormat(format)
	}
	desc := Descriptor{Width: width, Height: height, Format: format}
	if err := desc.validate(); err != nil {
		return nil, err
	}
	id, err := a.CreateImage(width, height, format, randomWrite)
	if err != nil {
		return nil, fmt.Errorf("image: create %s: %w", desc, err)
	}
	return &Image{
		alloc: &allocation{id: id, desc: desc, randomWrite: randomWrite},
		owned: true,
	}, nil
}

// Wrap adopts an image the host created. The host keeps ownership;
// Destroy only invalidates the lease.
func Wrap(id gpucore.ImageID, desc Descriptor, randomWrite bool) (*Image, error) {
	if id == gpucore.InvalidID {
		return nil, fmt.Errorf("image: wrap invalid id: %w", gpucore.ErrResourceNotFound)
	}
	if err := desc.validate(); err != nil {
		return nil, err
	}
	return &Image{alloc: &allocation{id: id, desc: desc, randomWrite: randomWrite}}, nil
}

// ID returns the device handle of the image.
func (img *Image) ID() gpucore.ImageID { return img.alloc.id }

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.alloc.desc.Width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.alloc.desc.Height }

// Format returns the pixel format.
func (img *Image) Format() gpucore.Format { return img.alloc.desc.Format }

// Descriptor returns the image descriptor.
func (img *Image) Descriptor() Descriptor { return img.alloc.desc }

// RandomWrite reports whether kernels may write the image.
func (img *Image) RandomWrite() bool { return img.alloc.randomWrite }

// Pooled reports whether the image is a temporary lease from a Pool.
func (img *Image) Pooled() bool { return img.pool != nil }

// Live reports whether the lease is still valid.
func (img *Image) Live() bool { return img != nil && !img.released }

// Check returns an error wrapping gpucore.ErrResourceLifecycle if the lease
// has been released.
func (img *Image) Check() error {
	if img == nil {
		return fmt.Errorf("image: nil image: %w", gpucore.ErrResourceLifecycle)
	}
	if img.released {
		return fmt.Errorf("image: %s used after release: %w", img.alloc.desc, gpucore.ErrResourceLifecycle)
	}
	return nil
}

// Same reports whether both leases refer to the same device image.
func (img *Image) Same(other *Image) bool {
	if img == nil || other == nil {
		return false
	}
	return img.alloc.id == other.alloc.id
}

// SameSize reports whether both images have identical dimensions.
func (img *Image) SameSize(other *Image) bool {
	return img.Width() == other.Width() && img.Height() == other.Height()
}

// Destroy releases an image that is not pooled. Owned images are destroyed
// on the device, wrapped images are only invalidated.
func (img *Image) Destroy(a gpucore.ImageAllocator) error {
	if err := img.Check(); err != nil {
		return err
	}
	if img.pool != nil {
		return img.pool.Release(img)
	}
	img.released = true
	if img.owned {
		a.DestroyImage(img.alloc.id)
	}
	return nil
}
