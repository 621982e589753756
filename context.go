// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"

	"github.com/gogpu/texops/gpucore"
	"github.com/gogpu/texops/internal/compute"
	"github.com/gogpu/texops/internal/image"
)

// Image is a lease on a device image. Images come from Context.NewImage,
// Context.WrapImage, Context.Upload or the temporary pool.
type Image = image.Image

// Format is a device pixel format.
type Format = gpucore.Format

// Vec4 is a pixel or scalar register value.
type Vec4 = gpucore.Vec4

// Pixel formats.
const (
	FormatR8Unorm     = gpucore.FormatR8Unorm
	FormatRG8Unorm    = gpucore.FormatRG8Unorm
	FormatRGB8Unorm   = gpucore.FormatRGB8Unorm
	FormatRGBA8Unorm  = gpucore.FormatRGBA8Unorm
	FormatR16Float    = gpucore.FormatR16Float
	FormatRGBA16Float = gpucore.FormatRGBA16Float
	FormatR32Float    = gpucore.FormatR32Float
	FormatRG32Float   = gpucore.FormatRG32Float
	FormatRGB32Float  = gpucore.FormatRGB32Float
	FormatRGBA32Float = gpucore.FormatRGBA32Float
)

// Context runs texops operations on one device.
//
// The Context holds the loaded programs and the temporary image pool. It
// is not safe for concurrent use.
type Context struct {
	dev    gpucore.Device
	math   *compute.Program
	ip     *compute.Program
	draw   *compute.Program
	pool   *image.Pool
	logger *slog.Logger

	ownsDevice bool
	closed     bool
}

// New creates a Context over a device owned by the host. It loads the
// math, ip and draw programs; a missing program or kernel fails with
// ErrResourceNotFound.
func New(dev gpucore.Device, opts ...Option) (*Context, error) {
	if dev == nil {
		return nil, fmt.Errorf("texops: nil device: %w", ErrInvalidOperation)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}
	if o.logger != nil {
		propagateLogger(dev, o.logger)
	}

	c := &Context{dev: dev, logger: logger}
	for _, f := range compute.Families() {
		p, err := compute.Load(dev, f, o.programPrefix, logger)
		if err != nil {
			return nil, fmt.Errorf("texops: %w", err)
		}
		switch f {
		case compute.FamilyMath:
			c.math = p
		case compute.FamilyIP:
			c.ip = p
		case compute.FamilyDraw:
			c.draw = p
		}
	}
	c.pool = image.NewPool(dev, o.poolCapacity, logger)
	trackDevice(dev)

	logger.Info("texops: context created", "device", dev.Name(), "pool_capacity", o.poolCapacity)
	return c, nil
}

// Device returns the device of the Context.
func (c *Context) Device() gpucore.Device { return c.dev }

// Close destroys the cached temporaries. Temporaries still leased are
// reported as leaks. A Context created by Open also closes its device.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.pool.Close()
	untrackDevice(c.dev)
	if c.ownsDevice {
		if err := c.dev.Close(); err != nil {
			return fmt.Errorf("texops: close device: %w", err)
		}
	}
	return nil
}

func (c *Context) check() error {
	if c.closed {
		return fmt.Errorf("texops: context closed: %w", ErrResourceLifecycle)
	}
	return nil
}

// NewImage allocates a device image that kernels can write. Three channel
// formats are promoted to the device compatible format.
func (c *Context) NewImage(width, height int, format Format) (*Image, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	img, err := image.New(c.dev, width, height, format, true)
	if err != nil {
		return nil, fmt.Errorf("texops: %w", err)
	}
	return img, nil
}

// NewInputImage allocates a device image without random write support.
// It can only be used as a source.
func (c *Context) NewInputImage(width, height int, format Format) (*Image, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	img, err := image.New(c.dev, width, height, format, false)
	if err != nil {
		return nil, fmt.Errorf("texops: %w", err)
	}
	return img, nil
}

// WrapImage adopts an image the host created on the device. The host keeps
// ownership: DestroyImage only invalidates the returned lease.
func (c *Context) WrapImage(id gpucore.ImageID, width, height int, format Format, randomWrite bool) (*Image, error) {
	img, err := image.Wrap(id, image.Descriptor{Width: width, Height: height, Format: format}, randomWrite)
	if err != nil {
		return nil, fmt.Errorf("texops: %w", err)
	}
	return img, nil
}

// DestroyImage destroys an image created by the Context, or releases a
// temporary back to the pool.
func (c *Context) DestroyImage(img *Image) error {
	if err := img.Destroy(c.dev); err != nil {
		return fmt.Errorf("texops: destroy image: %w", err)
	}
	return nil
}

// Acquire leases a temporary image from the pool. It must be returned with
// Release exactly once.
func (c *Context) Acquire(width, height int, format Format) (*Image, error) {
	img, err := c.pool.Acquire(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("texops: %w", err)
	}
	return img, nil
}

// AcquireMatching leases a temporary with the size and format of src. With
// floatForced the float format of the same channel count is used.
func (c *Context) AcquireMatching(src *Image, floatForced bool) (*Image, error) {
	img, err := c.pool.AcquireMatching(src, floatForced)
	if err != nil {
		return nil, fmt.Errorf("texops: %w", err)
	}
	return img, nil
}

// Release returns a temporary to the pool. A second release fails with
// ErrResourceLifecycle.
func (c *Context) Release(img *Image) error {
	if err := c.pool.Release(img); err != nil {
		return fmt.Errorf("texops: %w", err)
	}
	return nil
}

// Outstanding returns the number of temporaries currently leased.
func (c *Context) Outstanding() int { return c.pool.Outstanding() }

// WritePixels replaces the content of img with pixels in row-major order.
func (c *Context) WritePixels(img *Image, pixels []Vec4) error {
	if err := img.Check(); err != nil {
		return fmt.Errorf("texops: write pixels: %w", err)
	}
	if len(pixels) != img.Width()*img.Height() {
		return fmt.Errorf("texops: write pixels: %d pixels for %s: %w",
			len(pixels), img.Descriptor(), ErrDimensionMismatch)
	}
	if err := c.dev.WriteImage(img.ID(), pixels); err != nil {
		return fmt.Errorf("texops: write pixels: %w", err)
	}
	return nil
}

// ReadPixels reads back the whole image in row-major order.
func (c *Context) ReadPixels(img *Image) ([]Vec4, error) {
	if err := img.Check(); err != nil {
		return nil, fmt.Errorf("texops: read pixels: %w", err)
	}
	return c.ReadRegion(img, 0, 0, img.Width(), img.Height())
}

// ReadRegion reads back a rectangle of the image.
func (c *Context) ReadRegion(img *Image, x, y, width, height int) ([]Vec4, error) {
	if err := img.Check(); err != nil {
		return nil, fmt.Errorf("texops: read region: %w", err)
	}
	px, err := c.dev.ReadImage(img.ID(), x, y, width, height)
	if err != nil {
		return nil, fmt.Errorf("texops: read region: %w", err)
	}
	return px, nil
}

// Upload creates a device image from any image.Image. Pixels are
// converted to straight alpha.
func (c *Context) Upload(src stdimage.Image, format Format) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("texops: upload empty image: %w", ErrInvalidOperation)
	}
	nrgba := stdimage.NewNRGBA64(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)

	pixels := make([]Vec4, 0, b.Dx()*b.Dy())
	for y := range b.Dy() {
		for x := range b.Dx() {
			p := nrgba.NRGBA64At(x, y)
			pixels = append(pixels, Vec4{
				float32(p.R) / 0xffff,
				float32(p.G) / 0xffff,
				float32(p.B) / 0xffff,
				float32(p.A) / 0xffff,
			})
		}
	}

	img, err := c.NewImage(b.Dx(), b.Dy(), format)
	if err != nil {
		return nil, err
	}
	if err := c.WritePixels(img, pixels); err != nil {
		return nil, errors.Join(err, img.Destroy(c.dev))
	}
	return img, nil
}

// Download reads the image back as straight alpha NRGBA64. Values are
// clamped to [0, 1].
func (c *Context) Download(img *Image) (*stdimage.NRGBA64, error) {
	pixels, err := c.ReadPixels(img)
	if err != nil {
		return nil, err
	}
	out := stdimage.NewNRGBA64(stdimage.Rect(0, 0, img.Width(), img.Height()))
	for i, p := range pixels {
		out.SetNRGBA64(i%img.Width(), i/img.Width(), color.NRGBA64{
			R: unit16(p[0]),
			G: unit16(p[1]),
			B: unit16(p[2]),
			A: unit16(p[3]),
		})
	}
	return out, nil
}

func unit16(v float32) uint16 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(v*0xffff + 0.5)
}

// wrap prefixes an operation error with the operation name.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("texops: %s: %w", op, err)
}
