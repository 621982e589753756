// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/texops/backend"
	"github.com/gogpu/texops/gpucore"
)

// init registers the software device on package import.
func init() {
	backend.Register(backend.BackendSoftware, func(opts backend.Options) (gpucore.Device, error) {
		d := New(WithWorkers(opts.Workers), WithProgramPrefix(opts.ProgramPrefix))
		if opts.Logger != nil {
			d.SetLogger(opts.Logger)
		}
		return d, nil
	})
}

// Option configures a Device.
type Option func(*options)

type options struct {
	workers int
	prefix  string
}

// WithWorkers sets the number of CPU workers. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithProgramPrefix sets the prefix of the built-in program names.
// An empty prefix keeps DefaultProgramPrefix.
func WithProgramPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

type program struct {
	handle  gpucore.ProgramHandle
	name    string
	spec    programSpec
	params  [gpucore.ParamCount]gpucore.Vec4
	kernels map[string]gpucore.KernelHandle
}

type kernel struct {
	name    string
	program *program
	spec    *kernelSpec
	images  [gpucore.SlotHistogram + 1]gpucore.ImageID
	buffers [gpucore.SlotHistogram + 1]gpucore.BufferID
}

// Device is a CPU implementation of gpucore.Device.
//
// Every dispatch completes before Dispatch returns, which gives the
// program order and barrier semantics of a single compute queue. Work
// groups of one dispatch run in parallel on a worker pool.
type Device struct {
	mu       sync.Mutex
	workers  *workerPool
	specs    map[string]programSpec
	programs map[gpucore.ProgramHandle]*program
	kernels  map[gpucore.KernelHandle]*kernel
	images   map[gpucore.ImageID]*surface
	buffers  map[gpucore.BufferID][]uint32
	nextID   uint64
	closed   bool
}

// New creates a software device with the built-in programs.
func New(opts ...Option) *Device {
	o := options{prefix: DefaultProgramPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	specs := make(map[string]programSpec)
	for suffix, spec := range builtinPrograms() {
		specs[o.prefix+"/"+suffix] = spec
	}
	d := &Device{
		workers:  newWorkerPool(o.workers),
		specs:    specs,
		programs: make(map[gpucore.ProgramHandle]*program),
		kernels:  make(map[gpucore.KernelHandle]*kernel),
		images:   make(map[gpucore.ImageID]*surface),
		buffers:  make(map[gpucore.BufferID][]uint32),
	}
	slogger().Info("texops: software device initialized", "workers", d.workers.workers)
	return d
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendSoftware }

// SetLogger sets the logger of the software backend.
func (d *Device) SetLogger(l *slog.Logger) { setLogger(l) }

// Close stops the worker pool and drops all resources.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.workers.close()
	if n := len(d.images); n > 0 {
		slogger().Debug("texops: software device closed with live images", "count", n)
	}
	clear(d.images)
	clear(d.buffers)
	clear(d.kernels)
	clear(d.programs)
	return nil
}

func (d *Device) newID() uint64 {
	d.nextID++
	return d.nextID
}

// LoadProgram creates a new instance of a built-in program.
// Every call returns a program with its own parameter state.
func (d *Device) LoadProgram(name string) (gpucore.ProgramHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	spec, ok := d.specs[name]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("software: program %q: %w", name, gpucore.ErrResourceNotFound)
	}
	h := gpucore.ProgramHandle(d.newID())
	d.programs[h] = &program{
		handle:  h,
		name:    name,
		spec:    spec,
		kernels: make(map[string]gpucore.KernelHandle),
	}
	return h, nil
}

// FindKernel resolves a kernel of a loaded program. Repeated lookups of the
// same name return the same handle.
func (d *Device) FindKernel(ph gpucore.ProgramHandle, name string) (gpucore.KernelHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.programs[ph]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("software: program %d: %w", ph, gpucore.ErrResourceNotFound)
	}
	if h, ok := p.kernels[name]; ok {
		return h, nil
	}
	spec, ok := p.spec[name]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("software: program %q kernel %q: %w", p.name, name, gpucore.ErrResourceNotFound)
	}
	h := gpucore.KernelHandle(d.newID())
	p.kernels[name] = h
	d.kernels[h] = &kernel{name: name, program: p, spec: spec}
	return h, nil
}

// WorkGroupSize returns the work group dimensions of a kernel, or zero for
// unknown kernels.
func (d *Device) WorkGroupSize(kh gpucore.KernelHandle) (x, y uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k, ok := d.kernels[kh]
	if !ok {
		return 0, 0
	}
	return k.spec.wgX, k.spec.wgY
}

// CompatibleFormat promotes formats that cannot be written randomly.
func (d *Device) CompatibleFormat(f gpucore.Format) gpucore.Format {
	return f.Compatible()
}

// CreateImage allocates an image initialized to zero.
func (d *Device) CreateImage(width, height int, format gpucore.Format, randomWrite bool) (gpucore.ImageID, error) {
	if width <= 0 || height <= 0 || !format.IsValid() {
		return gpucore.InvalidID, fmt.Errorf("software: create image %dx%d %s: %w", width, height, format, gpucore.ErrInvalidOperation)
	}
	if randomWrite && !format.SupportsRandomWrite() {
		return gpucore.InvalidID, fmt.Errorf("software: format %s does not support random write: %w", format, gpucore.ErrInvalidOperation)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpucore.ImageID(d.newID())
	d.images[id] = newSurface(width, height, format, randomWrite)
	return id, nil
}

// DestroyImage releases an image.
func (d *Device) DestroyImage(id gpucore.ImageID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.images, id)
}

// WriteImage uploads pixels in row-major order.
func (d *Device) WriteImage(id gpucore.ImageID, pixels []gpucore.Vec4) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.images[id]
	if !ok {
		return fmt.Errorf("software: image %d: %w", id, gpucore.ErrResourceNotFound)
	}
	if len(pixels) != len(s.pix) {
		return fmt.Errorf("software: write %d pixels to %dx%d image: %w", len(pixels), s.width, s.height, gpucore.ErrDimensionMismatch)
	}
	for i, v := range pixels {
		s.pix[i] = s.format.Quantize(v)
	}
	return nil
}

// CreateBuffer allocates n zeroed uint32 counters.
func (d *Device) CreateBuffer(n int) (gpucore.BufferID, error) {
	if n <= 0 {
		return gpucore.InvalidID, fmt.Errorf("software: create buffer of %d counters: %w", n, gpucore.ErrInvalidOperation)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpucore.BufferID(d.newID())
	d.buffers[id] = make([]uint32, n)
	return id, nil
}

// DestroyBuffer releases a buffer.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.buffers, id)
}

// BindImage binds an image to a kernel slot. Unknown kernels are ignored;
// the binding is validated at dispatch.
func (d *Device) BindImage(kh gpucore.KernelHandle, slot gpucore.Slot, id gpucore.ImageID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if k, ok := d.kernels[kh]; ok && int(slot) < len(k.images) {
		k.images[slot] = id
	}
}

// BindBuffer binds a buffer to a kernel slot.
func (d *Device) BindBuffer(kh gpucore.KernelHandle, slot gpucore.Slot, id gpucore.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if k, ok := d.kernels[kh]; ok && int(slot) < len(k.buffers) {
		k.buffers[slot] = id
	}
}

// SetVector sets a program parameter.
func (d *Device) SetVector(ph gpucore.ProgramHandle, param gpucore.Param, v gpucore.Vec4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.programs[ph]; ok && param < gpucore.ParamCount {
		p.params[param] = v
	}
}

// Dispatch runs gx*gy*gz work groups and returns when all have finished.
func (d *Device) Dispatch(kh gpucore.KernelHandle, gx, gy, gz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return fmt.Errorf("software: dispatch on closed device: %w", gpucore.ErrResourceLifecycle)
	}
	k, ok := d.kernels[kh]
	if !ok {
		return fmt.Errorf("software: kernel %d: %w", kh, gpucore.ErrResourceNotFound)
	}
	inv, err := d.invocation(k)
	if err != nil {
		return err
	}

	wgX, wgY := int(k.spec.wgX), int(k.spec.wgY)
	rows := int(gy) * int(gz)
	d.workers.run(rows, func(r int) {
		gyi := r % int(gy)
		for gxi := range int(gx) {
			for ty := range wgY {
				for tx := range wgX {
					k.spec.run(inv, gxi*wgX+tx, gyi*wgY+ty)
				}
			}
		}
	})
	return nil
}

// invocation resolves the bindings of a kernel. Called with d.mu held.
func (d *Device) invocation(k *kernel) (*invocation, error) {
	p := k.program
	inv := &invocation{
		params: &p.params,
		width:  int(p.params[gpucore.ParamTextureSize][0]),
		height: int(p.params[gpucore.ParamTextureSize][1]),
	}
	for _, slot := range []gpucore.Slot{gpucore.SlotSrcA, gpucore.SlotSrcB, gpucore.SlotDst} {
		if !k.spec.requires.has(slot) {
			continue
		}
		id := k.images[slot]
		s, ok := d.images[id]
		if !ok {
			return nil, fmt.Errorf("software: %s: %s bound to missing image %d: %w", k.name, slot, id, gpucore.ErrResourceNotFound)
		}
		switch slot {
		case gpucore.SlotSrcA:
			inv.srcA = s
		case gpucore.SlotSrcB:
			inv.srcB = s
		case gpucore.SlotDst:
			if !s.randomWrite {
				return nil, fmt.Errorf("software: %s: destination without random write: %w", k.name, gpucore.ErrInvalidOperation)
			}
			inv.dst = s
		}
	}
	if k.spec.requires.has(gpucore.SlotHistogram) {
		buf, ok := d.buffers[k.buffers[gpucore.SlotHistogram]]
		if !ok || len(buf) < buckets*channels {
			return nil, fmt.Errorf("software: %s: histogram buffer missing or too small: %w", k.name, gpucore.ErrResourceNotFound)
		}
		inv.hist = buf
	}
	return inv, nil
}

// ReadImage copies a region of an image.
func (d *Device) ReadImage(id gpucore.ImageID, x, y, w, h int) ([]gpucore.Vec4, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readImage(id, x, y, w, h)
}

func (d *Device) readImage(id gpucore.ImageID, x, y, w, h int) ([]gpucore.Vec4, error) {
	s, ok := d.images[id]
	if !ok {
		return nil, fmt.Errorf("software: image %d: %w", id, gpucore.ErrResourceNotFound)
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > s.width || y+h > s.height {
		return nil, fmt.Errorf("software: read %dx%d at (%d,%d) from %dx%d image: %w",
			w, h, x, y, s.width, s.height, gpucore.ErrDimensionMismatch)
	}
	out := make([]gpucore.Vec4, 0, w*h)
	for row := y; row < y+h; row++ {
		out = append(out, s.pix[row*s.width+x:row*s.width+x+w]...)
	}
	return out, nil
}

// ReadBuffer copies a buffer.
func (d *Device) ReadBuffer(id gpucore.BufferID) ([]uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.buffers[id]
	if !ok {
		return nil, fmt.Errorf("software: buffer %d: %w", id, gpucore.ErrResourceNotFound)
	}
	return append([]uint32(nil), buf...), nil
}

// readRequest is an image read completed on a separate goroutine.
type readRequest struct {
	done   atomic.Bool
	pixels []gpucore.Vec4
	err    error
}

func (r *readRequest) Done() bool { return r.done.Load() }

func (r *readRequest) Result() ([]gpucore.Vec4, error) { return r.pixels, r.err }

// RequestImage starts an asynchronous read of an image region.
func (d *Device) RequestImage(id gpucore.ImageID, x, y, w, h int) gpucore.ReadbackRequest {
	r := &readRequest{}
	go func() {
		r.pixels, r.err = d.ReadImage(id, x, y, w, h)
		r.done.Store(true)
	}()
	return r
}

// Programs returns the names of the built-in programs.
func (d *Device) Programs() []string {
	names := make([]string, 0, len(d.specs))
	for name := range d.specs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// String describes the device.
func (d *Device) String() string {
	return fmt.Sprintf("software(%d workers, programs %s)", d.workers.workers, strings.Join(d.Programs(), ","))
}

var (
	_ gpucore.Device        = (*Device)(nil)
	_ gpucore.AsyncReadback = (*Device)(nil)
)
