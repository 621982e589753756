// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/texops/backend"
	"github.com/gogpu/texops/gpucore"
)

// init registers the wgpu device on package import.
func init() {
	backend.Register(backend.BackendWGPU, func(opts backend.Options) (gpucore.Device, error) {
		if opts.Programs == nil {
			return nil, fmt.Errorf("wgpu: no program sources: %w", backend.ErrBackendNotAvailable)
		}
		if opts.Logger != nil {
			setLogger(opts.Logger)
		}
		d, err := New(opts.Programs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", backend.ErrBackendNotAvailable, err)
		}
		return d, nil
	})
}

// DefaultFenceTimeout bounds the wait for one submission.
const DefaultFenceTimeout = 5 * time.Second

// pollInterval is the sleep between completion polls of a submission.
const pollInterval = 50 * time.Microsecond

// Binding numbers of the single bind group every kernel uses.
const (
	bindingParams    = 0
	bindingSrcA      = 1
	bindingSrcB      = 2
	bindingDst       = 3
	bindingHistogram = 4
)

// paramsSize is the size of the parameter uniform: ScalarA..D,
// TextureSize and TexelSize as vec4<f32>.
const paramsSize = uint64(gpucore.ParamCount) * texelSize

// dummySize covers the largest buffer a kernel reads through an unbound
// slot: the histogram.
const dummySize = gpucore.HistogramBuckets * gpucore.HistogramChannels * 4

// Option configures a Device.
type Option func(*options)

type options struct {
	fenceTimeout time.Duration
}

// WithFenceTimeout sets how long a submission may take before it fails.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fenceTimeout = d
		}
	}
}

type deviceImage struct {
	buf         hal.Buffer
	width       int
	height      int
	format      gpucore.Format
	randomWrite bool
}

func (img *deviceImage) size() uint64 { return uint64(img.width*img.height) * texelSize }

type deviceBuffer struct {
	buf hal.Buffer
	n   int
}

// module is a compiled program source, shared by all its program instances.
type module struct {
	shader  hal.ShaderModule
	entries map[string]entryPoint
}

type program struct {
	handle  gpucore.ProgramHandle
	name    string
	module  *module
	params  [gpucore.ParamCount]gpucore.Vec4
	uniform hal.Buffer
	kernels map[string]gpucore.KernelHandle
}

type kernel struct {
	entry    entryPoint
	program  *program
	pipeline hal.ComputePipeline
	images   [gpucore.SlotHistogram + 1]gpucore.ImageID
	buffers  [gpucore.SlotHistogram + 1]gpucore.BufferID
}

// Device implements gpucore.Device on a gogpu/wgpu HAL device.
//
// Programs are WGSL sources read from an fs.FS as "<name>.wgsl" and
// compiled with naga. Images live in storage buffers of vec4<f32> texels.
// Every kernel uses one bind group: the parameter uniform at binding 0,
// SrcA and SrcB as read-only storage at 1 and 2, Dst at 3 and the
// histogram counters at 4. Unbound slots are bound to a zeroed buffer.
//
// Every Dispatch is submitted and waited for before it returns.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool
	adapter  string

	sources    fs.FS
	timeout    time.Duration
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	dummy      hal.Buffer

	modules  map[string]*module
	programs map[gpucore.ProgramHandle]*program
	kernels  map[gpucore.KernelHandle]*kernel
	images   map[gpucore.ImageID]*deviceImage
	buffers  map[gpucore.BufferID]*deviceBuffer
	nextID   uint64
	closed   bool
}

func newDevice(sources fs.FS, opts []Option) *Device {
	o := options{fenceTimeout: DefaultFenceTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return &Device{
		sources:  sources,
		timeout:  o.fenceTimeout,
		modules:  make(map[string]*module),
		programs: make(map[gpucore.ProgramHandle]*program),
		kernels:  make(map[gpucore.KernelHandle]*kernel),
		images:   make(map[gpucore.ImageID]*deviceImage),
		buffers:  make(map[gpucore.BufferID]*deviceBuffer),
	}
}

// New opens the first GPU adapter of the Vulkan backend and creates a
// device serving the WGSL programs in sources.
func New(sources fs.FS, opts ...Option) (*Device, error) {
	d := newDevice(sources, opts)

	b, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	d.instance = instance
	d.device = openDev.Device
	d.queue = openDev.Queue
	d.adapter = selected.Info.Name
	if err := d.init(); err != nil {
		d.destroyShared()
		d.device.Destroy()
		instance.Destroy()
		return nil, err
	}
	slogger().Info("texops: wgpu device initialized", "adapter", d.adapter)
	return d, nil
}

// NewFromProvider creates a device on the GPU device of a host
// application. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. The host keeps
// ownership of the device.
func NewFromProvider(provider gpucontext.DeviceProvider, sources fs.FS, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, fmt.Errorf("wgpu: nil device provider")
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	d := newDevice(sources, opts)
	d.device = device
	d.queue = queue
	d.external = true
	d.adapter = "shared"
	if err := d.init(); err != nil {
		d.destroyShared()
		return nil, err
	}
	slogger().Info("texops: wgpu device adopted from host")
	return d, nil
}

// init creates the bind group layout shared by every kernel.
func (d *Device) init() error {
	storage := func(binding uint32, t gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: t},
		}
	}
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "texops_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			storage(bindingParams, gputypes.BufferBindingTypeUniform),
			storage(bindingSrcA, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(bindingSrcB, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(bindingDst, gputypes.BufferBindingTypeStorage),
			storage(bindingHistogram, gputypes.BufferBindingTypeStorage),
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	d.bindLayout = layout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "texops_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	dummy, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "texops_unbound", Size: dummySize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create unbound slot buffer: %w", err)
	}
	d.dummy = dummy
	if err := d.queue.WriteBuffer(dummy, 0, make([]byte, dummySize)); err != nil {
		return fmt.Errorf("wgpu: clear unbound slot buffer: %w", err)
	}
	return nil
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendWGPU }

// Adapter returns the name of the GPU adapter.
func (d *Device) Adapter() string { return d.adapter }

// SetLogger sets the logger of the wgpu backend.
func (d *Device) SetLogger(l *slog.Logger) { setLogger(l) }

// Close destroys every resource of the device. A device adopted from a
// host is left to the host.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true

	for id, img := range d.images {
		d.device.DestroyBuffer(img.buf)
		delete(d.images, id)
	}
	for id, b := range d.buffers {
		d.device.DestroyBuffer(b.buf)
		delete(d.buffers, id)
	}
	for id, k := range d.kernels {
		d.device.DestroyComputePipeline(k.pipeline)
		delete(d.kernels, id)
	}
	for id, p := range d.programs {
		d.device.DestroyBuffer(p.uniform)
		delete(d.programs, id)
	}
	for name, m := range d.modules {
		d.device.DestroyShaderModule(m.shader)
		delete(d.modules, name)
	}
	d.destroyShared()

	if !d.external {
		d.device.Destroy()
		d.instance.Destroy()
	}
	d.device = nil
	d.queue = nil
	d.instance = nil
	return nil
}

func (d *Device) destroyShared() {
	if d.dummy != nil {
		d.device.DestroyBuffer(d.dummy)
		d.dummy = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
}

func (d *Device) newID() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Device) checkOpen() error {
	if d.closed {
		return fmt.Errorf("wgpu: device closed: %w", gpucore.ErrResourceLifecycle)
	}
	return nil
}

// loadModule compiles the source of a program once.
func (d *Device) loadModule(name string) (*module, error) {
	if m, ok := d.modules[name]; ok {
		return m, nil
	}
	src, err := fs.ReadFile(d.sources, name+".wgsl")
	if err != nil {
		return nil, fmt.Errorf("wgpu: program %q: %w: %w", name, gpucore.ErrResourceNotFound, err)
	}
	prog, err := compileWGSL(string(src))
	if err != nil {
		return nil, fmt.Errorf("wgpu: program %q: %w", name, err)
	}
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{SPIRV: prog.code},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: program %q: create shader module: %w", name, err)
	}
	m := &module{shader: shader, entries: prog.entries}
	d.modules[name] = m
	slogger().Debug("texops: wgpu program compiled", "program", name, "entry_points", len(prog.entries))
	return m, nil
}

// LoadProgram creates a program instance with its own parameter state.
func (d *Device) LoadProgram(name string) (gpucore.ProgramHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return gpucore.InvalidID, err
	}

	m, err := d.loadModule(name)
	if err != nil {
		return gpucore.InvalidID, err
	}
	uniform, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: name + "_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: program %q: create parameter buffer: %w", name, err)
	}
	h := gpucore.ProgramHandle(d.newID())
	d.programs[h] = &program{
		handle:  h,
		name:    name,
		module:  m,
		uniform: uniform,
		kernels: make(map[string]gpucore.KernelHandle),
	}
	return h, nil
}

// FindKernel creates the compute pipeline of an entry point.
func (d *Device) FindKernel(ph gpucore.ProgramHandle, name string) (gpucore.KernelHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return gpucore.InvalidID, err
	}

	p, ok := d.programs[ph]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("wgpu: program %d: %w", ph, gpucore.ErrResourceNotFound)
	}
	if h, ok := p.kernels[name]; ok {
		return h, nil
	}
	ep, ok := p.module.entries[name]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("wgpu: program %q has no kernel %q: %w", p.name, name, gpucore.ErrResourceNotFound)
	}
	pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   p.name + "/" + name,
		Layout:  d.pipeLayout,
		Compute: hal.ComputeState{Module: p.module.shader, EntryPoint: name},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: kernel %q: create pipeline: %w", name, err)
	}
	h := gpucore.KernelHandle(d.newID())
	d.kernels[h] = &kernel{entry: ep, program: p, pipeline: pipeline}
	p.kernels[name] = h
	return h, nil
}

// WorkGroupSize returns the declared work group size of a kernel.
func (d *Device) WorkGroupSize(kh gpucore.KernelHandle) (x, y uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k, ok := d.kernels[kh]
	if !ok {
		return 0, 0
	}
	return k.entry.wgX, k.entry.wgY
}

// CompatibleFormat promotes formats without random write support.
func (d *Device) CompatibleFormat(f gpucore.Format) gpucore.Format { return f.Compatible() }

// CreateImage allocates a storage buffer of width x height texels.
func (d *Device) CreateImage(width, height int, format gpucore.Format, randomWrite bool) (gpucore.ImageID, error) {
	if width <= 0 || height <= 0 || !format.IsValid() {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create image %dx%d %s: %w", width, height, format, gpucore.ErrInvalidOperation)
	}
	if randomWrite && !format.SupportsRandomWrite() {
		return gpucore.InvalidID, fmt.Errorf("wgpu: format %s has no random write support: %w", format, gpucore.ErrInvalidOperation)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return gpucore.InvalidID, err
	}

	img := &deviceImage{width: width, height: height, format: format, randomWrite: randomWrite}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "texops_image", Size: img.size(),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create image buffer: %w", err)
	}
	img.buf = buf

	// New pixels hold the quantized zero of their format.
	zero := format.Quantize(gpucore.Vec4{})
	px := make([]gpucore.Vec4, width*height)
	for i := range px {
		px[i] = zero
	}
	if err := d.queue.WriteBuffer(buf, 0, encodeVec4s(px)); err != nil {
		d.device.DestroyBuffer(buf)
		return gpucore.InvalidID, fmt.Errorf("wgpu: clear image buffer: %w", err)
	}

	id := gpucore.ImageID(d.newID())
	d.images[id] = img
	return id, nil
}

// DestroyImage frees an image.
func (d *Device) DestroyImage(id gpucore.ImageID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if img, ok := d.images[id]; ok {
		d.device.DestroyBuffer(img.buf)
		delete(d.images, id)
	}
}

// WriteImage uploads pixels, quantized to the image format.
func (d *Device) WriteImage(id gpucore.ImageID, pixels []gpucore.Vec4) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return err
	}
	img, ok := d.images[id]
	if !ok {
		return fmt.Errorf("wgpu: image %d: %w", id, gpucore.ErrResourceNotFound)
	}
	if len(pixels) != img.width*img.height {
		return fmt.Errorf("wgpu: write %d pixels to %dx%d image: %w", len(pixels), img.width, img.height, gpucore.ErrDimensionMismatch)
	}
	q := make([]gpucore.Vec4, len(pixels))
	for i, p := range pixels {
		q[i] = img.format.Quantize(p)
	}
	if err := d.queue.WriteBuffer(img.buf, 0, encodeVec4s(q)); err != nil {
		return fmt.Errorf("wgpu: write image %d: %w", id, err)
	}
	return nil
}

// CreateBuffer allocates n zeroed uint32 counters.
func (d *Device) CreateBuffer(n int) (gpucore.BufferID, error) {
	if n <= 0 {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create buffer of %d counters: %w", n, gpucore.ErrInvalidOperation)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return gpucore.InvalidID, err
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "texops_counters", Size: uint64(n) * 4,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create buffer: %w", err)
	}
	if err := d.queue.WriteBuffer(buf, 0, make([]byte, n*4)); err != nil {
		d.device.DestroyBuffer(buf)
		return gpucore.InvalidID, fmt.Errorf("wgpu: clear buffer: %w", err)
	}
	id := gpucore.BufferID(d.newID())
	d.buffers[id] = &deviceBuffer{buf: buf, n: n}
	return id, nil
}

// DestroyBuffer frees a counter buffer.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.buffers[id]; ok {
		d.device.DestroyBuffer(b.buf)
		delete(d.buffers, id)
	}
}

// BindImage records an image binding of a kernel.
func (d *Device) BindImage(kh gpucore.KernelHandle, slot gpucore.Slot, id gpucore.ImageID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if k, ok := d.kernels[kh]; ok && slot <= gpucore.SlotHistogram {
		k.images[slot] = id
	}
}

// BindBuffer records a buffer binding of a kernel.
func (d *Device) BindBuffer(kh gpucore.KernelHandle, slot gpucore.Slot, id gpucore.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if k, ok := d.kernels[kh]; ok && slot <= gpucore.SlotHistogram {
		k.buffers[slot] = id
	}
}

// SetVector sets a parameter of a program.
func (d *Device) SetVector(ph gpucore.ProgramHandle, param gpucore.Param, v gpucore.Vec4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.programs[ph]; ok && int(param) < len(p.params) {
		p.params[param] = v
	}
}

// storeQuantization returns the texture_size.z and texture_size.w lanes
// describing how kernels quantize stores to a destination of format f:
// the number of unorm steps (-1 for half floats, 0 for 32-bit floats) and
// the channel count.
func storeQuantization(f gpucore.Format) (steps, channels float32) {
	info := f.Info()
	switch {
	case !info.IsFloat:
		steps = float32(uint32(1)<<info.BitsPerChannel - 1)
	case info.BitsPerChannel == 16:
		steps = -1
	}
	return steps, float32(info.Channels)
}

// binding returns the buffer entry of a slot.
func (d *Device) binding(k *kernel, slot gpucore.Slot, binding uint32) (gputypes.BindGroupEntry, error) {
	buf, size := d.dummy, uint64(dummySize)
	if slot == gpucore.SlotHistogram {
		if id := k.buffers[slot]; id != gpucore.InvalidID {
			b, ok := d.buffers[id]
			if !ok {
				return gputypes.BindGroupEntry{}, fmt.Errorf("wgpu: %s buffer %d: %w", slot, id, gpucore.ErrResourceNotFound)
			}
			buf, size = b.buf, uint64(b.n)*4
		}
	} else if id := k.images[slot]; id != gpucore.InvalidID {
		img, ok := d.images[id]
		if !ok {
			return gputypes.BindGroupEntry{}, fmt.Errorf("wgpu: %s image %d: %w", slot, id, gpucore.ErrResourceNotFound)
		}
		if slot == gpucore.SlotDst && !img.randomWrite {
			return gputypes.BindGroupEntry{}, fmt.Errorf("wgpu: destination %d lacks random write: %w", id, gpucore.ErrInvalidOperation)
		}
		buf, size = img.buf, img.size()
	}
	return gputypes.BindGroupEntry{
		Binding:  binding,
		Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: size},
	}, nil
}

// Dispatch runs gx x gy x gz work groups of a kernel and waits for them.
func (d *Device) Dispatch(kh gpucore.KernelHandle, gx, gy, gz uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return err
	}
	k, ok := d.kernels[kh]
	if !ok {
		return fmt.Errorf("wgpu: kernel %d: %w", kh, gpucore.ErrResourceNotFound)
	}
	if gx == 0 || gy == 0 || gz == 0 {
		return nil
	}

	entries := []gputypes.BindGroupEntry{{
		Binding:  bindingParams,
		Resource: gputypes.BufferBinding{Buffer: k.program.uniform.NativeHandle(), Offset: 0, Size: paramsSize},
	}}
	for _, s := range []struct {
		slot    gpucore.Slot
		binding uint32
	}{
		{gpucore.SlotSrcA, bindingSrcA},
		{gpucore.SlotSrcB, bindingSrcB},
		{gpucore.SlotDst, bindingDst},
		{gpucore.SlotHistogram, bindingHistogram},
	} {
		e, err := d.binding(k, s.slot, s.binding)
		if err != nil {
			return fmt.Errorf("wgpu: dispatch %s: %w", k.entry.name, err)
		}
		entries = append(entries, e)
	}

	params := k.program.params
	if img, ok := d.images[k.images[gpucore.SlotDst]]; ok {
		params[gpucore.ParamTextureSize][2], params[gpucore.ParamTextureSize][3] = storeQuantization(img.format)
	}
	if err := d.queue.WriteBuffer(k.program.uniform, 0, encodeVec4s(params[:])); err != nil {
		return fmt.Errorf("wgpu: dispatch %s: write parameters: %w", k.entry.name, err)
	}
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: k.entry.name, Layout: d.bindLayout, Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("wgpu: dispatch %s: create bind group: %w", k.entry.name, err)
	}
	defer d.device.DestroyBindGroup(bg)

	return d.submit(k.entry.name, func(encoder hal.CommandEncoder) {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: k.entry.name})
		pass.SetPipeline(k.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(gx, gy, gz)
		pass.End()
	})
}

// submit encodes one command buffer, submits it and waits until the queue
// reports its submission index completed.
func (d *Device) submit(label string, encode func(hal.CommandEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encode(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	idx, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	return d.waitSubmission(idx)
}

// waitSubmission polls the queue until submission idx completes or the
// timeout elapses.
func (d *Device) waitSubmission(idx uint64) error {
	deadline := time.Now().Add(d.timeout)
	for d.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("wgpu: wait for submission %d: timed out after %s", idx, d.timeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// readBack copies size bytes at offset of buf into a mappable staging
// buffer and reads them through a host mapping.
func (d *Device) readBack(buf hal.Buffer, offset, size uint64) ([]byte, error) {
	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "texops_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	if err := d.submit("texops_readback", func(encoder hal.CommandEncoder) {
		encoder.CopyBufferToBuffer(buf, staging, []hal.BufferCopy{{SrcOffset: offset, DstOffset: 0, Size: size}})
	}); err != nil {
		return nil, err
	}

	mapping, err := d.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("wgpu: map staging buffer: %w", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := d.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("wgpu: unmap staging buffer: %w", err)
	}
	return out, nil
}

// ReadImage reads a region of an image, quantized to its format.
// Rows are copied one by one from the texel buffer.
func (d *Device) ReadImage(id gpucore.ImageID, x, y, w, h int) ([]gpucore.Vec4, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	img, ok := d.images[id]
	if !ok {
		return nil, fmt.Errorf("wgpu: image %d: %w", id, gpucore.ErrResourceNotFound)
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > img.width || y+h > img.height {
		return nil, fmt.Errorf("wgpu: read %dx%d at (%d,%d) from %dx%d image: %w",
			w, h, x, y, img.width, img.height, gpucore.ErrDimensionMismatch)
	}

	// A full-width region is one contiguous range.
	var raw []byte
	if w == img.width {
		b, err := d.readBack(img.buf, uint64(y*img.width)*texelSize, uint64(w*h)*texelSize)
		if err != nil {
			return nil, err
		}
		raw = b
	} else {
		var errs []error
		for row := y; row < y+h; row++ {
			b, err := d.readBack(img.buf, uint64(row*img.width+x)*texelSize, uint64(w)*texelSize)
			errs = append(errs, err)
			raw = append(raw, b...)
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
	}

	px := decodeVec4s(raw)
	for i := range px {
		px[i] = img.format.Quantize(px[i])
	}
	return px, nil
}

// ReadBuffer reads all counters of a buffer.
func (d *Device) ReadBuffer(id gpucore.BufferID) ([]uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	b, ok := d.buffers[id]
	if !ok {
		return nil, fmt.Errorf("wgpu: buffer %d: %w", id, gpucore.ErrResourceNotFound)
	}
	raw, err := d.readBack(b.buf, 0, uint64(b.n)*4)
	if err != nil {
		return nil, err
	}
	return decodeUint32s(raw), nil
}

var _ gpucore.Device = (*Device)(nil)
