// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/texops/gpucore"
)

// DefaultCapacity is the number of cached images kept per descriptor.
const DefaultCapacity = 4

// Pool is a pool of temporary device images.
//
// Pool groups images by descriptor, allowing reuse of identically shaped
// temporaries across algorithm calls. Every Acquire yields a fresh lease;
// releasing a lease twice, or releasing a lease of another pool, fails with
// gpucore.ErrResourceLifecycle.
//
// Thread safety: All methods are safe for concurrent use, but a lease must
// not be shared across goroutines without external synchronization.
type Pool struct {
	mu      sync.Mutex
	alloc   gpucore.ImageAllocator
	buckets map[Descriptor][]*allocation
	leases  map[*Image]struct{}
	maxSize int // max cached images per descriptor
	logger  *slog.Logger
	closed  bool
}

// NewPool creates a pool allocating through a. maxPerBucket limits how many
// released images of each descriptor are retained; 0 disables caching.
func NewPool(a gpucore.ImageAllocator, maxPerBucket int, logger *slog.Logger) *Pool {
	if maxPerBucket < 0 {
		maxPerBucket = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{
		alloc:   a,
		buckets: make(map[Descriptor][]*allocation),
		leases:  make(map[*Image]struct{}),
		maxSize: maxPerBucket,
		logger:  logger,
	}
}

// Acquire returns a random-write temporary of the given size. The format is
// replaced by the closest format the allocator can write.
func (p *Pool) Acquire(width, height int, format gpucore.Format) (*Image, error) {
	desc := Descriptor{Width: width, Height: height, Format: p.alloc.CompatibleFormat(format)}
	if err := desc.validate(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("image: acquire from closed pool: %w", gpucore.ErrResourceLifecycle)
	}

	var a *allocation
	if bucket := p.buckets[desc]; len(bucket) > 0 {
		a = bucket[len(bucket)-1]
		p.buckets[desc] = bucket[:len(bucket)-1]
	} else {
		id, err := p.alloc.CreateImage(desc.Width, desc.Height, desc.Format, true)
		if err != nil {
			return nil, fmt.Errorf("image: create temporary %s: %w", desc, err)
		}
		a = &allocation{id: id, desc: desc, randomWrite: true}
		p.logger.Debug("texops: pool miss", "desc", desc.String())
	}

	img := &Image{alloc: a, pool: p, owned: true}
	p.leases[img] = struct{}{}
	return img, nil
}

// AcquireMatching returns a temporary with the size of src. The format
// mirrors src, or is the 32-bit float format of the same channel count when
// floatForced is set.
func (p *Pool) AcquireMatching(src *Image, floatForced bool) (*Image, error) {
	if err := src.Check(); err != nil {
		return nil, err
	}
	f := src.Format()
	if floatForced {
		f = f.FloatVersion()
	}
	return p.Acquire(src.Width(), src.Height(), f)
}

// AcquireTransposed returns a temporary with the format of src and its
// width and height swapped.
func (p *Pool) AcquireTransposed(src *Image) (*Image, error) {
	if err := src.Check(); err != nil {
		return nil, err
	}
	return p.Acquire(src.Height(), src.Width(), src.Format())
}

// Release returns a lease to the pool. The lease is invalid afterwards.
func (p *Pool) Release(img *Image) error {
	if err := img.Check(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.leases[img]; !ok || img.pool != p {
		return fmt.Errorf("image: release of %s not leased from this pool: %w", img.alloc.desc, gpucore.ErrResourceLifecycle)
	}
	delete(p.leases, img)
	img.released = true

	desc := img.alloc.desc
	bucket := p.buckets[desc]
	if p.closed || len(bucket) >= p.maxSize {
		p.alloc.DestroyImage(img.alloc.id)
		return nil
	}
	p.buckets[desc] = append(bucket, img.alloc)
	return nil
}

// Outstanding returns the number of leases not yet released.
func (p *Pool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.leases)
}

// Cached returns the number of released images kept for reuse.
func (p *Pool) Cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

// Close destroys every cached image. Outstanding leases are reported as
// leaks and destroyed when they are released.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for desc, bucket := range p.buckets {
		for _, a := range bucket {
			p.alloc.DestroyImage(a.id)
		}
		delete(p.buckets, desc)
	}
	if n := len(p.leases); n > 0 {
		p.logger.Warn("texops: temporary images leaked", "count", n)
	}
}

// Scope returns a guard whose acquisitions are all released by Close.
//
//	s := pool.Scope()
//	defer func() { err = errors.Join(err, s.Close()) }()
func (p *Pool) Scope() *Scope {
	return &Scope{pool: p}
}

// Scope tracks temporaries acquired for one operation.
type Scope struct {
	pool   *Pool
	leases []*Image
}

// Acquire acquires a temporary released when the scope closes.
func (s *Scope) Acquire(width, height int, format gpucore.Format) (*Image, error) {
	return s.track(s.pool.Acquire(width, height, format))
}

// AcquireMatching acquires a temporary matching src.
func (s *Scope) AcquireMatching(src *Image, floatForced bool) (*Image, error) {
	return s.track(s.pool.AcquireMatching(src, floatForced))
}

// AcquireTransposed acquires a temporary with transposed dimensions of src.
func (s *Scope) AcquireTransposed(src *Image) (*Image, error) {
	return s.track(s.pool.AcquireTransposed(src))
}

// Release releases one temporary of the scope before the scope closes.
func (s *Scope) Release(img *Image) error {
	for i, l := range s.leases {
		if l == img {
			s.leases = append(s.leases[:i], s.leases[i+1:]...)
			return s.pool.Release(img)
		}
	}
	return fmt.Errorf("image: release of image not acquired by scope: %w", gpucore.ErrResourceLifecycle)
}

// Close releases every temporary still held by the scope, in reverse
// acquisition order. Errors are joined.
func (s *Scope) Close() error {
	var errs []error
	for i := len(s.leases) - 1; i >= 0; i-- {
		if err := s.pool.Release(s.leases[i]); err != nil {
			errs = append(errs, err)
		}
	}
	s.leases = nil
	return errors.Join(errs...)
}

func (s *Scope) track(img *Image, err error) (*Image, error) {
	if err != nil {
		return nil, err
	}
	s.leases = append(s.leases, img)
	return img, nil
}
