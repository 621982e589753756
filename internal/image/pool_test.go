// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package image

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/texops/gpucore"
)

// fakeAllocator records image lifetimes without a device.
type fakeAllocator struct {
	mu      sync.Mutex
	nextID  gpucore.ImageID
	live    map[gpucore.ImageID]Descriptor
	created int
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{live: make(map[gpucore.ImageID]Descriptor)}
}

func (a *fakeAllocator) CompatibleFormat(f gpucore.Format) gpucore.Format { return f.Compatible() }

func (a *fakeAllocator) CreateImage(w, h int, f gpucore.Format, _ bool) (gpucore.ImageID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	a.created++
	a.live[a.nextID] = Descriptor{Width: w, Height: h, Format: f}
	return a.nextID, nil
}

func (a *fakeAllocator) DestroyImage(id gpucore.ImageID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.live, id)
}

func (a *fakeAllocator) WriteImage(gpucore.ImageID, []gpucore.Vec4) error { return nil }

func (a *fakeAllocator) CreateBuffer(int) (gpucore.BufferID, error) { return 1, nil }

func (a *fakeAllocator) DestroyBuffer(gpucore.BufferID) {}

func (a *fakeAllocator) liveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

func TestNewPool(t *testing.T) {
	tests := []struct {
		name         string
		maxPerBucket int
		wantMaxSize  int
	}{
		{"zero disables caching", 0, 0},
		{"positive limit", 5, 5},
		{"negative clamps to zero", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(newFakeAllocator(), tt.maxPerBucket, nil)
			if pool.maxSize != tt.wantMaxSize {
				t.Errorf("maxSize = %d, want %d", pool.maxSize, tt.wantMaxSize)
			}
		})
	}
}

func TestPool_AcquireRelease(t *testing.T) {
	a := newFakeAllocator()
	pool := NewPool(a, 4, nil)

	img1, err := pool.Acquire(16, 8, gpucore.FormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if img1.Width() != 16 || img1.Height() != 8 {
		t.Errorf("size = %dx%d, want 16x8", img1.Width(), img1.Height())
	}
	if !img1.RandomWrite() || !img1.Pooled() {
		t.Error("temporary must be pooled and random-write")
	}
	if pool.Outstanding() != 1 {
		t.Errorf("Outstanding() = %d, want 1", pool.Outstanding())
	}

	if err := pool.Release(img1); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if pool.Cached() != 1 {
		t.Errorf("Cached() = %d, want 1", pool.Cached())
	}

	img2, err := pool.Acquire(16, 8, gpucore.FormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if img2.ID() != img1.ID() {
		t.Errorf("reacquire got image %d, want cached %d", img2.ID(), img1.ID())
	}
	if img2 == img1 {
		t.Error("reacquire returned the released lease")
	}
	if a.created != 1 {
		t.Errorf("created = %d, want 1", a.created)
	}
	if err := img1.Check(); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("released lease Check() = %v, want ErrResourceLifecycle", err)
	}
}

func TestPool_FormatPromotion(t *testing.T) {
	pool := NewPool(newFakeAllocator(), 4, nil)
	img, err := pool.Acquire(4, 4, gpucore.FormatRGB8Unorm)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if img.Format() != gpucore.FormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", img.Format())
	}
}

func TestPool_LifecycleErrors(t *testing.T) {
	a := newFakeAllocator()
	pool := NewPool(a, 4, nil)
	other := NewPool(a, 4, nil)

	img, err := pool.Acquire(4, 4, gpucore.FormatR32Float)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := other.Release(img); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("foreign Release = %v, want ErrResourceLifecycle", err)
	}
	if err := pool.Release(img); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := pool.Release(img); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("double Release = %v, want ErrResourceLifecycle", err)
	}

	owned, err := New(a, 4, 4, gpucore.FormatRGBA8Unorm, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := pool.Release(owned); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("Release of owned image = %v, want ErrResourceLifecycle", err)
	}

	if _, err := pool.Acquire(0, 4, gpucore.FormatRGBA8Unorm); !errors.Is(err, gpucore.ErrInvalidOperation) {
		t.Errorf("Acquire(0x4) = %v, want ErrInvalidOperation", err)
	}
}

func TestPool_Capacity(t *testing.T) {
	a := newFakeAllocator()
	pool := NewPool(a, 2, nil)

	var imgs []*Image
	for range 4 {
		img, err := pool.Acquire(8, 8, gpucore.FormatRGBA32Float)
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		imgs = append(imgs, img)
	}
	for _, img := range imgs {
		if err := pool.Release(img); err != nil {
			t.Fatalf("Release: %v", err)
		}
	}
	if pool.Cached() != 2 {
		t.Errorf("Cached() = %d, want 2", pool.Cached())
	}
	if a.liveCount() != 2 {
		t.Errorf("live images = %d, want 2", a.liveCount())
	}

	pool.Close()
	if a.liveCount() != 0 {
		t.Errorf("live images after Close = %d, want 0", a.liveCount())
	}
	if _, err := pool.Acquire(8, 8, gpucore.FormatRGBA32Float); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("Acquire after Close = %v, want ErrResourceLifecycle", err)
	}
}

func TestPool_Scope(t *testing.T) {
	a := newFakeAllocator()
	pool := NewPool(a, 4, nil)
	src, err := New(a, 6, 3, gpucore.FormatRGBA8Unorm, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s := pool.Scope()
	m, err := s.AcquireMatching(src, true)
	if err != nil {
		t.Fatalf("AcquireMatching: %v", err)
	}
	if m.Format() != gpucore.FormatRGBA32Float || !m.SameSize(src) {
		t.Errorf("matching = %s, want 6x3 RGBA32Float", m.Descriptor())
	}
	tr, err := s.AcquireTransposed(src)
	if err != nil {
		t.Fatalf("AcquireTransposed: %v", err)
	}
	if tr.Width() != 3 || tr.Height() != 6 {
		t.Errorf("transposed = %dx%d, want 3x6", tr.Width(), tr.Height())
	}
	if err := s.Release(m); err != nil {
		t.Fatalf("Scope.Release: %v", err)
	}
	if err := s.Release(m); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("second Scope.Release = %v, want ErrResourceLifecycle", err)
	}
	if pool.Outstanding() != 1 {
		t.Errorf("Outstanding() = %d, want 1", pool.Outstanding())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Scope.Close: %v", err)
	}
	if pool.Outstanding() != 0 {
		t.Errorf("Outstanding() after Close = %d, want 0", pool.Outstanding())
	}
}

func TestImage_Identity(t *testing.T) {
	a := newFakeAllocator()
	img, err := New(a, 4, 4, gpucore.FormatRGBA8Unorm, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	other, err := New(a, 4, 4, gpucore.FormatRGBA8Unorm, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !img.Same(img) || img.Same(other) || img.Same(nil) {
		t.Error("Same does not follow allocation identity")
	}

	wrapped, err := Wrap(img.ID(), img.Descriptor(), true)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	again, err := Wrap(img.ID(), img.Descriptor(), true)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if !wrapped.Same(img) || !wrapped.Same(again) || wrapped.Same(other) {
		t.Error("leases wrapping one device image are not the same image")
	}
	if err := again.Destroy(a); err != nil {
		t.Fatalf("Destroy wrapped: %v", err)
	}
	if err := wrapped.Destroy(a); err != nil {
		t.Fatalf("Destroy wrapped: %v", err)
	}
	if a.liveCount() != 2 {
		t.Errorf("destroying a wrapped image freed the device image")
	}
	if err := img.Destroy(a); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := img.Destroy(a); !errors.Is(err, gpucore.ErrResourceLifecycle) {
		t.Errorf("double Destroy = %v, want ErrResourceLifecycle", err)
	}
	if _, err := Wrap(gpucore.InvalidID, img.Descriptor(), false); !errors.Is(err, gpucore.ErrResourceNotFound) {
		t.Errorf("Wrap(InvalidID) = %v, want ErrResourceNotFound", err)
	}
}
