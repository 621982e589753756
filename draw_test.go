// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestDrawCoverage(t *testing.T) {
	const w, h = 5, 5
	red := Vec4{1, 0, 0, 1}
	bg := Vec4{0, 0, 0, 1}

	tests := []struct {
		name   string
		draw   func(c *Context, src, dst *Image) error
		inside func(x, y int) bool
	}{
		{
			name: "circle",
			draw: func(c *Context, s, d *Image) error { return c.Circle(s, d, red, 2, 2, 1.5, 0) },
			inside: func(x, y int) bool {
				dx, dy := float32(x-2), float32(y-2)
				return math32.Sqrt(dx*dx+dy*dy) <= 1.5
			},
		},
		{
			name:   "horizontal line",
			draw:   func(c *Context, s, d *Image) error { return c.Line(s, d, red, 0, 1, 4, 1, 1, 0) },
			inside: func(_, y int) bool { return y == 1 },
		},
		{
			name:   "border",
			draw:   func(c *Context, s, d *Image) error { return c.Border(s, d, red, 2, 0) },
			inside: func(x, y int) bool { return min(x, y, w-1-x, h-1-y) < 2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			src := newFloatImage(t, c, w, h, uniform(w*h, bg))
			dst := newFloatImage(t, c, w, h, nil)
			if err := tt.draw(c, src, dst); err != nil {
				t.Fatalf("draw: %v", err)
			}
			want := make([]Vec4, w*h)
			for y := range h {
				for x := range w {
					want[y*w+x] = bg
					if tt.inside(x, y) {
						want[y*w+x] = red
					}
				}
			}
			assertPixels(t, readPixels(t, c, dst), want, 0)
		})
	}
}

func TestDrawFalloff(t *testing.T) {
	c := newTestContext(t)
	img := newFloatImage(t, c, 5, 1, nil)
	// A zero radius circle at x=0 fading over 4 pixels.
	if err := c.Circle(img, img, Vec4{1, 1, 1, 1}, 0, 0, 0, 4); err != nil {
		t.Fatalf("Circle: %v", err)
	}
	px := readPixels(t, c, img)
	for x, want := range []float32{1, 0.75, 0.5, 0.25, 0} {
		if math32.Abs(px[x][0]-want) > 1e-6 {
			t.Errorf("coverage at %d = %v, want %v", x, px[x][0], want)
		}
	}
}
