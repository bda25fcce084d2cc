package detect

import (
	"math"
	"testing"
)

const boxTolerance = 1e-9

func TestBox_Center(t *testing.T) {
	tests := []struct {
		name    string
		box     Box
		expectX float64
		expectY float64
	}{
		{
			name:    "unit box at origin",
			box:     Box{X1: 0, Y1: 0, X2: 1, Y2: 1},
			expectX: 0.5,
			expectY: 0.5,
		},
		{
			name:    "offset box",
			box:     Box{X1: 400, Y1: 280, X2: 600, Y2: 520},
			expectX: 500,
			expectY: 400,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.box.Center()
			if x != tc.expectX || y != tc.expectY {
				t.Errorf("Center: got (%v, %v), want (%v, %v)", x, y, tc.expectX, tc.expectY)
			}
		})
	}
}

func TestBox_Area_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		box  Box
	}{
		{"zero width", Box{X1: 10, Y1: 0, X2: 10, Y2: 5}},
		{"zero height", Box{X1: 0, Y1: 3, X2: 5, Y2: 3}},
		{"inverted", Box{X1: 5, Y1: 5, X2: 0, Y2: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if a := tc.box.Area(); a != 0 {
				t.Errorf("Area: got %v, want 0", a)
			}
		})
	}
}

func TestIoU(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Box
		expect float64
	}{
		{
			name:   "identical boxes",
			a:      Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:      Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			expect: 1.0,
		},
		{
			name:   "disjoint boxes",
			a:      Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:      Box{X1: 20, Y1: 20, X2: 30, Y2: 30},
			expect: 0,
		},
		{
			name:   "touching edges",
			a:      Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:      Box{X1: 10, Y1: 0, X2: 20, Y2: 10},
			expect: 0,
		},
		{
			name: "half overlap",
			// Intersection 50, union 150
			a:      Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:      Box{X1: 5, Y1: 0, X2: 15, Y2: 10},
			expect: 1.0 / 3.0,
		},
		{
			name:   "both degenerate",
			a:      Box{X1: 5, Y1: 5, X2: 5, Y2: 5},
			b:      Box{X1: 5, Y1: 5, X2: 5, Y2: 5},
			expect: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IoU(tc.a, tc.b)
			if math.Abs(got-tc.expect) > boxTolerance {
				t.Errorf("IoU: got %v, want %v", got, tc.expect)
			}
			// IoU is symmetric
			if rev := IoU(tc.b, tc.a); math.Abs(rev-got) > boxTolerance {
				t.Errorf("IoU not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestDetection_CenterAndSize(t *testing.T) {
	d := Detection{
		Label:      "object",
		Confidence: 0.9,
		Box:        Box{X1: 400, Y1: 280, X2: 600, Y2: 520},
	}

	x, y := d.Center()
	if x != 500 || y != 400 {
		t.Errorf("Center: got (%v, %v), want (500, 400)", x, y)
	}

	w, h := d.Size()
	if w != 200 || h != 240 {
		t.Errorf("Size: got (%v, %v), want (200, 240)", w, h)
	}
}
