// Package detect turns raw model output into a filtered, non-overlapping
// set of detections in pixel space.
package detect

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X1, Y1 float64 // Top-left corner
	X2, Y2 float64 // Bottom-right corner
}

// Width returns the box width in pixels.
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the box height in pixels.
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// Center returns the center point of the box.
func (b Box) Center() (x, y float64) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Area returns the box area. Degenerate boxes have zero area.
func (b Box) Area() float64 {
	w := b.Width()
	h := b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IoU returns the intersection-over-union of two boxes.
// A pair with zero-area intersection or zero-area union has IoU 0.
func IoU(a, b Box) float64 {
	ix1 := max(a.X1, b.X1)
	iy1 := max(a.Y1, b.Y1)
	ix2 := min(a.X2, b.X2)
	iy2 := min(a.Y2, b.Y2)

	iw := ix2 - ix1
	ih := iy2 - iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Detection is one decoded object for a single frame's processing pass.
type Detection struct {
	Label      string
	Confidence float64 // 0-1
	Box        Box     // Pixel-space bounding box
}

// Center returns the detection's center point in pixel coordinates.
func (d Detection) Center() (x, y float64) {
	return d.Box.Center()
}

// Size returns the detection's width and height in pixels.
func (d Detection) Size() (w, h float64) {
	return d.Box.Width(), d.Box.Height()
}
