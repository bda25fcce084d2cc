// Package scene maps detections into world space and owns the placed
// objects. Anchors and hit-testing come from an external tracking
// provider; this package only decides what to place, where, and what is
// selected.
package scene

import "gonum.org/v1/gonum/spatial/r3"

// Pose is a world-space position plus a heading about the vertical axis.
type Pose struct {
	Position r3.Vec
	Heading  float64 // degrees
}

// Anchor is an opaque tracked pose handle from the tracking provider.
// The registry and agent never construct poses themselves; they only
// read them through anchors obtained from hit-testing.
type Anchor interface {
	// Pose returns the anchor's current world pose.
	Pose() Pose

	// Detach releases the provider's tracking resources for this anchor.
	Detach()
}

// TrackableType classifies what surface a hit-test ray intersected.
type TrackableType int

const (
	TrackableUnknown TrackableType = iota
	TrackablePlane
	TrackableMesh
	TrackableDepthPoint
	TrackableFeaturePoint
)

// String returns the trackable name for logging.
func (t TrackableType) String() string {
	switch t {
	case TrackablePlane:
		return "plane"
	case TrackableMesh:
		return "mesh"
	case TrackableDepthPoint:
		return "depth-point"
	case TrackableFeaturePoint:
		return "feature-point"
	default:
		return "unknown"
	}
}

// Stable returns true for hit types solid enough to anchor an object on.
// Raw depth and feature points drift too much for placement.
func (t TrackableType) Stable() bool {
	return t == TrackablePlane || t == TrackableMesh
}

// Hit is one ranked hit-test candidate.
type Hit interface {
	// Trackable reports what kind of surface was hit.
	Trackable() TrackableType

	// Pose returns the world pose at the hit point.
	Pose() Pose

	// Attach creates a tracked anchor at the hit pose.
	Attach() (Anchor, error)
}

// HitTester is the tracking provider's ray-cast capability. Given a
// screen-space point in the current tracking frame it returns zero or
// more candidates, nearest first.
type HitTester interface {
	HitTest(x, y float64) []Hit
}
