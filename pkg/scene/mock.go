package scene

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mock collaborators for tests and headless development. They stand in
// for the tracking and render providers so the pipeline can run without
// an AR session.

// MockAnchor is a fixed-pose anchor.
type MockAnchor struct {
	mu       sync.Mutex
	pose     Pose
	detached bool
}

// NewMockAnchor creates an anchor at the given world position with
// heading 0.
func NewMockAnchor(pos r3.Vec) *MockAnchor {
	return &MockAnchor{pose: Pose{Position: pos}}
}

// Pose returns the fixed pose.
func (a *MockAnchor) Pose() Pose {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pose
}

// Detach marks the anchor detached.
func (a *MockAnchor) Detach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detached = true
}

// Detached reports whether Detach was called.
func (a *MockAnchor) Detached() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detached
}

// MockHit is a hit-test candidate with a canned result.
type MockHit struct {
	Type      TrackableType
	HitPose   Pose
	AttachErr error
}

// Trackable returns the configured trackable type.
func (h *MockHit) Trackable() TrackableType { return h.Type }

// Pose returns the hit pose.
func (h *MockHit) Pose() Pose { return h.HitPose }

// Attach returns a MockAnchor at the hit pose, or the configured error.
func (h *MockHit) Attach() (Anchor, error) {
	if h.AttachErr != nil {
		return nil, h.AttachErr
	}
	return &MockAnchor{pose: h.HitPose}, nil
}

// MockHitTester returns the same ranked hits for every query.
type MockHitTester struct {
	Hits []Hit
}

// HitTest returns the canned hit list regardless of the screen point.
func (t *MockHitTester) HitTest(x, y float64) []Hit {
	return t.Hits
}

// PlanarHitTester projects screen points onto a synthetic ground plane.
// It lets the demo binary exercise placement with a plain webcam: a
// frame of FrameWidth x FrameHeight pixels maps linearly onto an
// Extent x Extent meter patch of the y=0 plane in front of the origin.
type PlanarHitTester struct {
	FrameWidth  float64
	FrameHeight float64
	Extent      float64
}

// HitTest returns a single plane hit under the screen point.
func (t *PlanarHitTester) HitTest(x, y float64) []Hit {
	if x < 0 || y < 0 || x > t.FrameWidth || y > t.FrameHeight {
		return nil
	}
	pose := Pose{
		Position: r3.Vec{
			X: (x/t.FrameWidth - 0.5) * t.Extent,
			Y: 0,
			Z: (y/t.FrameHeight - 0.5) * t.Extent,
		},
	}
	return []Hit{&MockHit{Type: TrackablePlane, HitPose: pose}}
}

// MockMarker records highlight and destroy calls.
type MockMarker struct {
	mu          sync.Mutex
	highlighted bool
	destroyed   bool
}

// SetHighlighted records the highlight state.
func (m *MockMarker) SetHighlighted(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highlighted = on
}

// Highlighted reports the last highlight state.
func (m *MockMarker) Highlighted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highlighted
}

// Destroy records the destroy call.
func (m *MockMarker) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (m *MockMarker) Destroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

// MockRenderer hands out MockMarkers, optionally failing.
type MockRenderer struct {
	mu      sync.Mutex
	markers []*MockMarker

	// RenderErr, when set, makes every RenderMarker call fail.
	RenderErr error
}

// RenderMarker returns a new MockMarker for the anchor.
func (r *MockRenderer) RenderMarker(a Anchor) (Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.RenderErr != nil {
		return nil, r.RenderErr
	}
	m := &MockMarker{}
	r.markers = append(r.markers, m)
	return m, nil
}

// Markers returns every marker handed out so far.
func (r *MockRenderer) Markers() []*MockMarker {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*MockMarker, len(r.markers))
	copy(out, r.markers)
	return out
}
