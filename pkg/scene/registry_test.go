package scene

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRegistry_PlaceIfAbsent(t *testing.T) {
	renderer := &MockRenderer{}
	r := NewRegistry(renderer, 0.03)

	obj := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 0, Y: 0, Z: 0}))
	if obj == nil {
		t.Fatal("expected first placement to succeed")
	}
	if r.Count() != 1 {
		t.Fatalf("Count: got %d, want 1", r.Count())
	}

	// A new placement becomes the selection.
	if r.Selected() != obj {
		t.Error("expected new placement to be selected")
	}
	if !renderer.Markers()[0].Highlighted() {
		t.Error("expected the selected marker to be highlighted")
	}
}

func TestRegistry_DedupWithinMargin(t *testing.T) {
	r := NewRegistry(&MockRenderer{}, 0.03)

	first := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 0, Y: 0, Z: 0}))
	if first == nil {
		t.Fatal("expected first placement to succeed")
	}

	// 0.02 apart with margin 0.03: rejected, only the first remains.
	second := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 0.02, Y: 0, Z: 0}))
	if second != nil {
		t.Error("expected placement within margin to be rejected")
	}
	if r.Count() != 1 {
		t.Errorf("Count after dedup: got %d, want 1", r.Count())
	}

	// Exactly at the margin is allowed (strict less-than).
	third := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 0.03, Y: 0, Z: 0}))
	if third == nil {
		t.Error("expected placement at the margin boundary to succeed")
	}
}

func TestRegistry_DedupChecksAllObjects(t *testing.T) {
	r := NewRegistry(&MockRenderer{}, 0.05)

	r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 0, Y: 0, Z: 0}))
	r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 1, Y: 0, Z: 0}))

	// Near the second object, far from the first.
	if obj := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 1.02, Y: 0, Z: 0})); obj != nil {
		t.Error("expected rejection near the second object")
	}
	if r.Count() != 2 {
		t.Errorf("Count: got %d, want 2", r.Count())
	}
}

func TestRegistry_RenderFailureIsNoPlacement(t *testing.T) {
	renderer := &MockRenderer{RenderErr: errors.New("render backend down")}
	r := NewRegistry(renderer, 0.03)

	if obj := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{})); obj != nil {
		t.Error("expected no placement on render failure")
	}
	if r.Count() != 0 {
		t.Errorf("Count: got %d, want 0", r.Count())
	}
}

func TestRegistry_SelectSwitchesHighlight(t *testing.T) {
	renderer := &MockRenderer{}
	r := NewRegistry(renderer, 0.03)

	a := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 0, Y: 0, Z: 0}))
	b := r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 1, Y: 0, Z: 0}))

	// b was placed last, so it holds the selection.
	if r.Selected() != b {
		t.Fatal("expected latest placement to be selected")
	}

	r.Select(a)
	if r.Selected() != a {
		t.Error("expected explicit selection to win")
	}
	markers := renderer.Markers()
	if !markers[0].Highlighted() || markers[1].Highlighted() {
		t.Error("expected highlight to follow selection")
	}

	// Selecting nil clears the selection.
	r.Select(nil)
	if r.Selected() != nil {
		t.Error("expected nil selection to clear")
	}
	if markers[0].Highlighted() {
		t.Error("expected deselected marker to lose its highlight")
	}
}

func TestRegistry_RemoveSelected(t *testing.T) {
	renderer := &MockRenderer{}
	r := NewRegistry(renderer, 0.03)

	anchor := NewMockAnchor(r3.Vec{})
	obj := r.PlaceIfAbsent(anchor)
	if obj == nil {
		t.Fatal("expected placement to succeed")
	}

	r.RemoveSelected()
	if r.Count() != 0 {
		t.Errorf("Count after remove: got %d, want 0", r.Count())
	}
	if r.Selected() != nil {
		t.Error("expected selection cleared after remove")
	}
	if !renderer.Markers()[0].Destroyed() {
		t.Error("expected the marker to be destroyed")
	}
	if !anchor.Detached() {
		t.Error("expected the anchor to be detached")
	}

	// Removing again is a no-op and never panics.
	r.RemoveSelected()
	if r.Count() != 0 {
		t.Errorf("Count after double remove: got %d, want 0", r.Count())
	}
}

func TestRegistry_SelectionAlwaysMember(t *testing.T) {
	r := NewRegistry(&MockRenderer{}, 0.03)

	r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 0, Y: 0, Z: 0}))
	r.PlaceIfAbsent(NewMockAnchor(r3.Vec{X: 1, Y: 0, Z: 0}))
	r.RemoveSelected()

	if sel := r.Selected(); sel != nil {
		found := false
		for _, o := range r.Objects() {
			if o == sel {
				found = true
			}
		}
		if !found {
			t.Error("selection points at an object no longer in the registry")
		}
	}

	// The remaining object is still queryable by ID.
	objs := r.Objects()
	if len(objs) != 1 {
		t.Fatalf("Objects: got %d, want 1", len(objs))
	}
	if r.Get(objs[0].ID) != objs[0] {
		t.Error("Get by ID should return the stored object")
	}
}
