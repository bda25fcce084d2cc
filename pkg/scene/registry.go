package scene

import (
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/strayware/go-wisp/internal/log"
)

// PlacedObject is one anchored object in the scene. Owned exclusively by
// the registry from creation until removal or replacement.
type PlacedObject struct {
	ID     uuid.UUID
	Anchor Anchor

	marker Marker
}

// Position returns the object's current world position.
func (o *PlacedObject) Position() r3.Vec {
	return o.Anchor.Pose().Position
}

// Registry holds placed objects, deduplicates new placements near
// existing ones, and manages selection state. Mutations are expected
// from a single logical owner; the mutex lets other goroutines read.
type Registry struct {
	mu       sync.RWMutex
	objects  []*PlacedObject
	selected *PlacedObject

	renderer MarkerRenderer
	margin   float64 // Minimum distance between two placements
}

// NewRegistry creates a registry with the given dedup margin in world
// units.
func NewRegistry(renderer MarkerRenderer, margin float64) *Registry {
	return &Registry{
		renderer: renderer,
		margin:   margin,
	}
}

// PlaceIfAbsent places a new object at the anchor unless an existing
// placement is within the dedup margin. Returns nil on a dedup rejection
// (a defined outcome, not an error) and on a render failure (treated as
// no placement this tap). A successful placement becomes the selection.
func (r *Registry) PlaceIfAbsent(anchor Anchor) *PlacedObject {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos := anchor.Pose().Position
	for _, o := range r.objects {
		if r3.Norm(r3.Sub(pos, o.Position())) < r.margin {
			return nil
		}
	}

	marker, err := r.renderer.RenderMarker(anchor)
	if err != nil {
		log.Warn("marker render failed", "err", err)
		return nil
	}

	obj := &PlacedObject{
		ID:     uuid.New(),
		Anchor: anchor,
		marker: marker,
	}
	r.objects = append(r.objects, obj)
	r.selectLocked(obj)

	log.Debug("object placed", "id", obj.ID, "total", len(r.objects))
	return obj
}

// Select makes obj the selection, deselecting the previous one. Passing
// nil clears the selection.
func (r *Registry) Select(obj *PlacedObject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectLocked(obj)
}

func (r *Registry) selectLocked(obj *PlacedObject) {
	if r.selected == obj {
		return
	}
	if r.selected != nil {
		r.selected.marker.SetHighlighted(false)
	}
	r.selected = obj
	if obj != nil {
		obj.marker.SetHighlighted(true)
	}
}

// RemoveSelected destroys the selected object's visual, removes it from
// the registry, detaches its anchor, and clears the selection. No-op
// when nothing is selected.
func (r *Registry) RemoveSelected() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.selected == nil {
		return
	}

	removed := r.selected
	removed.marker.Destroy()
	removed.Anchor.Detach()

	for i, o := range r.objects {
		if o == removed {
			r.objects = append(r.objects[:i], r.objects[i+1:]...)
			break
		}
	}
	r.selected = nil

	log.Debug("object removed", "id", removed.ID, "total", len(r.objects))
}

// Selected returns the current selection, or nil.
func (r *Registry) Selected() *PlacedObject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// Get returns the object with the given ID, or nil.
func (r *Registry) Get(id uuid.UUID) *PlacedObject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Objects returns a snapshot of the placed objects in placement order.
func (r *Registry) Objects() []*PlacedObject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*PlacedObject, len(r.objects))
	copy(out, r.objects)
	return out
}

// Count returns the number of placed objects.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}
