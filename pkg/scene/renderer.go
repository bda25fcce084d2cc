package scene

// Marker is the rendered visual for one placed object. The registry owns
// the marker from creation until Destroy.
type Marker interface {
	// SetHighlighted toggles between the selected and unselected policy
	// colors. Cosmetic only.
	SetHighlighted(on bool)

	// Destroy removes the visual from the scene graph.
	Destroy()
}

// MarkerRenderer is the render provider's placement capability.
type MarkerRenderer interface {
	// RenderMarker renders a visual primitive at the anchor's pose.
	RenderMarker(a Anchor) (Marker, error)
}
