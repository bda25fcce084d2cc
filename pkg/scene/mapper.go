package scene

import "github.com/strayware/go-wisp/internal/log"

// Mapper projects a detection's image-space center into world space via
// the tracking provider's hit-test capability.
type Mapper struct {
	tester HitTester
}

// NewMapper creates a mapper over the given hit-test provider.
func NewMapper(tester HitTester) *Mapper {
	return &Mapper{tester: tester}
}

// Anchor returns an anchor for the first stable hit under the screen
// point, or (nil, false) when no trackable surface intersects it.
// A failed attach is "no placement this tap", not an error to retry.
func (m *Mapper) Anchor(x, y float64) (Anchor, bool) {
	for _, hit := range m.tester.HitTest(x, y) {
		if !hit.Trackable().Stable() {
			continue
		}

		anchor, err := hit.Attach()
		if err != nil {
			log.Debug("anchor attach failed", "trackable", hit.Trackable().String(), "err", err)
			return nil, false
		}
		return anchor, true
	}
	return nil, false
}
