// Package frameloop orchestrates per-frame processing: admission
// control, inference, decoding, and placement. It prefers bounded
// staleness over latency growth: frames arriving while one is in
// flight are dropped, never queued.
package frameloop

import "sync/atomic"

// Guard is a single-slot busy flag preventing overlapping frame
// processing.
type Guard struct {
	busy atomic.Bool
}

// TryBegin claims the slot. It returns false while a prior frame's
// processing has not called End; the caller must drop the frame.
func (g *Guard) TryBegin() bool {
	return g.busy.CompareAndSwap(false, true)
}

// End releases the slot. It must run on every exit path of a
// processing pass, including failures, or admission starves
// permanently.
func (g *Guard) End() {
	g.busy.Store(false)
}

// Busy reports whether a frame is currently in flight.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
