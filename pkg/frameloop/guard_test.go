package frameloop

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGuard_SingleSlot(t *testing.T) {
	var g Guard

	if !g.TryBegin() {
		t.Fatal("first TryBegin should succeed")
	}
	if g.TryBegin() {
		t.Error("second TryBegin should fail while busy")
	}
	if !g.Busy() {
		t.Error("Busy should report true while held")
	}

	g.End()
	if g.Busy() {
		t.Error("Busy should report false after End")
	}
	if !g.TryBegin() {
		t.Error("TryBegin should succeed after End")
	}
	g.End()
}

func TestGuard_EndWithoutBeginIsHarmless(t *testing.T) {
	var g Guard
	g.End()
	if !g.TryBegin() {
		t.Error("TryBegin should succeed after a spurious End")
	}
	g.End()
}

func TestGuard_ConcurrentAdmission(t *testing.T) {
	// Many goroutines race for the slot; exactly one wins per round.
	var g Guard
	var admitted atomic.Int64

	const goroutines = 32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.TryBegin() {
				admitted.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := admitted.Load(); got != 1 {
		t.Errorf("admitted %d goroutines, want exactly 1", got)
	}
}
