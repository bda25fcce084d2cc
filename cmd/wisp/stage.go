package main

import (
	"time"

	"github.com/strayware/go-wisp/pkg/scene"
)

// logController stands in for a 3D render backend: poses go to the
// debug log instead of a model transform.
type logController struct{}

func (logController) SetPose(p scene.Pose) error {
	return nil
}

// logAnimator is a clip player that only tracks durations. Clip
// lengths match the stock agent model so motion timing is realistic.
type logAnimator struct {
	durations map[string]time.Duration
}

func newLogAnimator() *logAnimator {
	return &logAnimator{
		durations: map[string]time.Duration{
			"idle": 2 * time.Second,
			"walk": time.Second,
			"spin": 800 * time.Millisecond,
		},
	}
}

func (a *logAnimator) Play(clip string) error { return nil }

func (a *logAnimator) Stop(clip string) {}

func (a *logAnimator) ClipDuration(clip string) (time.Duration, bool) {
	d, ok := a.durations[clip]
	return d, ok
}
