package agent

import (
	"errors"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/strayware/go-wisp/internal/log"
	"github.com/strayware/go-wisp/pkg/scene"
)

// Phase boundaries. Rotation below headingEpsilon snaps; translation
// below distanceEpsilon is skipped entirely.
const (
	headingEpsilon  = 1.0  // degrees
	distanceEpsilon = 0.01 // world units

	minPhaseDuration     = 100 * time.Millisecond
	maxRotationDuration  = 1 * time.Second
	maxTranslateDuration = 5 * time.Second
)

// task is one motion request in flight. The callback fires exactly once
// no matter how the task ends.
type task struct {
	cancelOnce sync.Once
	cancel     chan struct{}

	doneOnce sync.Once
	done     DoneFunc
}

func newTask(done DoneFunc) *task {
	return &task{
		cancel: make(chan struct{}),
		done:   done,
	}
}

// requestCancel signals cooperative cancellation. The running goroutine
// observes it at the next tick boundary.
func (t *task) requestCancel() {
	t.cancelOnce.Do(func() { close(t.cancel) })
}

// complete fires the callback exactly once.
func (t *task) complete(err error) {
	t.doneOnce.Do(func() {
		if t.done != nil {
			t.done(err)
		}
	})
}

// plan describes one motion request.
type plan struct {
	dest       r3.Vec       // Destination position
	adopt      scene.Anchor // Anchor to adopt on completion
	adoptOwned bool         // Whether the agent owns the adopted anchor
	react      bool         // Play the terminal reaction on arrival
}

// MoveTo walks the agent to the target anchor's position, cancelling
// any active motion first. On completion the agent adopts the target
// anchor, releasing its previous one, and done fires with nil. The
// caller transfers anchor ownership to the agent.
func (a *Agent) MoveTo(target scene.Anchor, done DoneFunc) {
	a.startMotion(plan{
		dest:       target.Pose().Position,
		adopt:      target,
		adoptOwned: true,
	}, done)
}

// NavigateToObject walks the agent toward a placed object, stopping
// SafeDistance short of it, then plays the terminal reaction before
// settling back to Idle. The agent adopts the object's anchor without
// taking ownership; the registry keeps it alive.
func (a *Agent) NavigateToObject(obj *scene.PlacedObject, done DoneFunc) {
	if obj == nil || obj.Anchor == nil {
		if done != nil {
			done(ErrNoAnchor)
		}
		return
	}

	a.mu.Lock()
	start := a.pose.Position
	a.mu.Unlock()

	target := obj.Anchor.Pose().Position
	disp := r3.Sub(target, start)
	dist := r3.Norm(disp)

	dest := target
	if dist > 0 {
		ratio := math.Max(0, dist-a.cfg.SafeDistance) / dist
		dest = r3.Add(start, r3.Scale(ratio, disp))
	}

	a.startMotion(plan{
		dest:  dest,
		adopt: obj.Anchor,
		react: true,
	}, done)
}

// startMotion supersedes the active task and launches a new one from
// the agent's current pose. The superseded task notices at its next
// suspension point and fires its callback with ErrCanceled.
func (a *Agent) startMotion(p plan, done DoneFunc) {
	t := newTask(done)

	a.mu.Lock()
	if prev := a.task; prev != nil {
		prev.requestCancel()
	}
	a.task = t
	start := a.pose
	a.mu.Unlock()

	go a.run(t, start, p)
}

// run executes the rotation and translation phases, then the terminal
// reaction if requested. Any fault forces a transition to Idle and the
// callback still fires, so callers cannot deadlock waiting on it.
func (a *Agent) run(t *task, start scene.Pose, p plan) {
	disp := r3.Sub(p.dest, start.Position)
	dist := r3.Norm(disp)

	heading := start.Heading
	delta := 0.0
	if math.Hypot(disp.X, disp.Z) > 1e-9 {
		delta = headingDelta(start.Heading, disp)
	}

	// Rotation phase
	if math.Abs(delta) > headingEpsilon && a.cfg.SmoothMovement {
		if !a.setPhase(t, PhaseRotating) {
			t.complete(ErrCanceled)
			return
		}
		d := rotationDuration(delta, a.cfg.RotationSpeed)
		err := a.interpolate(t, d, func(alpha float64) scene.Pose {
			return scene.Pose{
				Position: start.Position,
				Heading:  normalizeDegrees(start.Heading + delta*alpha),
			}
		})
		if err != nil {
			a.abort(t, err)
			return
		}
		heading = normalizeDegrees(start.Heading + delta)
	} else if delta != 0 {
		heading = normalizeDegrees(start.Heading + delta)
		if err := a.submitPose(t, scene.Pose{Position: start.Position, Heading: heading}); err != nil {
			a.abort(t, err)
			return
		}
	}

	// Translation phase
	if dist > distanceEpsilon {
		if !a.setPhase(t, PhaseTranslating) {
			t.complete(ErrCanceled)
			return
		}
		_ = a.anim.Play(a.cfg.Clips.Walk)
		d := translationDuration(dist, a.cfg.MovementSpeed)
		err := a.interpolate(t, d, func(alpha float64) scene.Pose {
			return scene.Pose{
				Position: r3.Add(start.Position, r3.Scale(alpha, disp)),
				Heading:  heading,
			}
		})
		a.anim.Stop(a.cfg.Clips.Walk)
		if err != nil {
			a.abort(t, err)
			return
		}
	}

	// Terminal reaction
	if p.react {
		if !a.setPhase(t, PhaseReacting) {
			t.complete(ErrCanceled)
			return
		}
		if err := a.react(t); err != nil {
			a.abort(t, err)
			return
		}
	}

	a.settle(t, p)
}

// interpolate drives pose updates at the tick rate for the given
// duration. Returns ErrCanceled when the task is superseded, or the
// controller fault.
func (a *Agent) interpolate(t *task, d time.Duration, poseAt func(alpha float64) scene.Pose) error {
	ticker := time.NewTicker(a.cfg.TickInterval)
	defer ticker.Stop()

	begin := time.Now()
	for {
		select {
		case <-t.cancel:
			return ErrCanceled

		case <-ticker.C:
			alpha := float64(time.Since(begin)) / float64(d)
			if alpha > 1 {
				alpha = 1
			}
			pose := poseAt(alpha)
			if err := a.submitPose(t, pose); err != nil {
				return err
			}
			if alpha == 1 {
				return nil
			}
		}
	}
}

// react plays the reaction clip for its full duration, still honoring
// cancellation. A clip missing from the provider's table is skipped.
func (a *Agent) react(t *task) error {
	clip := a.cfg.Clips.React
	dur, ok := a.anim.ClipDuration(clip)
	if !ok || dur <= 0 {
		return nil
	}

	if err := a.anim.Play(clip); err != nil {
		return err
	}
	defer a.anim.Stop(clip)

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-t.cancel:
		return ErrCanceled
	case <-timer.C:
		return nil
	}
}

// settle finishes a successful run: adopt the target anchor, release
// the previous one, return to Idle, fire the callback.
func (a *Agent) settle(t *task, p plan) {
	a.mu.Lock()
	owner := a.task == t
	if owner {
		if p.adopt != nil && p.adopt != a.anchor {
			a.releaseAnchorLocked()
			a.anchor = p.adopt
			a.ownsAnchor = p.adoptOwned
		}
		a.phase = PhaseIdle
		a.task = nil
	}
	a.mu.Unlock()

	if !owner {
		t.complete(ErrCanceled)
		return
	}

	_ = a.anim.Play(a.cfg.Clips.Idle)
	t.complete(nil)
}

// abort ends a task early. Cancellation leaves the phase to whoever
// superseded us; a fault forces Idle with the idle pose. Either way the
// callback fires.
func (a *Agent) abort(t *task, err error) {
	if errors.Is(err, ErrCanceled) {
		t.complete(ErrCanceled)
		return
	}

	a.mu.Lock()
	owner := a.task == t
	if owner {
		a.phase = PhaseIdle
		a.task = nil
	}
	a.mu.Unlock()

	if owner {
		_ = a.anim.Play(a.cfg.Clips.Idle)
		log.Warn("motion fault, recovered to idle", "err", err)
	}
	t.complete(err)
}

// setPhase transitions the phase if the task still owns the agent.
func (a *Agent) setPhase(t *task, ph Phase) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.task != t {
		return false
	}
	a.phase = ph
	return true
}

// submitPose sends a pose to the model controller and records it as the
// agent's current pose while the task owns the agent.
func (a *Agent) submitPose(t *task, pose scene.Pose) error {
	if err := a.ctrl.SetPose(pose); err != nil {
		return err
	}
	a.mu.Lock()
	if a.task == t {
		a.pose = pose
	}
	a.mu.Unlock()
	return nil
}

// headingDelta returns the shortest signed angular difference in
// [-180, 180] between the current heading and the heading implied by
// the horizontal displacement. Heading 0 looks along +Z; positive
// headings turn toward +X.
func headingDelta(current float64, disp r3.Vec) float64 {
	target := math.Atan2(disp.X, disp.Z) * 180 / math.Pi
	return normalizeDegrees(target - current)
}

// normalizeDegrees wraps an angle into [-180, 180].
func normalizeDegrees(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m > 180 {
		m -= 360
	} else if m < -180 {
		m += 360
	}
	return m
}

// rotationDuration derives the rotation phase length from the angular
// distance, clamped to [100ms, 1s].
func rotationDuration(deltaDeg, speedDegPerSec float64) time.Duration {
	d := time.Duration(math.Abs(deltaDeg) / speedDegPerSec * float64(time.Second))
	return clampDuration(d, minPhaseDuration, maxRotationDuration)
}

// translationDuration derives the translation phase length from the
// distance, clamped to [100ms, 5s].
func translationDuration(dist, speedPerSec float64) time.Duration {
	d := time.Duration(dist / speedPerSec * float64(time.Second))
	return clampDuration(d, minPhaseDuration, maxTranslateDuration)
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
