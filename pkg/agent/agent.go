// Package agent drives a navigable scene agent toward target anchors
// with cancellable, interpolated motion.
//
// At most one motion task is active per agent. Issuing a new request
// cancels the outstanding one cooperatively: the running task observes
// the cancel at its next interpolation tick and stands down. Faults
// mid-motion recover to Idle; they are never propagated as panics and
// never leave the agent stuck between phases.
package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/strayware/go-wisp/pkg/scene"
)

// Phase is the agent's motion state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRotating
	PhaseTranslating
	PhaseReacting
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRotating:
		return "rotating"
	case PhaseTranslating:
		return "translating"
	case PhaseReacting:
		return "reacting"
	default:
		return "unknown"
	}
}

// ModelController applies poses to the agent's rendered model.
type ModelController interface {
	SetPose(p scene.Pose) error
}

// AnimationPlayer plays named clips on the agent's model and reports
// clip durations. Both come from the render provider's clip table.
type AnimationPlayer interface {
	Play(clip string) error
	Stop(clip string)
	ClipDuration(clip string) (time.Duration, bool)
}

// Clips names the animation clips the agent uses.
type Clips struct {
	Idle  string
	Walk  string
	React string
}

// DefaultClips returns the clip names of the stock agent model.
func DefaultClips() Clips {
	return Clips{
		Idle:  "idle",
		Walk:  "walk",
		React: "spin",
	}
}

// Config holds motion tuning.
type Config struct {
	MovementSpeed  float64       // World units per second
	RotationSpeed  float64       // Degrees per second
	SmoothMovement bool          // Interpolate heading changes instead of snapping
	SafeDistance   float64       // Stand-off short of navigation targets
	TickInterval   time.Duration // Interpolation step, one rendering tick
	Clips          Clips
}

// DefaultConfig returns production motion defaults.
func DefaultConfig() Config {
	return Config{
		MovementSpeed:  0.05,
		RotationSpeed:  360,
		SmoothMovement: true,
		SafeDistance:   0.1,
		TickInterval:   16 * time.Millisecond,
		Clips:          DefaultClips(),
	}
}

// Validate rejects non-positive speeds. Fatal at setup.
func (c Config) Validate() error {
	if c.MovementSpeed <= 0 {
		return fmt.Errorf("agent: movement speed must be positive, got %v", c.MovementSpeed)
	}
	if c.RotationSpeed <= 0 {
		return fmt.Errorf("agent: rotation speed must be positive, got %v", c.RotationSpeed)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("agent: tick interval must be positive, got %v", c.TickInterval)
	}
	return nil
}

// DoneFunc receives the outcome of a motion request, exactly once per
// request: nil on completion, ErrCanceled when superseded or cancelled,
// or the underlying fault after a silent recovery to Idle.
type DoneFunc func(err error)

// Agent is the navigable scene agent. All state mutations are
// serialized through its mutex; motion runs on one task goroutine at a
// time.
type Agent struct {
	cfg  Config
	ctrl ModelController
	anim AnimationPlayer

	mu         sync.Mutex
	pose       scene.Pose
	anchor     scene.Anchor
	ownsAnchor bool
	phase      Phase
	task       *task
}

// New creates an agent at the zero pose.
func New(ctrl ModelController, anim AnimationPlayer, cfg Config) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Agent{
		cfg:   cfg,
		ctrl:  ctrl,
		anim:  anim,
		phase: PhaseIdle,
	}, nil
}

// SpawnAt places the agent on an anchor it owns, cancelling any motion.
// Used for the initial placement and for external repositioning.
func (a *Agent) SpawnAt(anchor scene.Anchor) error {
	a.Cancel()

	pose := anchor.Pose()
	if err := a.ctrl.SetPose(pose); err != nil {
		return fmt.Errorf("agent: spawn pose: %w", err)
	}

	a.mu.Lock()
	a.releaseAnchorLocked()
	a.anchor = anchor
	a.ownsAnchor = true
	a.pose = pose
	a.mu.Unlock()
	return nil
}

// Phase returns the current motion phase.
func (a *Agent) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Pose returns the agent's current world pose.
func (a *Agent) Pose() scene.Pose {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pose
}

// Anchor returns the agent's current anchor, nil before the first spawn.
func (a *Agent) Anchor() scene.Anchor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.anchor
}

// Cancel aborts any active motion immediately and snaps to Idle with
// the idle pose. External manipulation of the agent or a placed object
// must call this; it takes precedence over in-flight navigation. The
// aborted request's callback fires with ErrCanceled from its own task.
func (a *Agent) Cancel() {
	a.mu.Lock()
	t := a.task
	a.task = nil
	a.phase = PhaseIdle
	a.mu.Unlock()

	if t != nil {
		t.requestCancel()
	}

	a.anim.Stop(a.cfg.Clips.Walk)
	a.anim.Stop(a.cfg.Clips.React)
	_ = a.anim.Play(a.cfg.Clips.Idle)
}

// releaseAnchorLocked detaches the current anchor if the agent owns it.
// Anchors adopted from placed objects stay alive for the registry.
func (a *Agent) releaseAnchorLocked() {
	if a.anchor != nil && a.ownsAnchor {
		a.anchor.Detach()
	}
	a.anchor = nil
	a.ownsAnchor = false
}
