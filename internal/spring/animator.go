// Package spring animates a scalar toward a target with damped-spring
// dynamics. It owns the animated value outright: gesture code pins it
// during a drag, the animator integrates it while settling, and nothing
// else mutates it.
package spring

import (
	"errors"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Mode selects how a transition reaches its target.
type Mode uint8

const (
	// ModeSpring integrates damped-spring dynamics each tick.
	ModeSpring Mode = iota
	// ModeInstant jumps to the target in a single sample. Used when the
	// reduced-motion preference is set at transition start.
	ModeInstant
)

// ErrInvalidTarget is returned by AnimateTo for a target that is not a
// legal resting position. The snap resolver, not the animator, decides
// legality; the animator only enforces it.
var ErrInvalidTarget = errors.New("spring: target is not a legal resting position")

// Sample is one step of an animation sequence.
type Sample struct {
	Value    float64
	Velocity float64
	Settled  bool
}

// Config holds the tunable spring constants. Zero fields fall back to the
// defaults below; none of these values is canonical, surfaces tune them.
type Config struct {
	FPS              int     // integration substep rate
	AngularFrequency float64 // spring stiffness
	DampingRatio     float64 // <1 underdamped, 1 critically damped
	Epsilon          float64 // settle threshold for |value-target| and |velocity|
	SettleFrames     int     // consecutive in-threshold substeps before settling
}

const (
	defaultFPS          = 60
	defaultFrequency    = 7.0
	defaultDamping      = 0.85
	defaultEpsilon      = 0.5
	defaultSettleFrames = 3
)

func (c Config) withDefaults() Config {
	if c.FPS <= 0 {
		c.FPS = defaultFPS
	}
	if c.AngularFrequency <= 0 {
		c.AngularFrequency = defaultFrequency
	}
	if c.DampingRatio <= 0 {
		c.DampingRatio = defaultDamping
	}
	if c.Epsilon <= 0 {
		c.Epsilon = defaultEpsilon
	}
	if c.SettleFrames <= 0 {
		c.SettleFrames = defaultSettleFrames
	}
	return c
}

// Animator drives one scalar value toward snap targets. It performs no
// scheduling of its own: the caller supplies elapsed time per tick, so it
// runs under a real frame clock or a synthetic test clock alike.
//
// Harmonica springs integrate at a fixed timestep, so the animator
// accumulates the supplied elapsed time and advances in whole substeps,
// carrying the remainder. Resolution is fully deterministic for a given
// tick sequence.
type Animator struct {
	cfg    Config
	spring harmonica.Spring
	step   time.Duration
	legal  func(float64) bool

	value    float64
	velocity float64
	target   float64
	mode     Mode

	animating bool
	acc       time.Duration
	calm      int
}

// NewAnimator creates an Animator resting at initial. legal reports
// whether a position is a valid animation target (a snap point or the
// dismiss position); nil disables the check.
func NewAnimator(cfg Config, initial float64, legal func(float64) bool) *Animator {
	cfg = cfg.withDefaults()
	return &Animator{
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.AngularFrequency, cfg.DampingRatio),
		step:   time.Second / time.Duration(cfg.FPS),
		legal:  legal,
		value:  initial,
		target: initial,
	}
}

// Value returns the current animated value, the single source of truth for
// dependent visuals.
func (a *Animator) Value() float64 {
	return a.value
}

// Velocity returns the current animated velocity (units/second scaled by
// the spring's internal step).
func (a *Animator) Velocity() float64 {
	return a.velocity
}

// Target returns the position of the active (or last) transition.
func (a *Animator) Target() float64 {
	return a.target
}

// Animating reports whether a transition is in flight.
func (a *Animator) Animating() bool {
	return a.animating
}

// AnimateTo starts a transition from (fromValue, fromVelocity) toward
// target. Calling it mid-flight restarts integration from the supplied
// conditions, so passing the current Value/Velocity re-grabs a settling
// surface without a jump. The mode is fixed for the whole transition;
// reduced motion is decided at this point and never mid-flight.
func (a *Animator) AnimateTo(target, fromValue, fromVelocity float64, mode Mode) error {
	if a.legal != nil && !a.legal(target) {
		return ErrInvalidTarget
	}
	a.value = fromValue
	a.velocity = fromVelocity
	a.target = target
	a.mode = mode
	a.animating = true
	a.acc = 0
	a.calm = 0
	return nil
}

// Retarget starts a transition toward target from the animator's current
// value and velocity.
func (a *Animator) Retarget(target float64, mode Mode) error {
	return a.AnimateTo(target, a.value, a.velocity, mode)
}

// Pin stops any active transition and fixes the value directly. Used while
// a drag has the surface, when the pointer, not the spring, owns motion.
func (a *Animator) Pin(value float64) {
	a.value = value
	a.velocity = 0
	a.animating = false
	a.acc = 0
	a.calm = 0
}

// Stop terminates the active sequence immediately. No further samples are
// produced; the value stays wherever it was.
func (a *Animator) Stop() {
	a.animating = false
	a.acc = 0
	a.calm = 0
}

// Tick advances the animation by the elapsed wall (or synthetic) time and
// returns the next sample. ok is false once the sequence has finished: a
// settled transition yields its final sample exactly once, then Tick
// reports done until the next AnimateTo.
func (a *Animator) Tick(elapsed time.Duration) (Sample, bool) {
	if !a.animating {
		return Sample{}, false
	}

	if a.mode == ModeInstant {
		a.value = a.target
		a.velocity = 0
		a.animating = false
		return Sample{Value: a.value, Settled: true}, true
	}

	a.acc += elapsed
	for a.acc >= a.step {
		a.acc -= a.step
		a.value, a.velocity = a.spring.Update(a.value, a.velocity, a.target)
		if abs(a.value-a.target) < a.cfg.Epsilon && abs(a.velocity) < a.cfg.Epsilon {
			a.calm++
			if a.calm >= a.cfg.SettleFrames {
				a.value = a.target
				a.velocity = 0
				a.animating = false
				return Sample{Value: a.value, Settled: true}, true
			}
		} else {
			a.calm = 0
		}
	}

	// A tick shorter than one substep re-reports the current state.
	return Sample{Value: a.value, Velocity: a.velocity}, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
